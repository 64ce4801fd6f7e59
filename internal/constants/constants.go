// Package constants defines application-wide constants and version information.
package constants

import "runtime"

// Version holds the application version information
const Version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

// DefaultConfigFile is read when --config is not given
const DefaultConfigFile = "mooncalendar.yaml"
