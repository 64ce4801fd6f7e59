// Package export writes the per-day phase table of a calendar as JSON or
// MessagePack.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// Record is one day of the phase table.
type Record struct {
	Date         string  `json:"date"`
	UTCOffset    int     `json:"utc_offset"`
	Illumination float64 `json:"illumination"`
	Waxing       bool    `json:"waxing"`
	Phase        string  `json:"phase"`
	LunarDay     int     `json:"lunar_day"`
	Marker       string  `json:"marker"`
	SweepStart   float64 `json:"sweep_start"`
	SweepEnd     float64 `json:"sweep_end"`
}

// Table is the exported document.
type Table struct {
	Year  int      `json:"year"`
	Model string   `json:"model"`
	Days  []Record `json:"days"`
}

// Encode writes t to w in the given format: "json" or "msgpack".
func Encode(w io.Writer, format string, t *Table) error {
	switch format {
	case "", "json":
		return writeJSON(w, t)
	case "msgpack":
		return writeMsgPack(w, t)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// Decode reads a table previously written by Encode.
func Decode(r io.Reader, format string) (*Table, error) {
	var t Table
	switch format {
	case "", "json":
		if err := json.NewDecoder(r).Decode(&t); err != nil {
			return nil, err
		}
	case "msgpack":
		decoder := msgpack.NewDecoder(r)
		decoder.SetCustomStructTag("json")
		if err := decoder.Decode(&t); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
	return &t, nil
}

// WriteFile encodes t into path, replacing any existing file.
func WriteFile(path, format string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := Encode(f, format, t); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return f.Close()
}

func writeJSON(w io.Writer, t *Table) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(t)
}

func writeMsgPack(w io.Writer, t *Table) error {
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(t)
}
