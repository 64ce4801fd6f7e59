package config

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const defaultConfigName = "default"

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens (or creates) a SQLite configuration database and
// makes sure its schema exists
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	s := &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteProvider) ensureSchema() error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	if err := s.loadCalendar(&config.Calendar); err != nil {
		return nil, fmt.Errorf("failed to load calendar config: %w", err)
	}
	if err := s.loadEphemeris(&config.Ephemeris); err != nil {
		return nil, fmt.Errorf("failed to load ephemeris config: %w", err)
	}
	if err := s.loadOutput(&config.Output); err != nil {
		return nil, fmt.Errorf("failed to load output config: %w", err)
	}
	if err := s.loadLogging(&config.Logging); err != nil {
		return nil, fmt.Errorf("failed to load logging config: %w", err)
	}

	return config, nil
}

const configIDQuery = `(SELECT id FROM configs WHERE name = 'default')`

// missing rows leave the section at its zero value
func noRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

func (s *SQLiteProvider) loadCalendar(c *CalendarData) error {
	var year, offset sql.NullInt64
	err := s.db.QueryRow(`SELECT year, utc_offset FROM calendar_configs WHERE config_id = ` + configIDQuery).
		Scan(&year, &offset)
	if err != nil {
		return noRows(err)
	}

	c.Year = int(year.Int64)
	c.UTCOffset = int(offset.Int64)
	return nil
}

func (s *SQLiteProvider) loadEphemeris(e *EphemerisData) error {
	var model, dir, start, end sql.NullString
	var cache bool
	err := s.db.QueryRow(`SELECT model, vsop87_dir, span_start, span_end, cache FROM ephemeris_configs WHERE config_id = `+configIDQuery).
		Scan(&model, &dir, &start, &end, &cache)
	if err != nil {
		return noRows(err)
	}

	e.Model = model.String
	e.VSOP87Dir = dir.String
	e.SpanStart = start.String
	e.SpanEnd = end.String
	e.Cache = cache
	return nil
}

func (s *SQLiteProvider) loadOutput(o *OutputData) error {
	var path, export, format sql.NullString
	var progress bool
	err := s.db.QueryRow(`SELECT path, export, export_format, progress FROM output_configs WHERE config_id = `+configIDQuery).
		Scan(&path, &export, &format, &progress)
	if err != nil {
		return noRows(err)
	}

	o.Path = path.String
	o.Export = export.String
	o.ExportFormat = format.String
	o.Progress = progress
	return nil
}

func (s *SQLiteProvider) loadLogging(l *LoggingData) error {
	var file, level sql.NullString
	var debug bool
	err := s.db.QueryRow(`SELECT debug, file, level FROM logging_configs WHERE config_id = `+configIDQuery).
		Scan(&debug, &file, &level)
	if err != nil {
		return noRows(err)
	}

	l.Debug = debug
	l.File = file.String
	l.Level = level.String
	return nil
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig replaces the stored configuration with configData
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	// Start transaction
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.upsertConfig(tx, defaultConfigName)
	if err != nil {
		return fmt.Errorf("failed to insert config: %w", err)
	}

	if err := s.clearExistingConfig(tx, configID); err != nil {
		return fmt.Errorf("failed to clear existing config: %w", err)
	}

	c := configData
	inserts := []struct {
		section string
		query   string
		args    []any
	}{
		{
			"calendar",
			`INSERT INTO calendar_configs (config_id, year, utc_offset) VALUES (?, ?, ?)`,
			[]any{configID, nullInt(c.Calendar.Year), c.Calendar.UTCOffset},
		},
		{
			"ephemeris",
			`INSERT INTO ephemeris_configs (config_id, model, vsop87_dir, span_start, span_end, cache) VALUES (?, ?, ?, ?, ?, ?)`,
			[]any{configID, nullString(c.Ephemeris.Model), nullString(c.Ephemeris.VSOP87Dir),
				nullString(c.Ephemeris.SpanStart), nullString(c.Ephemeris.SpanEnd), c.Ephemeris.Cache},
		},
		{
			"output",
			`INSERT INTO output_configs (config_id, path, export, export_format, progress) VALUES (?, ?, ?, ?, ?)`,
			[]any{configID, nullString(c.Output.Path), nullString(c.Output.Export),
				nullString(c.Output.ExportFormat), c.Output.Progress},
		},
		{
			"logging",
			`INSERT INTO logging_configs (config_id, debug, file, level) VALUES (?, ?, ?, ?)`,
			[]any{configID, c.Logging.Debug, nullString(c.Logging.File), nullString(c.Logging.Level)},
		},
	}

	for _, ins := range inserts {
		if _, err := tx.Exec(ins.query, ins.args...); err != nil {
			return fmt.Errorf("failed to insert %s config: %w", ins.section, err)
		}
	}

	// Commit transaction
	return tx.Commit()
}

func (s *SQLiteProvider) upsertConfig(tx *sql.Tx, name string) (int64, error) {
	_, err := tx.Exec(`
		INSERT INTO configs (name, created_at, updated_at) VALUES (?, datetime('now'), datetime('now'))
		ON CONFLICT(name) DO UPDATE SET updated_at = datetime('now')`, name)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := tx.QueryRow(`SELECT id FROM configs WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *SQLiteProvider) clearExistingConfig(tx *sql.Tx, configID int64) error {
	queries := []string{
		"DELETE FROM calendar_configs WHERE config_id = ?",
		"DELETE FROM ephemeris_configs WHERE config_id = ?",
		"DELETE FROM output_configs WHERE config_id = ?",
		"DELETE FROM logging_configs WHERE config_id = ?",
	}

	for _, query := range queries {
		if _, err := tx.Exec(query, configID); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: i != 0}
}
