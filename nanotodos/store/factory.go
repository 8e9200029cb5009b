package store

import (
	"fmt"
	"log/slog"
	"strings"
)

// Driver names a store backend.
type Driver string

const (
	// DriverSQLite stores data in a SQLite database file.
	DriverSQLite Driver = "sqlite"
	// DriverMemory keeps data in process memory only.
	DriverMemory Driver = "memory"
	// DriverJSON keeps data in memory and persists a JSON snapshot file.
	DriverJSON Driver = "json"
)

// Drivers lists every supported backend.
var Drivers = []Driver{DriverSQLite, DriverMemory, DriverJSON}

// ParseDriver converts a configuration value into a Driver.
func ParseDriver(s string) (Driver, error) {
	d := Driver(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Drivers {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown store driver %q (want sqlite, memory or json)", s)
}

// Config selects and configures a backend.
type Config struct {
	Driver Driver
	// Path is the database file (sqlite) or snapshot file (json). Ignored
	// by the memory driver.
	Path   string
	Logger *slog.Logger
}

// Validate checks that the configuration can open a store.
func (c Config) Validate() error {
	d, err := ParseDriver(string(c.Driver))
	if err != nil {
		return err
	}
	if d != DriverMemory && strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("driver %s requires a path", d)
	}
	return nil
}

// Open creates the Store described by cfg.
func Open(cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}
	driver, _ := ParseDriver(string(cfg.Driver))
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch driver {
	case DriverSQLite:
		return NewSQLStore(cfg.Path, WithSQLLogger(logger))
	case DriverJSON:
		return NewMemoryStore(WithFile(cfg.Path), WithLogger(logger))
	default:
		return NewMemoryStore(WithLogger(logger))
	}
}
