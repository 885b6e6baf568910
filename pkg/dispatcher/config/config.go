package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Default listener priorities.
const (
	DefaultOnDispatchPriority = 10000
	DefaultDoDispatchPriority = 1000
)

// Journal drivers.
const (
	JournalNone   = ""
	JournalMemory = "memory"
	JournalSQLite = "sqlite"
)

// Config configures the dispatcher component.
type Config struct {
	// DefaultAction is used when the request has no action attribute.
	// Default: "index"
	DefaultAction string `yaml:"default_action" json:"default_action"`

	Priorities    Priorities    `yaml:"priorities" json:"priorities"`
	Bus           Bus           `yaml:"bus" json:"bus"`
	Journal       Journal       `yaml:"journal" json:"journal"`
	Observability Observability `yaml:"observability" json:"observability"`
}

// Priorities sets where the dispatcher listeners run relative to others.
type Priorities struct {
	// OnDispatch runs on the system dispatch channel. Default: 10000
	OnDispatch int `yaml:"on_dispatch" json:"on_dispatch"`

	// DoDispatch runs on the dispatch event channel. Default: 1000
	DoDispatch int `yaml:"do_dispatch" json:"do_dispatch"`
}

// Bus configures the event bus.
type Bus struct {
	// MaxDepth bounds nested triggers. Default: 10
	MaxDepth int `yaml:"max_depth" json:"max_depth"`
}

// Journal selects where dispatch cycles are recorded.
type Journal struct {
	// Driver is "", "memory" or "sqlite". Empty disables the journal.
	Driver string `yaml:"driver" json:"driver"`

	// Path is the SQLite database path (":memory:" allowed).
	Path string `yaml:"path" json:"path"`
}

// Observability toggles metrics, tracing and the log level.
type Observability struct {
	Metrics  bool   `yaml:"metrics" json:"metrics"`
	Tracing  bool   `yaml:"tracing" json:"tracing"`
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Default returns the configuration used when nothing is loaded.
func Default() Config {
	return Config{
		DefaultAction: "index",
		Priorities: Priorities{
			OnDispatch: DefaultOnDispatchPriority,
			DoDispatch: DefaultDoDispatchPriority,
		},
		Bus: Bus{
			MaxDepth: 10,
		},
		Observability: Observability{
			LogLevel: "info",
		},
	}
}

// Validate checks the configuration for values the dispatcher cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.DefaultAction == "" {
		errs = append(errs, errors.New("default_action must not be empty"))
	}
	if c.Bus.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("bus.max_depth must be positive, got %d", c.Bus.MaxDepth))
	}
	switch c.Journal.Driver {
	case JournalNone, JournalMemory:
	case JournalSQLite:
		if c.Journal.Path == "" {
			errs = append(errs, errors.New("journal.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown journal.driver %q", c.Journal.Driver))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LogLevel parses Observability.LogLevel. Empty means info.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Observability.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Observability.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid observability.log_level %q: %w", c.Observability.LogLevel, err)
	}
	return level, nil
}
