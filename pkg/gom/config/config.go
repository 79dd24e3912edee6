package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/randalmurphal/gom/pkg/gom/observability"
	"github.com/randalmurphal/gom/pkg/gom/registry"
)

// Settings configures a registry.Store from a file.
// The zero value is a plain store: case-sensitive keys, no metrics, no logs.
type Settings struct {
	// Name labels the store in log records (store=name).
	Name string `yaml:"name" json:"name"`

	// CaseFold makes keys case-insensitive.
	CaseFold bool `yaml:"case_fold" json:"case_fold"`

	// Sealed closes the store to new keys once setup is done; see Seal.
	Sealed bool `yaml:"sealed" json:"sealed"`

	// Metrics enables OpenTelemetry metrics through the global meter provider.
	Metrics bool `yaml:"metrics" json:"metrics"`

	// LogLevel enables logging at the given slog level ("debug", "info",
	// "warn", "error"). Empty disables logging.
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Level returns the parsed LogLevel and whether logging is enabled.
func (s Settings) Level() (slog.Level, bool, error) {
	if strings.TrimSpace(s.LogLevel) == "" {
		return 0, false, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s.LogLevel))); err != nil {
		return 0, false, fmt.Errorf("invalid log_level %q: %w", s.LogLevel, err)
	}
	return lvl, true, nil
}

// Validate checks the settings for errors.
func (s Settings) Validate() error {
	_, _, err := s.Level()
	return err
}

// Options converts the settings into store options. Log output goes to out
// as slog text records; a nil out means os.Stderr.
//
// Example:
//
//	settings, err := config.FromFile("gom.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts, err := settings.Options(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gom.Init(opts...)
//	// register the startup values, then:
//	settings.Seal(gom.Default())
func (s Settings) Options(out io.Writer) ([]registry.Option, error) {
	lvl, logging, err := s.Level()
	if err != nil {
		return nil, err
	}

	var opts []registry.Option
	if s.Name != "" {
		opts = append(opts, registry.WithName(s.Name))
	}
	if s.CaseFold {
		opts = append(opts, registry.WithCaseFoldLower())
	}
	if s.Metrics {
		opts = append(opts, registry.WithMetrics(observability.NewMetricsRecorder()))
	}
	if logging {
		if out == nil {
			out = os.Stderr
		}
		logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl}))
		opts = append(opts, registry.WithLogger(logger))
	}
	return opts, nil
}

// Seal seals store if Sealed is set, and reports whether it did. Call it
// after the startup values are registered: a sealed store refuses new
// keys but existing ones stay usable.
func (s Settings) Seal(store *registry.Store) bool {
	if !s.Sealed {
		return false
	}
	return store.Seal()
}
