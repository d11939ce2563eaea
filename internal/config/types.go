package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level daemon configuration.
type Config struct {
	// ProjectsDir is the directory holding project documents.
	// Defaults to <config dir>/projects.
	ProjectsDir string `yaml:"projectsDir,omitempty"`

	// LogLevel is the minimum level emitted: debug, info, warn, or error.
	LogLevel string `yaml:"logLevel,omitempty"`

	// Reconciler configures the change-driven synchronization loop.
	Reconciler ReconcilerConfig `yaml:"reconciler"`
}

// ReconcilerConfig configures the reconciliation worker pool and its retry
// behavior.
type ReconcilerConfig struct {
	// WorkerCount is the number of concurrent reconciliation workers.
	WorkerCount int `yaml:"workerCount,omitempty"`

	// MaxRetries is the maximum number of attempts for a failing project.
	MaxRetries int `yaml:"maxRetries,omitempty"`

	// InitialBackoff is the delay before the first retry.
	InitialBackoff Duration `yaml:"initialBackoff,omitempty"`

	// MaxBackoff caps the exponential retry delay.
	MaxBackoff Duration `yaml:"maxBackoff,omitempty"`

	// DebounceInterval is how long to wait for additional filesystem
	// changes before emitting a change event.
	DebounceInterval Duration `yaml:"debounceInterval,omitempty"`

	// ReconcileTimeout bounds a single reconciliation attempt.
	ReconcileTimeout Duration `yaml:"reconcileTimeout,omitempty"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "500ms"
// or "2m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
