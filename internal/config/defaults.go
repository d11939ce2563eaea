package config

import "time"

// GetDefaultConfig returns the default daemon configuration. ProjectsDir is
// left empty here; the loader derives it from the config directory when the
// file does not set it.
func GetDefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Reconciler: ReconcilerConfig{
			WorkerCount:      2,
			MaxRetries:       5,
			InitialBackoff:   Duration(time.Second),
			MaxBackoff:       Duration(5 * time.Minute),
			DebounceInterval: Duration(500 * time.Millisecond),
			ReconcileTimeout: Duration(30 * time.Second),
		},
	}
}
