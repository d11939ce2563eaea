// Package logging provides structured, subsystem-tagged logging for tmplsync,
// built on the standard library's slog package.
//
// Every log call names the subsystem it originates from, so that output can be
// filtered by concern:
//
//	logging.Init(logging.LevelInfo, os.Stdout)
//	logging.Info("Sync", "Template [%s] was saved. Syncing implementations.", name)
//	logging.Error("Store", err, "Failed to write %s", path)
//
// Subsystems in use: Sync, Registry, Store, ReconcileManager,
// FilesystemDetector, Events, ConfigLoader, Serve.
package logging
