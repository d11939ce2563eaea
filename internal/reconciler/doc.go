// Package reconciler watches the project document directory and keeps the
// in-memory registry and template relationships in line with what is on disk.
//
// The moving parts:
//
//   - FilesystemDetector turns fsnotify events on document files into
//     debounced ChangeEvents.
//   - Manager fans ChangeEvents into a deduplicating work queue and drives a
//     pool of workers with retry and exponential backoff.
//   - ProjectReconciler is the single domain reconciler: it reloads or
//     removes registry records and invokes the template sync orchestrator.
//
// Saves performed by this process are marked with suppression tokens in the
// registry; the ProjectReconciler consumes those tokens and ignores the
// corresponding filesystem echoes, so a synchronization never re-triggers
// itself.
package reconciler
