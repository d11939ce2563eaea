// Package events records structured synchronization events: template saves
// propagating to implementations, parameter additions and removals, template
// deletions and renames, and sync failures.
//
// Each event carries a uuid, a severity, a reason code, and a message
// rendered from a per-reason template. The Recorder keeps a bounded in-memory
// history and mirrors every event to the log.
package events
