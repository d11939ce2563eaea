// Package store provides the persistence layer for project config documents:
// a flat XML file store (Storage) and the in-memory project index (Registry)
// that the sync core consumes as its locator, persistence, and document
// source collaborators.
//
// The registry draws a sharp line between visible saves, which notify save
// listeners and therefore feed the synchronization pipeline, and silent
// saves, which persist without a notification. Both mark the written file as
// self-originated so the filesystem watcher can discard the echo.
package store
