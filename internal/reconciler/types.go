package reconciler

import (
	"context"
	"time"
)

// ChangeEvent represents a detected change to a stored project document.
type ChangeEvent struct {
	// Name is the name of the project that changed.
	Name string

	// Operation describes what kind of change occurred.
	Operation ChangeOperation

	// Timestamp is when the change was detected.
	Timestamp time.Time

	// Path is the path to the document file that changed.
	Path string
}

// ChangeOperation represents the type of change detected.
type ChangeOperation string

const (
	// OperationCreate indicates a new project document appeared.
	OperationCreate ChangeOperation = "Create"

	// OperationUpdate indicates an existing project document was modified.
	OperationUpdate ChangeOperation = "Update"

	// OperationDelete indicates a project document was removed.
	OperationDelete ChangeOperation = "Delete"
)

// ReconcileResult represents the outcome of a reconciliation attempt.
type ReconcileResult struct {
	// Requeue indicates whether the project should be requeued for retry.
	Requeue bool

	// RequeueAfter specifies when to requeue (0 means use default backoff).
	RequeueAfter time.Duration

	// Error is any error that occurred during reconciliation.
	Error error
}

// ReconcileRequest represents a request to reconcile a specific project.
type ReconcileRequest struct {
	// Name is the name of the project.
	Name string

	// Operation is the change that caused the request.
	Operation ChangeOperation

	// Attempt is the current retry attempt number (starts at 1).
	Attempt int

	// LastError is the error from the previous attempt, if any.
	LastError error
}

// Reconciler processes reconciliation requests for project documents.
type Reconciler interface {
	// Reconcile processes a single reconciliation request. It should be
	// idempotent: calling it multiple times with the same input should
	// produce the same result.
	Reconcile(ctx context.Context, req ReconcileRequest) ReconcileResult
}

// ChangeDetector detects changes to stored project documents.
type ChangeDetector interface {
	// Start begins watching for changes. The detector sends change events
	// to the provided channel until stopped.
	Start(ctx context.Context, changes chan<- ChangeEvent) error

	// Stop gracefully stops the change detector.
	Stop() error
}

// ReconcileQueue represents a queue of projects awaiting reconciliation.
type ReconcileQueue interface {
	// Add adds a request to the queue.
	// If the same project is already queued, the existing entry is updated.
	Add(req ReconcileRequest)

	// Get retrieves the next request from the queue.
	// Blocks until a request is available or the context is cancelled.
	Get(ctx context.Context) (ReconcileRequest, bool)

	// Done marks a request as processed.
	Done(req ReconcileRequest)

	// Len returns the current queue length.
	Len() int

	// Shutdown signals the queue to stop accepting new items.
	Shutdown()
}

// ManagerConfig holds configuration for the reconcile Manager.
type ManagerConfig struct {
	// ProjectsDir is the directory holding project documents.
	ProjectsDir string

	// WorkerCount is the number of concurrent reconciliation workers.
	// Defaults to 2 if not specified.
	WorkerCount int

	// MaxRetries is the maximum number of retry attempts for failed
	// reconciliations. Defaults to 5 if not specified.
	MaxRetries int

	// InitialBackoff is the initial backoff duration for retries.
	// Defaults to 1 second if not specified.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration for retries.
	// Defaults to 5 minutes if not specified.
	MaxBackoff time.Duration

	// DebounceInterval is how long to wait for additional changes before
	// reconciling. Defaults to 500ms if not specified.
	DebounceInterval time.Duration

	// ReconcileTimeout bounds a single reconciliation attempt.
	// Defaults to 30 seconds if not specified.
	ReconcileTimeout time.Duration
}

// ReconcileStatus represents the current status of reconciliation for a project.
type ReconcileStatus struct {
	// Name is the name of the project.
	Name string

	// LastReconcileTime is when the project was last successfully reconciled.
	LastReconcileTime *time.Time

	// LastError is the most recent error, if any.
	LastError string

	// RetryCount is the number of retry attempts.
	RetryCount int

	// State describes the current reconciliation state.
	State ReconcileState
}

// ReconcileState represents the state of a project's reconciliation.
type ReconcileState string

const (
	// StatePending means the project is awaiting reconciliation.
	StatePending ReconcileState = "Pending"

	// StateReconciling means reconciliation is in progress.
	StateReconciling ReconcileState = "Reconciling"

	// StateSynced means the project is successfully reconciled.
	StateSynced ReconcileState = "Synced"

	// StateError means reconciliation failed and may be retried.
	StateError ReconcileState = "Error"

	// StateFailed means reconciliation failed permanently (max retries exceeded).
	StateFailed ReconcileState = "Failed"
)
