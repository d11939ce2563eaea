package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tmplsync/pkg/logging"
)

// Manager coordinates the reconciliation of project documents.
//
// It manages the change detector, the work queue, a worker pool, and retry
// with exponential backoff.
type Manager struct {
	mu sync.RWMutex

	config ManagerConfig

	// reconciler processes reconciliation requests
	reconciler Reconciler

	// changeDetector detects document changes
	changeDetector ChangeDetector

	// queue is the work queue for reconciliation requests
	queue *delayedQueue

	// statusTracker tracks reconciliation status per project
	statusTracker map[string]*ReconcileStatus

	// changeChan receives change events from the detector
	changeChan chan ChangeEvent

	ctx        context.Context
	cancelFunc context.CancelFunc

	// wg tracks running workers
	wg sync.WaitGroup

	// running indicates if the manager is active
	running bool
}

// NewManager creates a reconciliation manager driving the given reconciler.
// A nil detector defaults to a filesystem detector over config.ProjectsDir.
func NewManager(config ManagerConfig, reconciler Reconciler, detector ChangeDetector) *Manager {
	if config.WorkerCount == 0 {
		config.WorkerCount = 2
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 5
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = time.Second
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = 5 * time.Minute
	}
	if config.DebounceInterval == 0 {
		config.DebounceInterval = 500 * time.Millisecond
	}
	if config.ReconcileTimeout == 0 {
		config.ReconcileTimeout = 30 * time.Second
	}
	if detector == nil {
		detector = NewFilesystemDetector(config.ProjectsDir, config.DebounceInterval)
	}

	return &Manager{
		config:         config,
		reconciler:     reconciler,
		changeDetector: detector,
		queue:          NewDelayedQueue(),
		statusTracker:  make(map[string]*ReconcileStatus),
		changeChan:     make(chan ChangeEvent, 100),
	}
}

// Start begins the reconciliation system.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}

	m.ctx, m.cancelFunc = context.WithCancel(ctx)
	m.running = true
	m.mu.Unlock()

	if err := m.changeDetector.Start(m.ctx, m.changeChan); err != nil {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		return fmt.Errorf("failed to start change detector: %w", err)
	}

	m.wg.Add(1)
	go m.processChangeEvents()

	for i := 0; i < m.config.WorkerCount; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	logging.Info("ReconcileManager", "Started with %d workers", m.config.WorkerCount)
	return nil
}

// processChangeEvents converts change events to reconcile requests.
func (m *Manager) processChangeEvents() {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return

		case event, ok := <-m.changeChan:
			if !ok {
				return
			}
			m.handleChangeEvent(event)
		}
	}
}

// handleChangeEvent processes a single change event.
func (m *Manager) handleChangeEvent(event ChangeEvent) {
	logging.Debug("ReconcileManager", "Handling change event: %s %s",
		event.Operation, event.Name)

	m.updateStatus(event.Name, StatePending, "")

	m.queue.Add(ReconcileRequest{
		Name:      event.Name,
		Operation: event.Operation,
		Attempt:   1,
	})
}

// worker processes reconciliation requests from the queue.
func (m *Manager) worker(id int) {
	defer m.wg.Done()

	logging.Debug("ReconcileManager", "Worker %d started", id)

	for {
		req, ok := m.queue.Get(m.ctx)
		if !ok {
			logging.Debug("ReconcileManager", "Worker %d shutting down", id)
			return
		}

		m.processRequest(req)
		m.queue.Done(req)
	}
}

// processRequest handles a single reconciliation request.
func (m *Manager) processRequest(req ReconcileRequest) {
	m.updateStatus(req.Name, StateReconciling, "")

	logging.Debug("ReconcileManager", "Reconciling [%s] (attempt %d)",
		req.Name, req.Attempt)

	// Bound the attempt so a hung reconciler cannot block a worker forever.
	ctx, cancel := context.WithTimeout(m.ctx, m.config.ReconcileTimeout)
	defer cancel()

	result := m.reconciler.Reconcile(ctx, req)

	if ctx.Err() == context.DeadlineExceeded {
		result.Error = fmt.Errorf("reconciliation timed out after %v", m.config.ReconcileTimeout)
		result.Requeue = true
	}

	switch {
	case result.Error != nil:
		m.handleReconcileError(req, result)
	case result.Requeue || result.RequeueAfter > 0:
		m.handleRequeue(req, result)
		m.updateStatus(req.Name, StateSynced, "")
	default:
		m.handleSuccess(req)
	}
}

// handleReconcileError handles a failed reconciliation.
func (m *Manager) handleReconcileError(req ReconcileRequest, result ReconcileResult) {
	logging.Warn("ReconcileManager", "Reconciliation failed for [%s]: %v",
		req.Name, result.Error)

	if req.Attempt >= m.config.MaxRetries {
		logging.Error("ReconcileManager", result.Error,
			"Max retries exceeded for [%s]", req.Name)
		m.updateStatus(req.Name, StateFailed, result.Error.Error())
		return
	}

	m.updateStatus(req.Name, StateError, result.Error.Error())

	backoff := m.calculateBackoff(req.Attempt)
	req.Attempt++
	req.LastError = result.Error
	m.queue.AddAfter(req, backoff)

	logging.Debug("ReconcileManager", "Requeuing [%s] after %v (attempt %d)",
		req.Name, backoff, req.Attempt)
}

// handleRequeue handles a successful reconciliation that needs requeueing.
func (m *Manager) handleRequeue(req ReconcileRequest, result ReconcileResult) {
	delay := result.RequeueAfter
	if delay == 0 {
		delay = m.config.InitialBackoff
	}

	m.queue.AddAfter(req, delay)
	logging.Debug("ReconcileManager", "Requeuing [%s] after %v", req.Name, delay)
}

// handleSuccess handles a successful reconciliation.
func (m *Manager) handleSuccess(req ReconcileRequest) {
	logging.Debug("ReconcileManager", "Successfully reconciled [%s]", req.Name)
	m.updateStatus(req.Name, StateSynced, "")
}

// calculateBackoff computes exponential backoff.
func (m *Manager) calculateBackoff(attempt int) time.Duration {
	backoff := m.config.InitialBackoff * time.Duration(1<<uint(attempt-1))
	if backoff > m.config.MaxBackoff {
		backoff = m.config.MaxBackoff
	}
	return backoff
}

// updateStatus updates the reconciliation status for a project.
func (m *Manager) updateStatus(name string, state ReconcileState, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status, ok := m.statusTracker[name]
	if !ok {
		status = &ReconcileStatus{Name: name}
		m.statusTracker[name] = status
	}

	status.State = state
	status.LastError = errMsg

	switch state {
	case StateSynced:
		now := time.Now()
		status.LastReconcileTime = &now
		status.RetryCount = 0
	case StateError:
		status.RetryCount++
	}
}

// Stop gracefully shuts down the reconciliation manager.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	logging.Info("ReconcileManager", "Stopping reconciliation manager...")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if err := m.changeDetector.Stop(); err != nil {
		logging.Error("ReconcileManager", err, "Error stopping change detector")
	}

	m.queue.Shutdown()
	m.wg.Wait()

	logging.Info("ReconcileManager", "Reconciliation manager stopped")
	return nil
}

// GetStatus returns the reconciliation status for a project.
func (m *Manager) GetStatus(name string) (*ReconcileStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, ok := m.statusTracker[name]
	return status, ok
}

// GetAllStatuses returns all reconciliation statuses.
func (m *Manager) GetAllStatuses() []ReconcileStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	statuses := make([]ReconcileStatus, 0, len(m.statusTracker))
	for _, status := range m.statusTracker {
		statuses = append(statuses, *status)
	}
	return statuses
}

// TriggerReconcile manually triggers reconciliation for a project.
func (m *Manager) TriggerReconcile(name string) {
	m.handleChangeEvent(ChangeEvent{
		Name:      name,
		Operation: OperationUpdate,
		Timestamp: time.Now(),
	})
}

// IsRunning returns whether the manager is running.
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// GetQueueLength returns the current queue length.
func (m *Manager) GetQueueLength() int {
	return m.queue.Len()
}
