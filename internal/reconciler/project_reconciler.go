package reconciler

import (
	"context"
	"sync"

	"tmplsync/internal/store"
	tmplsync "tmplsync/internal/sync"
	"tmplsync/pkg/logging"
)

// ProjectReconciler applies detected document changes to the registry and
// runs the template synchronization that each change calls for.
//
// Reconciles are serialized: a template sync walks every implementation
// record of that template, so two requests with different queue keys can
// still touch the same record and must not run concurrently.
type ProjectReconciler struct {
	registry     *store.Registry
	orchestrator *tmplsync.Orchestrator

	// mu enforces the single-writer rule across worker goroutines.
	mu sync.Mutex
}

// NewProjectReconciler creates a project reconciler.
func NewProjectReconciler(registry *store.Registry, orchestrator *tmplsync.Orchestrator) *ProjectReconciler {
	return &ProjectReconciler{
		registry:     registry,
		orchestrator: orchestrator,
	}
}

// Reconcile processes a single document change.
//
// Writes made through the registry's own save pipeline carry a suppression
// token; their filesystem echoes are consumed here without reloading, which
// is what keeps a sync from triggering another sync of itself.
func (r *ProjectReconciler) Reconcile(ctx context.Context, req ReconcileRequest) ReconcileResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.registry.ConsumeSuppressed(req.Name) {
		logging.Debug("ProjectReconciler", "Ignoring own write for [%s]", req.Name)
		return ReconcileResult{}
	}

	if err := ctx.Err(); err != nil {
		return ReconcileResult{Error: err, Requeue: true}
	}

	if req.Operation == OperationDelete {
		return r.reconcileDelete(req.Name)
	}
	return r.reconcileSave(req.Name)
}

func (r *ProjectReconciler) reconcileSave(name string) ReconcileResult {
	p, err := r.registry.Reload(name)
	if err != nil {
		if store.IsNotFound(err) {
			// The file vanished between the event and the reload; the
			// delete event will follow.
			return ReconcileResult{}
		}
		return ReconcileResult{Error: err, Requeue: true}
	}

	if p.IsImplementation() {
		if err := r.orchestrator.OnImplementationSaved(p); err != nil {
			if tmplsync.IsTemplateNotFound(err) {
				// Retrying cannot resolve a dangling reference; only
				// another save can.
				logging.Warn("ProjectReconciler", "Implementation [%s] references a missing template: %v", name, err)
				return ReconcileResult{}
			}
			return ReconcileResult{Error: err, Requeue: true}
		}
	}

	if p.IsTemplate() {
		if err := r.orchestrator.OnTemplateSaved(p); err != nil {
			return ReconcileResult{Error: err, Requeue: true}
		}
	}

	return ReconcileResult{}
}

func (r *ProjectReconciler) reconcileDelete(name string) ReconcileResult {
	removed, ok := r.registry.Remove(name)
	if !ok {
		return ReconcileResult{}
	}

	if removed.IsTemplate() {
		if err := r.orchestrator.OnTemplateDeleted(removed); err != nil {
			return ReconcileResult{Error: err, Requeue: true}
		}
	}

	return ReconcileResult{}
}
