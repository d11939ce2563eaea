package sync

import (
	"errors"
	"fmt"

	"tmplsync/internal/events"
	"tmplsync/internal/project"
	"tmplsync/pkg/logging"
)

// Locator resolves projects by name. Template references are weak: a string
// key re-resolved on every sync, never an owning pointer.
type Locator interface {
	// FindByName returns the named project, or nil.
	FindByName(name string) *project.Project

	// ImplementationsOf enumerates the projects registered as
	// implementations of the given template name.
	ImplementationsOf(templateName string) []*project.Project
}

// Persistence writes a project's document to durable storage without
// re-triggering a synchronization event for the write in progress.
// Suppression is this caller's responsibility, which is why the orchestrator
// only ever persists through the silent entry point.
type Persistence interface {
	SilentSave(p *project.Project) error
}

// Orchestrator propagates template changes to implementations.
//
// Each entry point runs synchronously to completion. Implementations of one
// template are processed sequentially, in enumeration order; one failing
// implementation never aborts its siblings.
type Orchestrator struct {
	locator     Locator
	persistence Persistence
	docs        DocumentStore
	recorder    *events.Recorder

	// rebuild regenerates derived matrix configurations after a direct axis
	// restoration. Injected so hosts with richer runtime state can hook in.
	rebuild func(*project.Project)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder attaches an event recorder.
func WithRecorder(r *events.Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithRebuildHook replaces the default matrix configuration rebuild step.
func WithRebuildHook(rebuild func(*project.Project)) Option {
	return func(o *Orchestrator) { o.rebuild = rebuild }
}

// NewOrchestrator creates an orchestrator over the given collaborators.
func NewOrchestrator(locator Locator, persistence Persistence, docs DocumentStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		locator:     locator,
		persistence: persistence,
		docs:        docs,
		rebuild:     (*project.Project).RebuildConfigurations,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OnTemplateSaved re-syncs every implementation of the template. Failures are
// collected per implementation and joined; siblings still get processed.
func (o *Orchestrator) OnTemplateSaved(tmpl *project.Project) error {
	logging.Info("Sync", "Template [%s] was saved. Syncing implementations.", tmpl.Name)

	impls := o.locator.ImplementationsOf(tmpl.Name)
	var errs []error
	for _, impl := range impls {
		if err := o.OnImplementationSaved(impl); err != nil {
			errs = append(errs, fmt.Errorf("implementation %s: %w", impl.Name, err))
		}
	}

	o.record(events.ReasonTemplateSynced, events.EventData{
		Name:  tmpl.Name,
		Count: len(impls) - len(errs),
	})
	return errors.Join(errs...)
}

// OnTemplateDeleted detaches every implementation of the template: the
// implementation marker is removed and the project persisted, with no change
// to any template-governed field. Removing an already-absent marker is a
// no-op, so repeated deliveries are harmless.
func (o *Orchestrator) OnTemplateDeleted(tmpl *project.Project) error {
	logging.Info("Sync", "Template [%s] was deleted.", tmpl.Name)

	impls := o.locator.ImplementationsOf(tmpl.Name)
	var errs []error
	for _, impl := range impls {
		logging.Info("Sync", "Removing template from [%s].", impl.Name)
		impl.Implementation = nil
		if err := o.persistence.SilentSave(impl); err != nil {
			errs = append(errs, fmt.Errorf("implementation %s: %w", impl.Name, err))
			continue
		}
		o.record(events.ReasonImplementationDetached, events.EventData{
			Name:     impl.Name,
			Template: tmpl.Name,
		})
	}

	o.record(events.ReasonTemplateDeleted, events.EventData{
		Name:  tmpl.Name,
		Count: len(impls) - len(errs),
	})
	return errors.Join(errs...)
}

// OnTemplateRenamed repoints implementations registered under the old name.
// An implementation whose stored reference is no longer the old name was
// already migrated by an earlier delivery or another path; it is skipped
// without a save, so double-delivered rename notifications stay no-ops.
func (o *Orchestrator) OnTemplateRenamed(tmpl *project.Project, oldName, newName string) error {
	logging.Info("Sync", "Template [%s] was renamed. Updating implementations.", tmpl.Name)

	var errs []error
	for _, impl := range o.locator.ImplementationsOf(oldName) {
		settings := impl.Implementation
		if settings == nil || settings.TemplateName != oldName {
			continue
		}
		logging.Info("Sync", "Updating template in [%s].", impl.Name)
		settings.TemplateName = newName
		if err := o.persistence.SilentSave(impl); err != nil {
			errs = append(errs, fmt.Errorf("implementation %s: %w", impl.Name, err))
			continue
		}
		o.record(events.ReasonTemplateReferenceUpdated, events.EventData{
			Name:     impl.Name,
			Template: newName,
		})
	}
	return errors.Join(errs...)
}

// OnImplementationSaved synchronizes one implementation with its template.
//
// The sequence: resolve the template, snapshot protected fields, overwrite
// the whole document with the template's, then selectively restore what the
// policy keeps local, and persist exactly once. All corrective writes between
// the overwrite and the final persist are direct field assignments; the
// save-and-notify pipeline that invoked this very method must not observe
// them, or every sync would recurse into another sync.
func (o *Orchestrator) OnImplementationSaved(impl *project.Project) error {
	settings := impl.Implementation
	if settings == nil {
		return fmt.Errorf("project [%s] is not an implementation of a template", impl.Name)
	}

	logging.Info("Sync", "Implementation [%s] was saved. Syncing with [%s].", impl.Name, settings.TemplateName)

	tmpl := o.locator.FindByName(settings.TemplateName)
	if tmpl == nil {
		err := &TemplateNotFoundError{Template: settings.TemplateName, Implementation: impl.Name}
		o.recordFailure(impl.Name, err)
		return err
	}

	// Capture values we want to keep before anything is overwritten.
	snap := captureSnapshot(impl, settings)

	merged, err := MergeDocument(o.docs, impl, tmpl)
	if err != nil {
		o.recordFailure(impl.Name, err)
		return err
	}
	impl = merged

	// The overwrite came from the template's document, which carries the
	// template's markers and not this implementation's settings. Put the
	// settings back, and strip the template marker unless the project
	// really is a template in its own right.
	impl.Implementation = settings
	if !snap.isTemplate {
		impl.Template = nil
	}

	// Parameters are always reconciled, never a raw keep/discard toggle:
	// new template parameters must still arrive.
	block, changes := ReconcileParameters(snap.parameters, impl.ParameterDefinitions())
	impl.Parameters = block
	o.recordParameterChanges(impl.Name, settings.TemplateName, changes)

	if !settings.SyncBuildTriggers {
		RestoreTriggers(impl.Triggers, snap.triggers)
	}

	if !settings.SyncDisabled {
		impl.Disabled = snap.disabled
	}

	if snap.axes != nil && impl.Kind == project.KindMatrix && !settings.SyncMatrixAxes {
		impl.Axes = snap.axes
		// The document overwrite does not rebuild runtime-only derived
		// state, so a direct axis restoration must.
		o.rebuild(impl)
	}

	if !settings.SyncDescription && snap.description != "" {
		impl.Description = snap.description
	}

	if err := o.persistence.SilentSave(impl); err != nil {
		o.recordFailure(impl.Name, err)
		return err
	}

	o.record(events.ReasonImplementationSynced, events.EventData{
		Name:     impl.Name,
		Template: settings.TemplateName,
	})
	return nil
}

func (o *Orchestrator) record(reason events.EventReason, data events.EventData) {
	if o.recorder != nil {
		o.recorder.Record(reason, data)
	}
}

func (o *Orchestrator) recordFailure(name string, err error) {
	logging.Error("Sync", err, "Failed to sync implementation [%s]", name)
	o.record(events.ReasonImplementationSyncFailed, events.EventData{
		Name:  name,
		Error: err.Error(),
	})
}

func (o *Orchestrator) recordParameterChanges(name, template string, changes ParameterChanges) {
	for _, param := range changes.Added {
		o.record(events.ReasonParameterAdded, events.EventData{
			Name:      name,
			Template:  template,
			Parameter: param,
		})
	}
	for _, param := range changes.Removed {
		o.record(events.ReasonParameterRemoved, events.EventData{
			Name:      name,
			Template:  template,
			Parameter: param,
		})
	}
}
