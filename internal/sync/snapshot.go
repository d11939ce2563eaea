package sync

import "tmplsync/internal/project"

// fieldSnapshot captures the pre-sync value of every protected field on an
// implementation, taken before the template's document overwrites it.
type fieldSnapshot struct {
	// isTemplate records whether the implementation is itself also a template.
	isTemplate bool

	// parameters are the implementation's parameter definitions, in order.
	// The definition objects themselves are shared, not copied: reconciliation
	// keeps matched objects alive across the overwrite.
	parameters []*project.ParameterDefinition

	// triggers is a copy of the live trigger collection's contents.
	triggers []project.Trigger

	disabled    bool
	description string

	// axes is the matrix axis list, captured only when the project is a
	// matrix project and the policy keeps axes local. Nil otherwise.
	axes project.AxisList
}

// captureSnapshot records the implementation's protected state.
func captureSnapshot(impl *project.Project, settings *project.ImplementationSettings) fieldSnapshot {
	snap := fieldSnapshot{
		isTemplate:  impl.IsTemplate(),
		disabled:    impl.Disabled,
		description: impl.Description,
	}

	if defs := impl.ParameterDefinitions(); len(defs) > 0 {
		snap.parameters = make([]*project.ParameterDefinition, len(defs))
		copy(snap.parameters, defs)
	}

	if impl.Triggers != nil {
		snap.triggers = impl.Triggers.Snapshot()
	}

	if impl.Kind == project.KindMatrix && !settings.SyncMatrixAxes {
		snap.axes = impl.Axes
	}

	return snap
}
