package project

// Kind identifies the structural shape of a project.
type Kind string

const (
	// KindFreestyle is a plain project with a linear list of build steps.
	KindFreestyle Kind = "freestyle"

	// KindMatrix is a project whose builds fan out over an axis list.
	// Matrix projects carry derived per-combination configurations that must
	// be rebuilt whenever the axis list changes.
	KindMatrix Kind = "matrix"
)

// Project is an in-memory job configuration record.
//
// A project's identity is its full name (which may contain folder segments,
// e.g. "platform/base-build"). The name is never part of the serialized
// document: it is assigned by the registry and survives document merges.
//
// Template and implementation markers live in the document itself, so an
// incoming document overwrite genuinely wipes them. The sync orchestrator is
// responsible for re-installing the implementation settings afterwards.
type Project struct {
	// Name is the project's full name and identity. Never serialized.
	Name string

	// Kind selects freestyle or matrix structure.
	Kind Kind

	Description string
	Disabled    bool

	// Template marks this project as a template other projects mirror.
	// Nil when the project is not a template.
	Template *TemplateMarker

	// Implementation holds the template reference and sync policy.
	// Nil when the project does not mirror a template.
	Implementation *ImplementationSettings

	// Parameters is the project's parameter block. A nil block and an empty
	// block are observably different states: nil means the document carries
	// no parameter block at all.
	Parameters *ParameterBlock

	// Steps are the build steps, in execution order.
	Steps []Step

	// Triggers is the live trigger collection. The pointer is stable for the
	// lifetime of the project record: document merges replace its contents,
	// never the collection object, because scheduling machinery may hold a
	// reference to it.
	Triggers *TriggerSet

	// Axes is the axis list. Only meaningful on matrix projects.
	Axes AxisList

	// Configurations are the derived per-combination runtime units of a
	// matrix project. Runtime-only state: not serialized, rebuilt from Axes.
	Configurations []string
}

// New creates an empty project record with the given name and kind.
func New(name string, kind Kind) *Project {
	return &Project{
		Name:     name,
		Kind:     kind,
		Triggers: NewTriggerSet(),
	}
}

// IsTemplate reports whether the project carries the template marker.
func (p *Project) IsTemplate() bool {
	return p.Template != nil
}

// IsImplementation reports whether the project mirrors a template.
func (p *Project) IsImplementation() bool {
	return p.Implementation != nil
}

// TemplateMarker marks a project as a template. It carries no data: presence
// in the property list is the whole statement.
type TemplateMarker struct{}

// ImplementationSettings ties a project to its template and records which
// field categories stay local. The settings live on the implementation; the
// template has no knowledge of who overrides what.
type ImplementationSettings struct {
	// TemplateName is the full name of the template this project mirrors.
	// A weak reference: re-resolved by name at sync time.
	TemplateName string

	SyncPolicy
}

// SyncPolicy selects, per field category, whether the field follows the
// template or keeps its local value. Everything not covered by a flag always
// follows the template.
type SyncPolicy struct {
	SyncBuildTriggers bool
	SyncDisabled      bool
	SyncDescription   bool
	SyncMatrixAxes    bool
}

// ParameterDefinition is a named build parameter. Identity is the name,
// unique within a project's parameter list; list order defines display and
// execution order.
type ParameterDefinition struct {
	Name        string
	Description string
	Default     string
}

// ParameterBlock wraps an ordered list of parameter definitions.
type ParameterBlock struct {
	Definitions []*ParameterDefinition
}

// NewParameterBlock creates a parameter block over the given definitions.
func NewParameterBlock(definitions []*ParameterDefinition) *ParameterBlock {
	return &ParameterBlock{Definitions: definitions}
}

// Names returns the parameter names in list order.
func (b *ParameterBlock) Names() []string {
	names := make([]string, 0, len(b.Definitions))
	for _, def := range b.Definitions {
		names = append(names, def.Name)
	}
	return names
}

// Get returns the definition with the given name, or nil. Comparison is
// exact-string and case-sensitive.
func (b *ParameterBlock) Get(name string) *ParameterDefinition {
	for _, def := range b.Definitions {
		if def.Name == name {
			return def
		}
	}
	return nil
}

// Definitions returns the parameter definitions of a possibly-nil block.
func (p *Project) ParameterDefinitions() []*ParameterDefinition {
	if p.Parameters == nil {
		return nil
	}
	return p.Parameters.Definitions
}

// Step is a single build step.
type Step struct {
	// Kind names the step type, e.g. "shell".
	Kind string

	// Command is the step payload.
	Command string
}
