package sync

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmplsync/internal/events"
	"tmplsync/internal/project"
)

// mockHost implements Locator, Persistence, and DocumentStore for tests.
// Implementations are registered explicitly, so tests can model a stale
// enumeration (registered under one name while the stored reference already
// points elsewhere), which is exactly the rename double-delivery scenario.
type mockHost struct {
	projects    map[string]*project.Project
	impls       map[string][]*project.Project
	docs        map[string][]byte
	silentSaves []string
	saveErrFor  map[string]error
	openErrFor  map[string]error
}

func newMockHost() *mockHost {
	return &mockHost{
		projects:   make(map[string]*project.Project),
		impls:      make(map[string][]*project.Project),
		docs:       make(map[string][]byte),
		saveErrFor: make(map[string]error),
		openErrFor: make(map[string]error),
	}
}

func (h *mockHost) FindByName(name string) *project.Project {
	return h.projects[name]
}

func (h *mockHost) ImplementationsOf(templateName string) []*project.Project {
	return h.impls[templateName]
}

func (h *mockHost) SilentSave(p *project.Project) error {
	if err := h.saveErrFor[p.Name]; err != nil {
		return err
	}
	h.silentSaves = append(h.silentSaves, p.Name)
	return nil
}

func (h *mockHost) OpenDocument(name string) (io.ReadCloser, error) {
	if err := h.openErrFor[name]; err != nil {
		return nil, err
	}
	data, ok := h.docs[name]
	if !ok {
		return nil, fmt.Errorf("no document for %s", name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (h *mockHost) LoadFromDocument(p *project.Project, doc io.Reader) (*project.Project, error) {
	if err := project.LoadInto(p, doc); err != nil {
		return nil, err
	}
	return p, nil
}

// addProject registers a project and stores its current document.
func (h *mockHost) addProject(t *testing.T, p *project.Project) {
	t.Helper()
	h.projects[p.Name] = p
	data, err := project.MarshalDocument(p)
	require.NoError(t, err)
	h.docs[p.Name] = data
}

// registerImplementation records p in the enumeration for templateName.
func (h *mockHost) registerImplementation(templateName string, p *project.Project) {
	h.impls[templateName] = append(h.impls[templateName], p)
}

func testTemplate(t *testing.T, h *mockHost) *project.Project {
	t.Helper()
	tmpl := project.New("platform/base", project.KindFreestyle)
	tmpl.Template = &project.TemplateMarker{}
	tmpl.Description = "template description"
	tmpl.Disabled = false
	tmpl.Parameters = project.NewParameterBlock([]*project.ParameterDefinition{
		{Name: "A", Description: "desc1"},
		{Name: "B", Description: "desc2"},
	})
	tmpl.Steps = templateSteps()
	tmpl.Triggers.Replace([]project.Trigger{{Kind: "cron", Spec: "template-spec"}})
	h.addProject(t, tmpl)
	return tmpl
}

func templateSteps() []project.Step {
	return []project.Step{{Kind: "shell", Command: "make build"}}
}

func testImplementation(t *testing.T, h *mockHost, policy project.SyncPolicy) *project.Project {
	t.Helper()
	impl := project.New("teams/app", project.KindFreestyle)
	impl.Description = "local description"
	impl.Disabled = true
	impl.Implementation = &project.ImplementationSettings{
		TemplateName: "platform/base",
		SyncPolicy:   policy,
	}
	impl.Parameters = project.NewParameterBlock([]*project.ParameterDefinition{
		{Name: "B", Description: "old-desc2", Default: "local-default"},
		{Name: "C", Description: "desc3"},
	})
	impl.Triggers.Replace([]project.Trigger{{Kind: "cron", Spec: "local-spec"}})
	h.addProject(t, impl)
	h.registerImplementation("platform/base", impl)
	return impl
}

func allSynced() project.SyncPolicy {
	return project.SyncPolicy{
		SyncBuildTriggers: true,
		SyncDisabled:      true,
		SyncDescription:   true,
		SyncMatrixAxes:    true,
	}
}

func TestOnImplementationSaved_EverythingFollowsTemplate(t *testing.T) {
	h := newMockHost()
	testTemplate(t, h)
	impl := testImplementation(t, h, allSynced())
	settings := impl.Implementation

	o := NewOrchestrator(h, h, h)
	require.NoError(t, o.OnImplementationSaved(impl))

	assert.Equal(t, "teams/app", impl.Name, "identity survives the overwrite")
	assert.Equal(t, "template description", impl.Description)
	assert.False(t, impl.Disabled)
	assert.Equal(t, []project.Trigger{{Kind: "cron", Spec: "template-spec"}}, impl.Triggers.Snapshot())
	assert.Equal(t, templateSteps(), impl.Steps)

	assert.Same(t, settings, impl.Implementation, "sync settings are re-installed after the overwrite")
	assert.Nil(t, impl.Template, "template marker from the template's document is stripped")

	assert.Equal(t, []string{"teams/app"}, h.silentSaves, "persisted exactly once, silently")
}

func TestOnImplementationSaved_ProtectedFieldsRestored(t *testing.T) {
	h := newMockHost()
	testTemplate(t, h)
	impl := testImplementation(t, h, project.SyncPolicy{})
	liveSet := impl.Triggers

	o := NewOrchestrator(h, h, h)
	require.NoError(t, o.OnImplementationSaved(impl))

	assert.Equal(t, "local description", impl.Description)
	assert.True(t, impl.Disabled)
	assert.Same(t, liveSet, impl.Triggers, "live trigger collection object is never replaced")
	assert.Equal(t, []project.Trigger{{Kind: "cron", Spec: "local-spec"}}, impl.Triggers.Snapshot())
}

func TestOnImplementationSaved_ParametersAlwaysReconciled(t *testing.T) {
	// Even with every policy flag off, parameters are reconciled rather than
	// kept wholesale: new template parameters must still arrive.
	h := newMockHost()
	testTemplate(t, h)
	impl := testImplementation(t, h, project.SyncPolicy{})
	oldB := impl.Parameters.Get("B")

	o := NewOrchestrator(h, h, h)
	require.NoError(t, o.OnImplementationSaved(impl))

	require.NotNil(t, impl.Parameters)
	assert.Equal(t, []string{"A", "B"}, impl.Parameters.Names())
	assert.Same(t, oldB, impl.Parameters.Get("B"), "matched parameter keeps the local object")
	assert.Equal(t, "desc2", impl.Parameters.Get("B").Description, "template description wins")
	assert.Equal(t, "local-default", impl.Parameters.Get("B").Default)
	assert.Nil(t, impl.Parameters.Get("C"), "parameter the template dropped is gone")
}

func TestOnImplementationSaved_TemplateNotFound(t *testing.T) {
	h := newMockHost()
	impl := project.New("teams/app", project.KindFreestyle)
	impl.Description = "untouched"
	impl.Implementation = &project.ImplementationSettings{TemplateName: "ghost"}
	h.addProject(t, impl)

	o := NewOrchestrator(h, h, h)
	err := o.OnImplementationSaved(impl)

	require.Error(t, err)
	assert.True(t, IsTemplateNotFound(err))
	assert.Equal(t, "untouched", impl.Description, "no mutation before resolution")
	assert.Empty(t, h.silentSaves)
}

func TestOnImplementationSaved_ConfigReadErrorLeavesImplUntouched(t *testing.T) {
	h := newMockHost()
	testTemplate(t, h)
	impl := testImplementation(t, h, allSynced())
	h.openErrFor["platform/base"] = fmt.Errorf("disk gone")

	o := NewOrchestrator(h, h, h)
	err := o.OnImplementationSaved(impl)

	require.Error(t, err)
	assert.True(t, IsConfigRead(err))
	assert.Equal(t, "local description", impl.Description)
	assert.True(t, impl.Disabled)
	assert.Equal(t, []project.Trigger{{Kind: "cron", Spec: "local-spec"}}, impl.Triggers.Snapshot())
	assert.Empty(t, h.silentSaves)
}

func TestOnImplementationSaved_NotAnImplementation(t *testing.T) {
	h := newMockHost()
	p := project.New("plain", project.KindFreestyle)
	o := NewOrchestrator(h, h, h)
	assert.Error(t, o.OnImplementationSaved(p))
}

func TestOnImplementationSaved_KeepsOwnTemplateMarker(t *testing.T) {
	// A project can be both an implementation and a template in its own
	// right; its marker must survive the sync.
	h := newMockHost()
	testTemplate(t, h)
	impl := testImplementation(t, h, allSynced())
	impl.Template = &project.TemplateMarker{}

	o := NewOrchestrator(h, h, h)
	require.NoError(t, o.OnImplementationSaved(impl))

	assert.NotNil(t, impl.Template)
}

func TestOnImplementationSaved_PolicyGatedIdempotence(t *testing.T) {
	// Everything synced except the disabled flag: two syncs in a row with no
	// template change leave the flag untouched both times, even though the
	// document merge runs both times.
	h := newMockHost()
	testTemplate(t, h)
	policy := allSynced()
	policy.SyncDisabled = false
	impl := testImplementation(t, h, policy)
	require.True(t, impl.Disabled)

	o := NewOrchestrator(h, h, h)
	require.NoError(t, o.OnImplementationSaved(impl))
	assert.True(t, impl.Disabled)
	require.NoError(t, o.OnImplementationSaved(impl))
	assert.True(t, impl.Disabled)

	assert.Equal(t, []string{"teams/app", "teams/app"}, h.silentSaves)
}

func TestOnImplementationSaved_MatrixAxesRestoredAndRebuilt(t *testing.T) {
	h := newMockHost()
	tmpl := project.New("platform/matrix", project.KindMatrix)
	tmpl.Template = &project.TemplateMarker{}
	tmpl.Axes = project.AxisList{{Name: "os", Values: []string{"linux", "darwin"}}}
	h.addProject(t, tmpl)

	impl := project.New("teams/matrix-app", project.KindMatrix)
	impl.Implementation = &project.ImplementationSettings{
		TemplateName: "platform/matrix",
		SyncPolicy:   project.SyncPolicy{SyncBuildTriggers: true, SyncDisabled: true, SyncDescription: true},
	}
	impl.Axes = project.AxisList{{Name: "arch", Values: []string{"amd64"}}}
	h.addProject(t, impl)

	rebuilt := 0
	o := NewOrchestrator(h, h, h, WithRebuildHook(func(p *project.Project) {
		rebuilt++
		p.RebuildConfigurations()
	}))
	require.NoError(t, o.OnImplementationSaved(impl))

	assert.Equal(t, project.AxisList{{Name: "arch", Values: []string{"amd64"}}}, impl.Axes)
	assert.Equal(t, 1, rebuilt, "rebuild hook runs after direct axis restoration")
	assert.Equal(t, []string{"arch=amd64"}, impl.Configurations)
}

func TestOnImplementationSaved_MatrixAxesSynced(t *testing.T) {
	h := newMockHost()
	tmpl := project.New("platform/matrix", project.KindMatrix)
	tmpl.Template = &project.TemplateMarker{}
	tmpl.Axes = project.AxisList{{Name: "os", Values: []string{"linux"}}}
	h.addProject(t, tmpl)

	impl := project.New("teams/matrix-app", project.KindMatrix)
	impl.Implementation = &project.ImplementationSettings{
		TemplateName: "platform/matrix",
		SyncPolicy:   allSynced(),
	}
	impl.Axes = project.AxisList{{Name: "arch", Values: []string{"amd64"}}}
	h.addProject(t, impl)

	o := NewOrchestrator(h, h, h)
	require.NoError(t, o.OnImplementationSaved(impl))

	assert.Equal(t, project.AxisList{{Name: "os", Values: []string{"linux"}}}, impl.Axes)
}

func TestOnTemplateSaved_SiblingIsolation(t *testing.T) {
	h := newMockHost()
	tmpl := testTemplate(t, h)

	bad := project.New("teams/bad", project.KindFreestyle)
	bad.Implementation = &project.ImplementationSettings{TemplateName: "platform/base", SyncPolicy: allSynced()}
	h.addProject(t, bad)
	h.registerImplementation("platform/base", bad)
	h.saveErrFor["teams/bad"] = fmt.Errorf("disk full")

	good := project.New("teams/good", project.KindFreestyle)
	good.Implementation = &project.ImplementationSettings{TemplateName: "platform/base", SyncPolicy: allSynced()}
	h.addProject(t, good)
	h.registerImplementation("platform/base", good)

	o := NewOrchestrator(h, h, h)
	err := o.OnTemplateSaved(tmpl)

	require.Error(t, err, "the batch surfaces the failure")
	assert.Contains(t, err.Error(), "teams/bad")
	assert.Equal(t, []string{"teams/good"}, h.silentSaves, "the sibling is still processed")
	assert.Equal(t, "template description", good.Description)
}

func TestOnTemplateDeleted_DetachesImplementations(t *testing.T) {
	h := newMockHost()
	tmpl := testTemplate(t, h)
	// Trigger sync disabled: the delete path must not touch triggers anyway.
	policy := allSynced()
	policy.SyncBuildTriggers = false
	impl := testImplementation(t, h, policy)

	o := NewOrchestrator(h, h, h)
	require.NoError(t, o.OnTemplateDeleted(tmpl))

	assert.Nil(t, impl.Implementation, "implementation marker removed")
	assert.Equal(t, "local description", impl.Description, "template-governed fields untouched")
	assert.Equal(t, []project.Trigger{{Kind: "cron", Spec: "local-spec"}}, impl.Triggers.Snapshot())
	assert.Equal(t, []string{"teams/app"}, h.silentSaves)
}

func TestOnTemplateDeleted_Idempotent(t *testing.T) {
	h := newMockHost()
	tmpl := testTemplate(t, h)

	o := NewOrchestrator(h, h, h)
	require.NoError(t, o.OnTemplateDeleted(tmpl))
	require.NoError(t, o.OnTemplateDeleted(tmpl))
	assert.Empty(t, h.silentSaves)
}

func TestOnTemplateRenamed_UpdatesReference(t *testing.T) {
	h := newMockHost()
	tmpl := project.New("new/T", project.KindFreestyle)
	tmpl.Template = &project.TemplateMarker{}
	h.addProject(t, tmpl)

	impl := project.New("teams/app", project.KindFreestyle)
	impl.Implementation = &project.ImplementationSettings{TemplateName: "old/T"}
	h.addProject(t, impl)
	h.registerImplementation("old/T", impl)

	o := NewOrchestrator(h, h, h)
	require.NoError(t, o.OnTemplateRenamed(tmpl, "old/T", "new/T"))

	assert.Equal(t, "new/T", impl.Implementation.TemplateName)
	assert.Equal(t, []string{"teams/app"}, h.silentSaves)
}

func TestOnTemplateRenamed_DoubleDeliveryIsANoop(t *testing.T) {
	h := newMockHost()
	tmpl := project.New("new/T", project.KindFreestyle)
	h.addProject(t, tmpl)

	// Registered under the old name, but the stored reference was already
	// migrated by the first delivery.
	impl := project.New("teams/app", project.KindFreestyle)
	impl.Implementation = &project.ImplementationSettings{TemplateName: "new/T"}
	h.addProject(t, impl)
	h.registerImplementation("old/T", impl)

	o := NewOrchestrator(h, h, h)
	require.NoError(t, o.OnTemplateRenamed(tmpl, "old/T", "new/T"))

	assert.Equal(t, "new/T", impl.Implementation.TemplateName)
	assert.Empty(t, h.silentSaves, "second delivery must not save")
}

func TestOrchestrator_RecordsEvents(t *testing.T) {
	h := newMockHost()
	tmpl := testTemplate(t, h)
	testImplementation(t, h, allSynced())

	recorder := events.NewRecorder()
	o := NewOrchestrator(h, h, h, WithRecorder(recorder))
	require.NoError(t, o.OnTemplateSaved(tmpl))

	var reasons []events.EventReason
	for _, event := range recorder.History() {
		reasons = append(reasons, event.Reason)
	}
	assert.Contains(t, reasons, events.ReasonParameterAdded)
	assert.Contains(t, reasons, events.ReasonParameterRemoved)
	assert.Contains(t, reasons, events.ReasonImplementationSynced)
	assert.Contains(t, reasons, events.ReasonTemplateSynced)
}
