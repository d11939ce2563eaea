package store

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"tmplsync/internal/project"
	"tmplsync/pkg/logging"
)

// SaveListener is notified after a project has been visibly saved through
// Registry.Save. Silent saves do not reach listeners: that is the whole point
// of a silent save.
type SaveListener interface {
	OnProjectSaved(p *project.Project)
}

// Registry is the in-memory index of all known projects, backed by a Storage.
//
// It is the project locator (FindByName), the persistence collaborator
// (Save/SilentSave), and the document source (OpenDocument/LoadFromDocument)
// consumed by the sync core.
//
// The registry also tracks which file writes originated from this process, so
// that a filesystem watcher can tell an external edit from the echo of our
// own save (ConsumeSuppressed).
type Registry struct {
	mu         sync.RWMutex
	storage    *Storage
	projects   map[string]*project.Project
	listeners  []SaveListener
	suppressed map[string]int
}

// NewRegistry creates an empty registry over the given storage.
func NewRegistry(storage *Storage) *Registry {
	return &Registry{
		storage:    storage,
		projects:   make(map[string]*project.Project),
		suppressed: make(map[string]int),
	}
}

// AddListener registers a listener for visible saves.
func (r *Registry) AddListener(l SaveListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// LoadAll populates the registry from storage. Records that fail to decode
// are skipped with a log entry; one broken file does not hide the rest.
func (r *Registry) LoadAll() error {
	names, err := r.storage.List()
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	loaded := 0
	for _, name := range names {
		if _, err := r.Reload(name); err != nil {
			logging.Warn("Registry", "Skipping %s: %v", name, err)
			continue
		}
		loaded++
	}

	logging.Info("Registry", "Loaded %d of %d projects", loaded, len(names))
	return nil
}

// Reload reads the named project's document from storage into the registry.
// An existing record is updated in place, preserving its identity and live
// trigger collection; otherwise a new record is created.
func (r *Registry) Reload(name string) (*project.Project, error) {
	doc, err := r.storage.Open(name)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	r.mu.Lock()
	p, ok := r.projects[name]
	if !ok {
		p = project.New(name, project.KindFreestyle)
		r.projects[name] = p
	}
	r.mu.Unlock()

	if err := project.LoadInto(p, doc); err != nil {
		return nil, err
	}
	p.RebuildConfigurations()
	return p, nil
}

// FindByName returns the named project, or nil if it is not registered.
func (r *Registry) FindByName(name string) *project.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.projects[name]
}

// All returns every registered project, sorted by name.
func (r *Registry) All() []*project.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*project.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ImplementationsOf returns every project whose implementation settings
// reference the given template name, sorted by name. Implementations hold
// the reference, so enumeration is a scan, not a template-side list.
func (r *Registry) ImplementationsOf(templateName string) []*project.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*project.Project
	for _, p := range r.projects {
		if p.Implementation != nil && p.Implementation.TemplateName == templateName {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Save persists the project and notifies registered listeners. This is the
// visible save: the host-level entry point that triggers synchronization.
func (r *Registry) Save(p *project.Project) error {
	if err := r.persist(p); err != nil {
		return err
	}

	r.mu.RLock()
	listeners := make([]SaveListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.RUnlock()

	for _, l := range listeners {
		l.OnProjectSaved(p)
	}
	return nil
}

// SilentSave persists the project without notifying listeners. Used by the
// sync orchestrator for its final persist: the corrected implementation must
// not re-enter the synchronization pipeline it is being fixed up by.
func (r *Registry) SilentSave(p *project.Project) error {
	return r.persist(p)
}

// persist writes the project's document and registers the write as our own,
// so the filesystem watcher can ignore the resulting event.
func (r *Registry) persist(p *project.Project) error {
	data, err := project.MarshalDocument(p)
	if err != nil {
		return &PersistenceError{Name: p.Name, Err: err}
	}

	r.mu.Lock()
	r.projects[p.Name] = p
	r.suppressed[p.Name]++
	r.mu.Unlock()

	if err := r.storage.Save(p.Name, data); err != nil {
		r.mu.Lock()
		if r.suppressed[p.Name] > 0 {
			r.suppressed[p.Name]--
		}
		r.mu.Unlock()
		return &PersistenceError{Name: p.Name, Err: err}
	}
	return nil
}

// Rename moves a project to a new full name, on disk and in the registry.
// Returns the renamed project.
func (r *Registry) Rename(oldName, newName string) (*project.Project, error) {
	if err := ValidateName(newName); err != nil {
		return nil, err
	}

	r.mu.Lock()
	p, ok := r.projects[oldName]
	if !ok {
		r.mu.Unlock()
		return nil, &NotFoundError{Name: oldName}
	}
	if _, exists := r.projects[newName]; exists {
		r.mu.Unlock()
		return nil, fmt.Errorf("project %q already exists", newName)
	}
	delete(r.projects, oldName)
	p.Name = newName
	r.projects[newName] = p
	r.suppressed[newName]++
	r.suppressed[oldName]++
	r.mu.Unlock()

	data, err := project.MarshalDocument(p)
	if err != nil {
		return nil, &PersistenceError{Name: newName, Err: err}
	}
	if err := r.storage.Save(newName, data); err != nil {
		return nil, &PersistenceError{Name: newName, Err: err}
	}
	if err := r.storage.Delete(oldName); err != nil && !IsNotFound(err) {
		return nil, &PersistenceError{Name: oldName, Err: err}
	}

	logging.Info("Registry", "Renamed project [%s] to [%s]", oldName, newName)
	return p, nil
}

// Remove drops the named project from the in-memory index only, returning
// the removed record. Used when the backing file has already disappeared.
func (r *Registry) Remove(name string) (*project.Project, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[name]
	if ok {
		delete(r.projects, name)
	}
	return p, ok
}

// Delete removes the named project from disk and from the registry.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	delete(r.projects, name)
	r.suppressed[name]++
	r.mu.Unlock()
	return r.storage.Delete(name)
}

// OpenDocument streams the stored config document of the named project.
func (r *Registry) OpenDocument(name string) (io.ReadCloser, error) {
	return r.storage.Open(name)
}

// LoadFromDocument applies a serialized document onto an existing project
// record, preserving its identity, and returns the updated record. This is
// the "load from document" entry point the config document merger feeds a
// template's document into.
func (r *Registry) LoadFromDocument(p *project.Project, doc io.Reader) (*project.Project, error) {
	if err := project.LoadInto(p, doc); err != nil {
		return nil, err
	}
	return p, nil
}

// ConsumeSuppressed reports whether the next filesystem notification for the
// named project is the echo of a write made by this process, and consumes
// one suppression token if so.
func (r *Registry) ConsumeSuppressed(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.suppressed[name] > 0 {
		r.suppressed[name]--
		if r.suppressed[name] == 0 {
			delete(r.suppressed, name)
		}
		return true
	}
	return false
}
