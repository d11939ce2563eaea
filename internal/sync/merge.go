package sync

import (
	"io"

	"tmplsync/internal/project"
)

// DocumentStore is the slice of the persistence layer the document merger
// consumes: streaming a project's stored config document, and applying a
// document onto an existing record.
type DocumentStore interface {
	// OpenDocument streams the stored config document of the named project.
	OpenDocument(name string) (io.ReadCloser, error)

	// LoadFromDocument applies a serialized document onto an existing
	// project record, preserving its identity, and returns the updated
	// record. The record must not be partially updated on failure.
	LoadFromDocument(p *project.Project, doc io.Reader) (*project.Project, error)
}

// MergeDocument overwrites the implementation's entire configuration with the
// template's stored document. The implementation's identity (its name) is
// preserved; everything the document declares now matches the template
// verbatim.
//
// The returned record is what all subsequent fix-up steps must operate on.
// When the template's document cannot be read, a ConfigReadError is returned
// and the implementation is left untouched.
func MergeDocument(docs DocumentStore, impl, tmpl *project.Project) (*project.Project, error) {
	doc, err := docs.OpenDocument(tmpl.Name)
	if err != nil {
		return nil, &ConfigReadError{Template: tmpl.Name, Err: err}
	}
	defer doc.Close()

	updated, err := docs.LoadFromDocument(impl, doc)
	if err != nil {
		return nil, &ConfigReadError{Template: tmpl.Name, Err: err}
	}
	return updated, nil
}
