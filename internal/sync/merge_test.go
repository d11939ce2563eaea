package sync

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmplsync/internal/project"
)

type stubDocs struct {
	doc     string
	openErr error
}

func (s *stubDocs) OpenDocument(name string) (io.ReadCloser, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return io.NopCloser(strings.NewReader(s.doc)), nil
}

func (s *stubDocs) LoadFromDocument(p *project.Project, doc io.Reader) (*project.Project, error) {
	if err := project.LoadInto(p, doc); err != nil {
		return nil, err
	}
	return p, nil
}

func TestMergeDocument_OverwritesFromTemplateDocument(t *testing.T) {
	tmpl := project.New("tmpl", project.KindFreestyle)
	tmpl.Description = "from template"
	data, err := project.MarshalDocument(tmpl)
	require.NoError(t, err)

	impl := project.New("impl", project.KindFreestyle)
	impl.Description = "local"

	merged, err := MergeDocument(&stubDocs{doc: string(data)}, impl, tmpl)
	require.NoError(t, err)
	assert.Same(t, impl, merged)
	assert.Equal(t, "impl", merged.Name, "identity survives")
	assert.Equal(t, "from template", merged.Description)
}

func TestMergeDocument_OpenFailure(t *testing.T) {
	tmpl := project.New("tmpl", project.KindFreestyle)
	impl := project.New("impl", project.KindFreestyle)
	impl.Description = "local"

	_, err := MergeDocument(&stubDocs{openErr: fmt.Errorf("gone")}, impl, tmpl)
	require.Error(t, err)
	assert.True(t, IsConfigRead(err))
	assert.Equal(t, "local", impl.Description)
}

func TestMergeDocument_MalformedDocument(t *testing.T) {
	tmpl := project.New("tmpl", project.KindFreestyle)
	impl := project.New("impl", project.KindFreestyle)
	impl.Description = "local"

	_, err := MergeDocument(&stubDocs{doc: "<project><unclosed>"}, impl, tmpl)
	require.Error(t, err)
	assert.True(t, IsConfigRead(err))
	assert.Equal(t, "local", impl.Description, "failed merge leaves the record untouched")
}
