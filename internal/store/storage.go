package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"tmplsync/pkg/logging"
)

// Storage reads and writes project config documents as XML files in a single
// projects directory. One file per project; the file name encodes the
// project's full name with folder separators flattened.
type Storage struct {
	mu  sync.RWMutex
	dir string
}

// NewStorage creates a Storage rooted at the given projects directory.
func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

// Dir returns the projects directory this storage operates on.
func (s *Storage) Dir() string {
	return s.dir
}

// ValidateName checks that a project name can be stored. The flattened file
// name of a project containing a literal "__" would be indistinguishable from
// that of a project with a folder separator in the same position, so such
// names are rejected.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.Contains(name, "__") {
		return fmt.Errorf("name %q cannot contain %q", name, "__")
	}
	return nil
}

// Save writes the config document for the named project.
func (s *Storage) Save(name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.dir, err)
	}

	filePath := s.filePath(name)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	logging.Debug("Store", "Saved %s to %s", name, filePath)
	return nil
}

// Load reads the config document for the named project.
func (s *Storage) Load(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := s.filePath(name)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Name: name}
		}
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// Open returns the config document for the named project as a stream.
func (s *Storage) Open(name string) (io.ReadCloser, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.filePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Name: name}
		}
		return nil, fmt.Errorf("failed to open %s: %w", s.filePath(name), err)
	}
	return f, nil
}

// Delete removes the config document for the named project.
func (s *Storage) Delete(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.filePath(name)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return &NotFoundError{Name: name}
	}
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", filePath, err)
	}

	logging.Debug("Store", "Deleted %s from %s", name, filePath)
	return nil
}

// List returns the full names of all stored projects.
func (s *Storage) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return nil, nil
	}

	pattern := filepath.Join(s.dir, "*.xml")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob xml files: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, filePath := range files {
		names = append(names, NameFromFilename(filepath.Base(filePath)))
	}
	return names, nil
}

// filePath maps a project name to its file location.
func (s *Storage) filePath(name string) string {
	return filepath.Join(s.dir, FilenameForName(name))
}

// FilenameForName converts a project's full name into its document file name.
// Folder separators are flattened to "__"; NameFromFilename always decodes
// that sequence back to a slash, which is why ValidateName rejects names
// containing a literal "__".
func FilenameForName(name string) string {
	return strings.ReplaceAll(name, "/", "__") + ".xml"
}

// NameFromFilename reverses FilenameForName.
func NameFromFilename(filename string) string {
	base := strings.TrimSuffix(filename, ".xml")
	return strings.ReplaceAll(base, "__", "/")
}
