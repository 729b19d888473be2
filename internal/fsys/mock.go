package fsys

import (
	"io/fs"
	"os"
	"time"
)

// Mock implements FS for testing. Files live in a map; errors can be injected
// per path to simulate failures.
type Mock struct {
	// Files maps paths to file contents.
	Files map[string][]byte
	// Errors maps paths to errors returned by any operation touching them.
	Errors map[string]error
}

// NewMock creates an empty mock filesystem.
func NewMock() *Mock {
	return &Mock{
		Files:  make(map[string][]byte),
		Errors: make(map[string]error),
	}
}

// Exists reports whether path is present in the mock.
func (m *Mock) Exists(path string) bool {
	_, ok := m.Files[path]
	return ok
}

// Stat returns synthetic file info for path.
func (m *Mock) Stat(path string) (os.FileInfo, error) {
	if err, ok := m.Errors[path]; ok {
		return nil, err
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return mockInfo{name: path, size: int64(len(data))}, nil
}

// ReadFile returns the contents stored at path.
func (m *Mock) ReadFile(path string) ([]byte, error) {
	if err, ok := m.Errors[path]; ok {
		return nil, err
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

// WriteFile stores data at path.
func (m *Mock) WriteFile(path string, data []byte, _ os.FileMode) error {
	if err, ok := m.Errors[path]; ok {
		return err
	}
	m.Files[path] = data
	return nil
}

// Copy duplicates src's contents to dst.
func (m *Mock) Copy(src, dst string) error {
	if err, ok := m.Errors[src]; ok {
		return err
	}
	if err, ok := m.Errors[dst]; ok {
		return err
	}
	data, ok := m.Files[src]
	if !ok {
		return os.ErrNotExist
	}
	m.Files[dst] = append([]byte(nil), data...)
	return nil
}

// Remove deletes path from the mock.
func (m *Mock) Remove(path string) error {
	if err, ok := m.Errors[path]; ok {
		return err
	}
	if _, ok := m.Files[path]; !ok {
		return os.ErrNotExist
	}
	delete(m.Files, path)
	return nil
}

// MkdirAll is a no-op; the mock has no directory hierarchy.
func (m *Mock) MkdirAll(path string, _ os.FileMode) error {
	if err, ok := m.Errors[path]; ok {
		return err
	}
	return nil
}

// mockInfo is a minimal fs.FileInfo for Stat.
type mockInfo struct {
	name string
	size int64
}

func (i mockInfo) Name() string       { return i.name }
func (i mockInfo) Size() int64        { return i.size }
func (i mockInfo) Mode() fs.FileMode  { return 0o644 }
func (i mockInfo) ModTime() time.Time { return time.Time{} }
func (i mockInfo) IsDir() bool        { return false }
func (i mockInfo) Sys() any           { return nil }
