package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/iconvault/iconvault/pkg/fileutil"
)

// FileKV is a key/value store persisted as a single JSON document. Each Set
// and Delete is a read-modify-write of the whole document, written atomically,
// so every mutation is independently durable.
//
// The document maps "root" -> "path" -> "name" -> value. Path separators are
// kept verbatim; callers use the backslash-separated registry path
// convention.
type FileKV struct {
	path string
	mu   sync.Mutex
}

// NewFileKV creates a FileKV backed by the JSON document at path. The file is
// created lazily on first write; a missing file reads as an empty store.
func NewFileKV(path string) (*FileKV, error) {
	if path == "" {
		return nil, errors.New("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating store directory")
	}
	return &FileKV{path: path}, nil
}

type document map[string]map[string]map[string]string

func (s *FileKV) load() (document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return document{}, nil
		}
		return nil, errors.Wrap(err, "reading store")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing store")
	}
	if doc == nil {
		doc = document{}
	}
	return doc, nil
}

func (s *FileKV) save(doc document) error {
	return fileutil.AtomicWriteJSON(s.path, doc)
}

// Get returns the value at (root, path, name).
func (s *FileKV) Get(root, path, name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", false, err
	}

	value, ok := doc[root][path][name]
	return value, ok, nil
}

// Set writes the value at (root, path, name).
func (s *FileKV) Set(root, path, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	if doc[root] == nil {
		doc[root] = map[string]map[string]string{}
	}
	if doc[root][path] == nil {
		doc[root][path] = map[string]string{}
	}
	doc[root][path][name] = value

	return s.save(doc)
}

// Delete removes the value at (root, path, name). Absent values are a no-op.
func (s *FileKV) Delete(root, path, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	values, ok := doc[root][path]
	if !ok {
		return nil
	}
	delete(values, name)
	if len(values) == 0 {
		delete(doc[root], path)
		if len(doc[root]) == 0 {
			delete(doc, root)
		}
	}

	return s.save(doc)
}
