package store

import "sync"

// MemKV is an in-memory KV implementation for tests. Failures can be injected
// per fully-qualified key to exercise rollback error paths.
type MemKV struct {
	mu     sync.Mutex
	values map[string]string
	// FailSet and FailDelete map "root\path\name" to the error returned by
	// the corresponding call.
	FailSet    map[string]error
	FailDelete map[string]error
}

// NewMemKV creates an empty in-memory store.
func NewMemKV() *MemKV {
	return &MemKV{
		values:     make(map[string]string),
		FailSet:    make(map[string]error),
		FailDelete: make(map[string]error),
	}
}

func key(root, path, name string) string {
	return root + `\` + path + `\` + name
}

// Get returns the value at (root, path, name).
func (s *MemKV) Get(root, path, name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key(root, path, name)]
	return v, ok, nil
}

// Set writes the value at (root, path, name).
func (s *MemKV) Set(root, path, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(root, path, name)
	if err, ok := s.FailSet[k]; ok {
		return err
	}
	s.values[k] = value
	return nil
}

// Delete removes the value at (root, path, name).
func (s *MemKV) Delete(root, path, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(root, path, name)
	if err, ok := s.FailDelete[k]; ok {
		return err
	}
	delete(s.values, k)
	return nil
}

// Len returns the number of stored values.
func (s *MemKV) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}
