// Package store defines the hierarchical key/value collaborator that icon
// replacement mutates, along with file-backed and in-memory implementations.
//
// A value is identified by (root, path, name). The contract deliberately
// distinguishes "value absent" from "empty string value" so that rollback can
// choose between delete and set when restoring prior state. Every call is
// independently durable and immediately visible; there is no batching.
package store

import "github.com/cockroachdb/errors"

// Root names mirroring the registry hives that hold icon customization state.
const (
	RootCurrentUser  = "HKEY_CURRENT_USER"
	RootClassesRoot  = "HKEY_CLASSES_ROOT"
	RootLocalMachine = "HKEY_LOCAL_MACHINE"
)

// ErrUnknownRoot indicates an unrecognized root name.
var ErrUnknownRoot = errors.New("unknown store root")

// KV is the narrow contract the replacer depends on.
type KV interface {
	// Get returns the value at (root, path, name). present is false when no
	// value exists there, which is distinct from an empty string value.
	Get(root, path, name string) (value string, present bool, err error)

	// Set writes the value at (root, path, name), creating intermediate
	// paths as needed.
	Set(root, path, name, value string) error

	// Delete removes the value at (root, path, name). Deleting an absent
	// value is not an error.
	Delete(root, path, name string) error
}

// ValidRoot reports whether root is one of the known root names.
func ValidRoot(root string) bool {
	switch root {
	case RootCurrentUser, RootClassesRoot, RootLocalMachine:
		return true
	}
	return false
}
