// Package fsys abstracts the file operations the replacer and archive depend
// on, enabling failure injection in tests via the Mock implementation.
package fsys

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// FS is the narrow file-store contract the replacer depends on.
type FS interface {
	// Exists reports whether path refers to an existing file or directory.
	Exists(path string) bool

	// Stat returns file info for path.
	Stat(path string) (os.FileInfo, error)

	// ReadFile reads the named file and returns the contents.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(path string, data []byte, perm os.FileMode) error

	// Copy copies the file at src to dst, preserving permissions.
	Copy(src, dst string) error

	// Remove removes the named file.
	Remove(path string) error

	// MkdirAll creates a directory along with any necessary parents.
	MkdirAll(path string, perm os.FileMode) error
}

// OS implements FS over the real filesystem.
type OS struct{}

// NewOS returns the production filesystem.
func NewOS() *OS {
	return &OS{}
}

// Exists reports whether path refers to an existing file or directory.
func (*OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Stat returns file info for path.
func (*OS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads the named file and returns the contents.
func (*OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to the named file, creating it if necessary.
func (*OS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// Copy copies the file at src to dst, preserving the source's permissions.
func (*OS) Copy(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return errors.Wrap(err, "stat source file")
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(err, "creating destination file")
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return errors.Wrap(err, "closing destination file")
	}

	if err := os.Chmod(dst, info.Mode()); err != nil {
		return errors.Wrap(err, "setting permissions")
	}

	return nil
}

// Remove removes the named file.
func (*OS) Remove(path string) error {
	return os.Remove(path)
}

// MkdirAll creates a directory along with any necessary parents.
func (*OS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}
