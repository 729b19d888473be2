package replacer

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/iconvault/iconvault/internal/fsys"
	"github.com/iconvault/iconvault/internal/icon"
)

// stagingArea is the scratch directory holding pre-mutation file snapshots
// for pending operations. Each snapshot is owned by exactly one operation
// until rollback deletes it or commit relocates it into the archive.
type stagingArea struct {
	root string
	fs   fsys.FS
}

func newStagingArea(root string, fs fsys.FS) (*stagingArea, error) {
	if root == "" {
		return nil, errors.New("staging directory is required")
	}
	if err := fs.MkdirAll(root, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating staging directory")
	}
	return &stagingArea{root: root, fs: fs}, nil
}

// Stage copies src into the staging area under a collision-free name and
// returns the snapshot path. Names embed a random id so that two operations
// snapshotting the same file never collide.
func (a *stagingArea) Stage(src string) (string, error) {
	name := icon.SanitizeName(filepath.Base(src)) + "." + uuid.NewString()[:8] + ".bak"
	dst := filepath.Join(a.root, name)
	if err := a.fs.Copy(src, dst); err != nil {
		return "", errors.Wrapf(err, "staging snapshot of %s", src)
	}
	return dst, nil
}

// Remove deletes one snapshot. Missing snapshots are a no-op; a snapshot may
// already have been consumed by an earlier restore.
func (a *stagingArea) Remove(path string) error {
	if !a.fs.Exists(path) {
		return nil
	}
	return a.fs.Remove(path)
}

// Reset discards every snapshot and recreates the empty staging directory.
func (a *stagingArea) Reset() error {
	if err := os.RemoveAll(a.root); err != nil {
		return errors.Wrap(err, "clearing staging directory")
	}
	return a.fs.MkdirAll(a.root, 0o700)
}
