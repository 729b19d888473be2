// Package replacer applies icon customizations to externally-owned state with
// transactional safety: every successful apply is recorded in a pending
// ledger with the reversal data needed to restore prior state exactly, and
// the pending set can be rolled back LIFO or committed into the backup
// archive.
package replacer

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	iverrors "github.com/iconvault/iconvault/internal/errors"
	"github.com/iconvault/iconvault/internal/fsys"
	"github.com/iconvault/iconvault/internal/icon"
	"github.com/iconvault/iconvault/internal/shortcut"
	"github.com/iconvault/iconvault/internal/store"
)

// archiveName is the audit name given to commit backups.
const archiveName = "Icon Changes Backup"

// associationPath returns the store path holding the icon association for an
// extension.
func associationPath(ext string) string {
	return `Software\Classes\` + ext + `\DefaultIcon`
}

// Archiver is the slice of the backup archive the replacer needs for commit.
type Archiver interface {
	Create(files []string, name, description string) (string, error)
}

// Replacer owns one mutation ledger and its staging area. It is not safe for
// concurrent use; the design assumes at most one Replacer actively mutates a
// given target universe at a time.
type Replacer struct {
	kv      store.KV
	fs      fsys.FS
	arch    Archiver
	editor  shortcut.Editor
	staging *stagingArea
	pending ledger
	logger  *slog.Logger
}

// Option configures a Replacer.
type Option func(*Replacer)

// WithFS overrides the filesystem implementation.
func WithFS(fs fsys.FS) Option {
	return func(r *Replacer) { r.fs = fs }
}

// WithEditor injects a shell-link editor. Without one, shortcut replacement
// runs in basic mode.
func WithEditor(e shortcut.Editor) Option {
	return func(r *Replacer) { r.editor = e }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Replacer) { r.logger = l }
}

// New creates a Replacer writing snapshots under stagingDir and committing
// into arch. The staging directory is created if needed.
func New(kv store.KV, arch Archiver, stagingDir string, opts ...Option) (*Replacer, error) {
	r := &Replacer{
		kv:     kv,
		fs:     fsys.NewOS(),
		arch:   arch,
		logger: slog.Default(),
	}
	if e, ok := shortcut.Lookup(); ok {
		r.editor = e
	}
	for _, opt := range opts {
		opt(r)
	}

	staging, err := newStagingArea(stagingDir, r.fs)
	if err != nil {
		return nil, err
	}
	r.staging = staging

	return r, nil
}

// ReplaceFolderIcon points folder at iconPath via the folder's customization
// file. The existing customization file, if any, is snapshotted for rollback;
// the icon itself is always snapshotted for the audit trail.
func (r *Replacer) ReplaceFolderIcon(folder, iconPath string) (*Operation, error) {
	if !r.fs.Exists(folder) {
		return nil, errors.Wrapf(iverrors.ErrNotFound, "folder not found: %s", folder)
	}
	if err := icon.ValidateResource(iconPath); err != nil {
		return nil, err
	}

	op := newOperation(folder, KindFolder)

	// An empty snapshot records that the customization file was absent, so
	// rollback deletes it rather than restoring contents.
	iniPath := icon.CustomizationPath(folder)
	op.FileChanges[iniPath] = ""
	if r.fs.Exists(iniPath) {
		snap, err := r.staging.Stage(iniPath)
		if err != nil {
			return nil, errors.Mark(err, iverrors.ErrFileWriteFailed)
		}
		op.FileChanges[iniPath] = snap
	}

	iconSnap, err := r.staging.Stage(iconPath)
	if err != nil {
		r.discardSnapshots(op)
		return nil, errors.Mark(err, iverrors.ErrFileWriteFailed)
	}
	op.FileChanges[iconPath] = iconSnap
	op.IconRef = iconSnap

	data, err := icon.RenderCustomization(iconPath)
	if err != nil {
		r.discardSnapshots(op)
		return nil, err
	}
	if err := r.fs.WriteFile(iniPath, data, 0o644); err != nil {
		// No half-recorded operation: drop the snapshots, append nothing.
		r.discardSnapshots(op)
		return nil, errors.Wrapf(iverrors.ErrFileWriteFailed,
			"writing customization file: %v", err)
	}

	// Attribute marking follows platform convention; failures here do not
	// undo the apply.
	if err := icon.MarkCustomizationHidden(iniPath); err != nil {
		r.logger.Debug("marking customization file hidden", "path", iniPath, "error", err)
	}
	if err := icon.MarkFolderSystem(folder); err != nil {
		r.logger.Debug("marking folder system", "path", folder, "error", err)
	}

	r.pending.Append(op)
	r.logger.Info("folder icon replaced", "folder", folder, "icon", iconPath)
	return op, nil
}

// ReplaceExtensionIcon associates the file extension ext with iconPath in the
// key/value store, recording the prior association (or its absence) for
// rollback. A missing leading dot on ext is tolerated.
func (r *Replacer) ReplaceExtensionIcon(ext, iconPath string) (*Operation, error) {
	if err := icon.ValidateResource(iconPath); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	op := newOperation(ext, KindAssociation)

	path := associationPath(ext)
	prior, present, err := r.kv.Get(store.RootCurrentUser, path, "")
	if err != nil {
		return nil, errors.Mark(err, iverrors.ErrStoreWriteFailed)
	}
	op.StoreChanges[StoreKey{Root: store.RootCurrentUser, Path: path}] = PriorValue{
		Value:   prior,
		Present: present,
	}

	if err := r.kv.Set(store.RootCurrentUser, path, "", iconPath); err != nil {
		return nil, errors.Wrapf(iverrors.ErrStoreWriteFailed,
			"setting association for %s: %v", ext, err)
	}

	r.pending.Append(op)
	r.logger.Info("extension icon replaced", "extension", ext, "icon", iconPath)
	return op, nil
}

// ReplaceShortcutIcon points the shortcut at iconPath via the shell-link
// editor. The shortcut is snapshotted in full before editing. When no editor
// capability is available the apply degrades to a no-op success ("basic
// mode"); the operation is still recorded so the snapshot participates in
// audit and rollback bookkeeping.
func (r *Replacer) ReplaceShortcutIcon(shortcutPath, iconPath string) (*Operation, error) {
	if !r.fs.Exists(shortcutPath) {
		return nil, errors.Wrapf(iverrors.ErrNotFound, "shortcut not found: %s", shortcutPath)
	}
	if err := icon.ValidateResource(iconPath); err != nil {
		return nil, err
	}
	if !shortcut.IsShortcut(shortcutPath) {
		return nil, errors.Wrapf(iverrors.ErrInvalidResource,
			"%s is not a shortcut (%s)", shortcutPath, shortcut.Suffix)
	}

	op := newOperation(shortcutPath, KindShortcut)

	snap, err := r.staging.Stage(shortcutPath)
	if err != nil {
		return nil, errors.Mark(err, iverrors.ErrFileWriteFailed)
	}
	op.FileChanges[shortcutPath] = snap
	op.IconRef = snap

	if r.editor != nil {
		if err := r.editor.SetIconLocation(shortcutPath, iconPath); err != nil {
			r.discardSnapshots(op)
			return nil, errors.Wrapf(iverrors.ErrFileWriteFailed,
				"editing shortcut: %v", err)
		}
		r.logger.Info("shortcut icon replaced", "shortcut", shortcutPath, "icon", iconPath)
	} else {
		r.logger.Warn("shortcut editor unavailable, basic mode", "shortcut", shortcutPath)
	}

	r.pending.Append(op)
	return op, nil
}

// RollbackLast reverses the most recent pending operation. It returns
// (false, nil) when nothing is pending; this is a no-op signal, not an error.
//
// On a partial failure the operation is consumed, not re-pushed: the steps
// already restored are left restored, the error reports how many completed,
// and the ledger remains in a defined, still-poppable state. Automatic retry
// of a partially-restored operation risks compounding corruption.
func (r *Replacer) RollbackLast() (bool, error) {
	op, ok := r.pending.PopLast()
	if !ok {
		return false, nil
	}

	total := op.steps()
	done := 0

	for key, prior := range op.StoreChanges {
		var err error
		if prior.Present {
			err = r.kv.Set(key.Root, key.Path, key.Name, prior.Value)
		} else {
			err = r.kv.Delete(key.Root, key.Path, key.Name)
		}
		if err != nil {
			return false, errors.Wrapf(iverrors.ErrRollbackPartial,
				"restored %d of %d steps for %s: %v", done, total, op.TargetPath, err)
		}
		done++
	}

	for original, snap := range op.FileChanges {
		if snap == "" {
			// The target did not exist before the apply; restore its absence.
			if err := r.fs.Remove(original); err != nil {
				return false, errors.Wrapf(iverrors.ErrRollbackPartial,
					"restored %d of %d steps for %s: %v", done, total, op.TargetPath, err)
			}
			done++
			continue
		}
		if !r.fs.Exists(snap) {
			// Snapshot already consumed; nothing to restore.
			done++
			continue
		}
		if err := r.fs.Copy(snap, original); err != nil {
			return false, errors.Wrapf(iverrors.ErrRollbackPartial,
				"restored %d of %d steps for %s: %v", done, total, op.TargetPath, err)
		}
		if err := r.staging.Remove(snap); err != nil {
			r.logger.Debug("removing consumed snapshot", "snapshot", snap, "error", err)
		}
		done++
	}

	r.logger.Info("operation rolled back", "target", op.TargetPath, "kind", op.Kind)
	return true, nil
}

// RollbackAll reverses every pending operation, newest first, stopping at the
// first failure. It returns the number of operations fully rolled back; a
// non-nil error distinguishes a partial rollback from a complete one.
func (r *Replacer) RollbackAll() (int, error) {
	count := 0
	for {
		ok, err := r.RollbackLast()
		if err != nil {
			return count, err
		}
		if !ok {
			break
		}
		count++
	}
	r.logger.Info("all operations rolled back", "count", count)
	return count, nil
}

// Commit converts the pending set into a durable archive entry and clears the
// ledger and staging area. Nothing is reversed: commit accepts current state
// and discards the undo history.
//
// One archive entry is created per commit whenever operations are pending.
// Every staged snapshot that still exists across all pending operations is
// included; when none exist (a store-only batch) a metadata-only entry is
// created so the change remains auditable. An empty ledger commits trivially
// with no archive side effect.
func (r *Replacer) Commit() (string, error) {
	if r.pending.Len() == 0 {
		return "", nil
	}

	var files []string
	for _, op := range r.pending.All() {
		for _, snap := range op.FileChanges {
			if snap != "" && r.fs.Exists(snap) {
				files = append(files, snap)
			}
		}
	}
	sort.Strings(files)

	name := archiveName
	desc := fmt.Sprintf("Committed %d operation(s)", r.pending.Len())
	if len(files) == 0 {
		name = archiveName + " (Store Only)"
	}

	id, err := r.arch.Create(files, name, desc)
	if err != nil {
		return "", errors.Wrapf(iverrors.ErrArchiveFailed, "committing %d operation(s): %v",
			r.pending.Len(), err)
	}

	if err := r.staging.Reset(); err != nil {
		r.logger.Warn("clearing staging area", "error", err)
	}
	committed := len(r.pending.Drain())

	r.logger.Info("changes committed", "backup_id", id, "operations", committed)
	return id, nil
}

// Pending returns the number of pending operations.
func (r *Replacer) Pending() int {
	return r.pending.Len()
}

// Discard clears the ledger and staging area without archiving and without
// reverting anything: applied state is kept as-is and the undo history is
// dropped with no audit record.
func (r *Replacer) Discard() error {
	r.pending.Drain()
	return r.staging.Reset()
}

// discardSnapshots removes any snapshots staged for an operation that will
// not be appended.
func (r *Replacer) discardSnapshots(op *Operation) {
	for _, snap := range op.FileChanges {
		if snap == "" {
			continue
		}
		if err := r.staging.Remove(snap); err != nil {
			r.logger.Debug("discarding snapshot", "snapshot", snap, "error", err)
		}
	}
}
