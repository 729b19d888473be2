package replacer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iverrors "github.com/iconvault/iconvault/internal/errors"
	"github.com/iconvault/iconvault/internal/icon"
	"github.com/iconvault/iconvault/internal/logging"
	"github.com/iconvault/iconvault/internal/store"
)

// fakeArchiver records Create calls without touching disk.
type fakeArchiver struct {
	calls []archiveCall
	err   error
}

type archiveCall struct {
	files []string
	name  string
	desc  string
}

func (f *fakeArchiver) Create(files []string, name, desc string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls = append(f.calls, archiveCall{files: files, name: name, desc: desc})
	return "backup-1", nil
}

// fakeEditor records shell-link edits.
type fakeEditor struct {
	edits map[string]string
	err   error
}

func (f *fakeEditor) SetIconLocation(shortcutPath, resourcePath string) error {
	if f.err != nil {
		return f.err
	}
	if f.edits == nil {
		f.edits = map[string]string{}
	}
	f.edits[shortcutPath] = resourcePath
	return nil
}

type fixture struct {
	r    *Replacer
	kv   *store.MemKV
	arch *fakeArchiver
	dir  string
	icon string
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	dir := t.TempDir()

	iconPath := filepath.Join(dir, "new.ico")
	require.NoError(t, os.WriteFile(iconPath, []byte("new icon bytes"), 0644))

	kv := store.NewMemKV()
	arch := &fakeArchiver{}

	opts = append([]Option{WithLogger(logging.ForTest(t))}, opts...)
	r, err := New(kv, arch, filepath.Join(dir, "staging"), opts...)
	require.NoError(t, err)

	return &fixture{r: r, kv: kv, arch: arch, dir: dir, icon: iconPath}
}

func (f *fixture) newFolder(t *testing.T, name string) string {
	t.Helper()
	folder := filepath.Join(f.dir, name)
	require.NoError(t, os.Mkdir(folder, 0o755))
	return folder
}

func TestReplaceFolderIcon_WritesCustomization(t *testing.T) {
	f := newFixture(t)
	folder := f.newFolder(t, "docs")

	op, err := f.r.ReplaceFolderIcon(folder, f.icon)
	require.NoError(t, err)
	assert.Equal(t, KindFolder, op.Kind)
	assert.Equal(t, 1, f.r.Pending())

	data, err := os.ReadFile(icon.CustomizationPath(folder))
	require.NoError(t, err)
	ref, err := icon.ParseCustomization(data)
	require.NoError(t, err)
	assert.Equal(t, f.icon, ref)

	// The applied icon is always snapshotted for the audit trail.
	assert.NotEmpty(t, op.IconRef)
	assert.FileExists(t, op.IconRef)
}

func TestReplaceFolderIcon_MissingFolder(t *testing.T) {
	f := newFixture(t)

	_, err := f.r.ReplaceFolderIcon(filepath.Join(f.dir, "nope"), f.icon)
	assert.True(t, errors.Is(err, iverrors.ErrNotFound))
	assert.Zero(t, f.r.Pending(), "failed apply must not enter the ledger")
}

func TestReplaceFolderIcon_InvalidIcon(t *testing.T) {
	f := newFixture(t)
	folder := f.newFolder(t, "docs")

	bad := filepath.Join(f.dir, "not-an-icon.txt")
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0644))

	_, err := f.r.ReplaceFolderIcon(folder, bad)
	assert.True(t, errors.Is(err, iverrors.ErrInvalidResource))
	assert.Zero(t, f.r.Pending())
}

func TestRollbackLast_RestoresExistingCustomization(t *testing.T) {
	f := newFixture(t)
	folder := f.newFolder(t, "docs")

	iniPath := icon.CustomizationPath(folder)
	require.NoError(t, os.WriteFile(iniPath, []byte("X"), 0644))

	_, err := f.r.ReplaceFolderIcon(folder, f.icon)
	require.NoError(t, err)

	rolled, err := f.r.RollbackLast()
	require.NoError(t, err)
	assert.True(t, rolled)

	data, err := os.ReadFile(iniPath)
	require.NoError(t, err)
	assert.Equal(t, "X", string(data), "prior contents must be restored exactly")
	assert.Zero(t, f.r.Pending())
}

func TestRollbackLast_EmptyLedgerIsNoOp(t *testing.T) {
	f := newFixture(t)

	rolled, err := f.r.RollbackLast()
	require.NoError(t, err)
	assert.False(t, rolled)
}

func TestReplaceExtensionIcon_AbsentPriorDeletesOnRollback(t *testing.T) {
	f := newFixture(t)

	op, err := f.r.ReplaceExtensionIcon(".txt", f.icon)
	require.NoError(t, err)

	prior := op.StoreChanges[StoreKey{Root: store.RootCurrentUser, Path: associationPath(".txt")}]
	assert.False(t, prior.Present, "prior value must be recorded as absent")

	v, present, err := f.kv.Get(store.RootCurrentUser, associationPath(".txt"), "")
	require.NoError(t, err)
	require.True(t, present)
	assert.Equal(t, f.icon, v)

	rolled, err := f.r.RollbackLast()
	require.NoError(t, err)
	require.True(t, rolled)

	_, present, err = f.kv.Get(store.RootCurrentUser, associationPath(".txt"), "")
	require.NoError(t, err)
	assert.False(t, present, "rollback must delete, not set empty")
}

func TestReplaceExtensionIcon_NormalizesExtension(t *testing.T) {
	f := newFixture(t)

	op, err := f.r.ReplaceExtensionIcon("png", f.icon)
	require.NoError(t, err)
	assert.Equal(t, ".png", op.TargetPath)

	_, present, err := f.kv.Get(store.RootCurrentUser, associationPath(".png"), "")
	require.NoError(t, err)
	assert.True(t, present)
}

func TestReplaceExtensionIcon_RestoresPriorValue(t *testing.T) {
	f := newFixture(t)
	path := associationPath(".pdf")
	require.NoError(t, f.kv.Set(store.RootCurrentUser, path, "", "old.ico"))

	_, err := f.r.ReplaceExtensionIcon(".pdf", f.icon)
	require.NoError(t, err)

	rolled, err := f.r.RollbackLast()
	require.NoError(t, err)
	require.True(t, rolled)

	v, present, err := f.kv.Get(store.RootCurrentUser, path, "")
	require.NoError(t, err)
	require.True(t, present)
	assert.Equal(t, "old.ico", v)
}

func TestRollback_IsLIFO(t *testing.T) {
	f := newFixture(t)

	_, err := f.r.ReplaceExtensionIcon(".aaa", f.icon)
	require.NoError(t, err)
	_, err = f.r.ReplaceExtensionIcon(".bbb", f.icon)
	require.NoError(t, err)

	rolled, err := f.r.RollbackLast()
	require.NoError(t, err)
	require.True(t, rolled)

	// B reverted, A intact.
	_, present, err := f.kv.Get(store.RootCurrentUser, associationPath(".bbb"), "")
	require.NoError(t, err)
	assert.False(t, present)

	_, present, err = f.kv.Get(store.RootCurrentUser, associationPath(".aaa"), "")
	require.NoError(t, err)
	assert.True(t, present)
}

func TestRollbackAll_RestoresInitialState(t *testing.T) {
	f := newFixture(t)
	folder := f.newFolder(t, "docs")

	_, err := f.r.ReplaceExtensionIcon(".txt", f.icon)
	require.NoError(t, err)
	_, err = f.r.ReplaceFolderIcon(folder, f.icon)
	require.NoError(t, err)
	_, err = f.r.ReplaceExtensionIcon(".png", f.icon)
	require.NoError(t, err)

	count, err := f.r.RollbackAll()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Zero(t, f.r.Pending())

	assert.Zero(t, f.kv.Len(), "store must equal its pre-apply state")
	assert.NoFileExists(t, icon.CustomizationPath(folder))
}

func TestRollbackAll_PartialFailure(t *testing.T) {
	f := newFixture(t)

	_, err := f.r.ReplaceExtensionIcon(".one", f.icon)
	require.NoError(t, err)
	_, err = f.r.ReplaceExtensionIcon(".two", f.icon)
	require.NoError(t, err)
	_, err = f.r.ReplaceExtensionIcon(".three", f.icon)
	require.NoError(t, err)

	// .two has no prior value, so its rollback is a delete; make it fail.
	f.kv.FailDelete[store.RootCurrentUser+`\`+associationPath(".two")+`\`] = os.ErrPermission

	count, err := f.r.RollbackAll()
	assert.Equal(t, 1, count, "only .three completed before the failure")
	assert.True(t, errors.Is(err, iverrors.ErrRollbackPartial))

	// The failed operation was consumed; the ledger stays poppable.
	assert.Equal(t, 1, f.r.Pending())

	count, err = f.r.RollbackAll()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Zero(t, f.r.Pending())
}

func TestReplaceShortcutIcon_BasicMode(t *testing.T) {
	f := newFixture(t)

	lnk := filepath.Join(f.dir, "app.lnk")
	require.NoError(t, os.WriteFile(lnk, []byte("link bytes"), 0644))

	op, err := f.r.ReplaceShortcutIcon(lnk, f.icon)
	require.NoError(t, err, "absent editor degrades to basic mode, not failure")
	assert.Equal(t, 1, f.r.Pending())
	assert.FileExists(t, op.FileChanges[lnk])

	rolled, err := f.r.RollbackLast()
	require.NoError(t, err)
	require.True(t, rolled)

	data, err := os.ReadFile(lnk)
	require.NoError(t, err)
	assert.Equal(t, "link bytes", string(data))
}

func TestReplaceShortcutIcon_WithEditor(t *testing.T) {
	ed := &fakeEditor{}
	f := newFixture(t, WithEditor(ed))

	lnk := filepath.Join(f.dir, "app.lnk")
	require.NoError(t, os.WriteFile(lnk, []byte("link"), 0644))

	_, err := f.r.ReplaceShortcutIcon(lnk, f.icon)
	require.NoError(t, err)
	assert.Equal(t, f.icon, ed.edits[lnk])
}

func TestReplaceShortcutIcon_NotAShortcut(t *testing.T) {
	f := newFixture(t)

	plain := filepath.Join(f.dir, "file.txt")
	require.NoError(t, os.WriteFile(plain, []byte("x"), 0644))

	_, err := f.r.ReplaceShortcutIcon(plain, f.icon)
	assert.True(t, errors.Is(err, iverrors.ErrInvalidResource))
	assert.Zero(t, f.r.Pending())
}

func TestReplaceShortcutIcon_EditorFailureStagesNothing(t *testing.T) {
	ed := &fakeEditor{err: os.ErrPermission}
	f := newFixture(t, WithEditor(ed))

	lnk := filepath.Join(f.dir, "app.lnk")
	require.NoError(t, os.WriteFile(lnk, []byte("link"), 0644))

	_, err := f.r.ReplaceShortcutIcon(lnk, f.icon)
	assert.True(t, errors.Is(err, iverrors.ErrFileWriteFailed))
	assert.Zero(t, f.r.Pending())
}

func TestCommit_EmptyLedger(t *testing.T) {
	f := newFixture(t)

	id, err := f.r.Commit()
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Empty(t, f.arch.calls, "empty commit must not create an archive entry")
}

func TestCommit_ArchivesSnapshotsAndClears(t *testing.T) {
	f := newFixture(t)
	folder := f.newFolder(t, "docs")

	_, err := f.r.ReplaceFolderIcon(folder, f.icon)
	require.NoError(t, err)

	id, err := f.r.Commit()
	require.NoError(t, err)
	assert.Equal(t, "backup-1", id)
	assert.Zero(t, f.r.Pending())

	require.Len(t, f.arch.calls, 1)
	call := f.arch.calls[0]
	assert.Equal(t, "Icon Changes Backup", call.name)
	assert.NotEmpty(t, call.files)

	// Commit accepts current state: the customization file stays applied.
	assert.FileExists(t, icon.CustomizationPath(folder))
}

func TestCommit_StoreOnlyCreatesMetadataEntry(t *testing.T) {
	f := newFixture(t)

	_, err := f.r.ReplaceExtensionIcon(".txt", f.icon)
	require.NoError(t, err)

	_, err = f.r.Commit()
	require.NoError(t, err)

	require.Len(t, f.arch.calls, 1)
	call := f.arch.calls[0]
	assert.Empty(t, call.files)
	assert.Contains(t, call.name, "Store Only")
}

func TestCommit_ArchiveFailureKeepsLedger(t *testing.T) {
	f := newFixture(t)
	f.arch.err = os.ErrPermission

	_, err := f.r.ReplaceExtensionIcon(".txt", f.icon)
	require.NoError(t, err)

	_, err = f.r.Commit()
	assert.True(t, errors.Is(err, iverrors.ErrArchiveFailed))
	assert.Equal(t, 1, f.r.Pending(), "failed commit must not drop the pending set")
}

func TestDiscard_KeepsAppliedState(t *testing.T) {
	f := newFixture(t)
	folder := f.newFolder(t, "docs")

	_, err := f.r.ReplaceFolderIcon(folder, f.icon)
	require.NoError(t, err)

	require.NoError(t, f.r.Discard())
	assert.Zero(t, f.r.Pending())
	assert.Empty(t, f.arch.calls, "discard creates no audit record")
	assert.FileExists(t, icon.CustomizationPath(folder), "discard does not revert")
}
