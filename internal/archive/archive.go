package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	iverrors "github.com/iconvault/iconvault/internal/errors"
	"github.com/iconvault/iconvault/pkg/fileutil"
)

// Archive manages durable backup entries under a single root directory. Each
// entry lives in a directory named by its uuid; metadata for every entry is
// kept in one shared index file at the root.
//
// A single Archive instance assumes it is the only writer for its root.
// Concurrent processes sharing a root must serialize externally.
type Archive struct {
	root string
}

// index is the on-disk layout of the shared metadata file.
type index struct {
	Version int    `json:"version"`
	Entries []Info `json:"entries"`
}

// New opens the archive rooted at dir, creating the directory if needed.
func New(dir string) (*Archive, error) {
	if dir == "" {
		return nil, errors.New("archive root directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating archive directory")
	}
	return &Archive{root: dir}, nil
}

// Root returns the archive root directory.
func (a *Archive) Root() string {
	return a.root
}

// Create archives the given files into a new entry and returns its id. Files
// that no longer exist are skipped; an empty file list produces a
// metadata-only entry, which still records name, description, and creation
// time for the audit trail.
func (a *Archive) Create(files []string, name, description string) (string, error) {
	id := uuid.NewString()
	entryDir := filepath.Join(a.root, id)

	if err := os.MkdirAll(entryDir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating entry directory")
	}

	info := Info{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedDate: time.Now().UTC(),
		Version:     Version,
		Files:       []File{},
	}

	for _, src := range files {
		if _, err := os.Stat(src); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			a.discard(entryDir)
			return "", errors.Wrapf(err, "stat %s", src)
		}

		rel := relPath(src)
		dst := filepath.Join(entryDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			a.discard(entryDir)
			return "", errors.Wrap(err, "creating parent directory")
		}

		hash, mode, size, err := copyFile(src, dst)
		if err != nil {
			a.discard(entryDir)
			return "", errors.Wrapf(err, "archiving %s", src)
		}

		info.Files = append(info.Files, File{
			OriginalPath: src,
			RelPath:      rel,
			SHA256Hash:   hash,
			Mode:         mode,
		})
		info.SizeBytes += size
	}
	info.FileCount = len(info.Files)

	if err := a.updateIndex(func(idx *index) {
		idx.Entries = append(idx.Entries, info)
	}); err != nil {
		a.discard(entryDir)
		return "", err
	}

	return id, nil
}

// Restore copies every file of the entry back to disk. With an empty
// targetRoot each file returns to its original path; otherwise files are laid
// out under targetRoot at their archived relative paths. Integrity is
// verified against the recorded hashes before anything is written.
func (a *Archive) Restore(id, targetRoot string) error {
	info, err := a.Get(id)
	if err != nil {
		return err
	}

	entryDir := filepath.Join(a.root, id)

	for _, f := range info.Files {
		src := filepath.Join(entryDir, f.RelPath)

		hash, err := hashFile(src)
		if err != nil {
			return errors.Wrapf(err, "reading archived file %s", f.RelPath)
		}
		if hash != f.SHA256Hash {
			return errors.Wrapf(ErrEntryCorrupted, "file %s hash mismatch", f.RelPath)
		}

		dst := f.OriginalPath
		if targetRoot != "" {
			dst = filepath.Join(targetRoot, f.RelPath)
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return errors.Wrapf(err, "creating directory for %s", dst)
		}
		if _, _, _, err := copyFile(src, dst); err != nil {
			return errors.Wrapf(err, "restoring %s", dst)
		}
		if err := os.Chmod(dst, f.Mode); err != nil {
			return errors.Wrapf(err, "setting permissions for %s", dst)
		}
	}

	return nil
}

// Delete removes an entry's directory and its index record.
func (a *Archive) Delete(id string) error {
	if _, err := a.Get(id); err != nil {
		return err
	}

	if err := os.RemoveAll(filepath.Join(a.root, id)); err != nil {
		return errors.Wrapf(err, "removing entry %s", id)
	}

	return a.updateIndex(func(idx *index) {
		idx.Entries = slices.DeleteFunc(idx.Entries, func(e Info) bool {
			return e.ID == id
		})
	})
}

// Get returns the metadata record for one entry.
func (a *Archive) Get(id string) (*Info, error) {
	if id == "" {
		return nil, errors.New("entry id is required")
	}

	idx, err := a.loadIndex()
	if err != nil {
		return nil, err
	}

	for i := range idx.Entries {
		if idx.Entries[i].ID == id {
			return &idx.Entries[i], nil
		}
	}
	return nil, errors.Wrapf(iverrors.ErrNotFound, "archive entry %s", id)
}

// List returns every entry sorted by creation date, newest first.
func (a *Archive) List() ([]Info, error) {
	idx, err := a.loadIndex()
	if err != nil {
		return nil, err
	}

	entries := slices.Clone(idx.Entries)
	slices.SortFunc(entries, func(x, y Info) int {
		return y.CreatedDate.Compare(x.CreatedDate)
	})
	return entries, nil
}

// Cleanup deletes the oldest entries beyond maxEntries and returns how many
// were removed.
func (a *Archive) Cleanup(maxEntries int) (int, error) {
	if maxEntries < 0 {
		return 0, errors.New("max entries must be non-negative")
	}

	entries, err := a.List()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for i := maxEntries; i < len(entries); i++ {
		if err := a.Delete(entries[i].ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// loadIndex reads the shared metadata file. A missing file is an empty index.
func (a *Archive) loadIndex() (*index, error) {
	data, err := os.ReadFile(filepath.Join(a.root, indexFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return &index{Version: IndexVersion}, nil
		}
		return nil, errors.Wrap(err, "reading archive index")
	}

	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, errors.Wrap(err, "parsing archive index")
	}
	return &idx, nil
}

// updateIndex applies fn to the index under a read-modify-write cycle.
func (a *Archive) updateIndex(fn func(*index)) error {
	idx, err := a.loadIndex()
	if err != nil {
		return err
	}
	fn(idx)

	path := filepath.Join(a.root, indexFileName)
	if err := fileutil.AtomicWriteJSON(path, idx); err != nil {
		return errors.Wrap(err, "writing archive index")
	}
	return nil
}

// discard removes a partially-built entry directory.
func (a *Archive) discard(entryDir string) {
	_ = os.RemoveAll(entryDir)
}

// relPath maps an absolute path to its location inside an entry directory:
// the volume name, leading separators, and any colons are stripped so the
// result is always a safe relative path.
func relPath(p string) string {
	p = p[len(filepath.VolumeName(p)):]
	p = strings.TrimLeft(p, `/\`)
	return strings.ReplaceAll(p, ":", "")
}

// hashFile computes the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst, returning the content hash, source mode, and
// byte count.
func copyFile(src, dst string) (hash string, mode fs.FileMode, size int64, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", 0, 0, errors.Wrap(err, "stat source file")
	}
	mode = srcInfo.Mode()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	size, err = io.Copy(io.MultiWriter(dstFile, h), srcFile)
	if err != nil {
		dstFile.Close()
		return "", 0, 0, errors.Wrap(err, "copying file")
	}
	if err := dstFile.Close(); err != nil {
		return "", 0, 0, errors.Wrap(err, "closing destination file")
	}
	if err := os.Chmod(dst, mode); err != nil {
		return "", 0, 0, errors.Wrap(err, "setting permissions")
	}

	return hex.EncodeToString(h.Sum(nil)), mode, size, nil
}
