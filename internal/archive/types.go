package archive

import (
	"io/fs"
	"time"

	"github.com/cockroachdb/errors"
)

// IndexVersion is the metadata format version for forward compatibility.
const IndexVersion = 1

// indexFileName is the shared metadata index kept at the archive root.
const indexFileName = "backup_metadata.json"

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for archive operations.
var (
	// ErrEntryCorrupted indicates integrity verification failed for an
	// archived file during restore.
	ErrEntryCorrupted = errors.New("archive entry corrupted")
)

// Info is the metadata record for one archive entry, as stored in the shared
// index.
type Info struct {
	// ID is the entry identifier (a random uuid).
	ID string `json:"id"`

	// Name is the human-readable entry name.
	Name string `json:"name"`

	// Description describes what the entry captured.
	Description string `json:"description"`

	// CreatedDate is when the entry was created.
	CreatedDate time.Time `json:"created_date"`

	// FileCount is the number of archived files.
	FileCount int `json:"file_count"`

	// SizeBytes is the total size of the archived files.
	SizeBytes int64 `json:"size_bytes"`

	// Version is the tool version that created the entry.
	Version string `json:"version"`

	// Files holds per-file metadata needed for restore.
	Files []File `json:"files"`
}

// File is the metadata for a single archived file.
type File struct {
	// OriginalPath is the absolute path the file was archived from.
	OriginalPath string `json:"original_path"`

	// RelPath is the file's path inside the entry directory: the original
	// path with its volume and leading separator stripped.
	RelPath string `json:"rel_path"`

	// SHA256Hash is the hex-encoded SHA256 of the file contents.
	SHA256Hash string `json:"sha256_hash"`

	// Mode is the file's permission bits.
	Mode fs.FileMode `json:"mode"`
}
