// Package archive stores durable backup entries for committed icon changes.
//
// # Layout
//
// Each entry is a directory named by a random uuid, holding the archived
// files at volume-stripped relative paths. Metadata for every entry lives in
// one shared index file at the archive root:
//
//	<root>/
//	├── backup_metadata.json
//	└── <uuid>/
//	    └── <archived files...>
//
// Entries with no files are valid: a store-only commit produces a
// metadata-only record so the change remains auditable.
//
// # Integrity
//
// Archived files carry SHA256 checksums in the index. [Archive.Restore]
// verifies every file against its checksum before writing anything back and
// returns [ErrEntryCorrupted] on a mismatch.
//
// # Retention
//
// [Archive.Cleanup] bounds the archive by deleting the oldest entries beyond
// a maximum count.
package archive
