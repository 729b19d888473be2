// Package paths centralizes filesystem path resolution for iconvault.
//
// All application directories follow the XDG base directory specification
// via [github.com/adrg/xdg]:
//
//   - Config:  <ConfigHome>/iconvault/
//   - Backups: <DataHome>/iconvault/backups/
//   - Staging: <CacheHome>/iconvault/staging/
//   - Store:   <DataHome>/iconvault/store.json
//
// The backup directory is durable data; the staging directory is scratch
// space owned by a single replacer session and may be cleared on commit,
// rollback, or discard.
package paths
