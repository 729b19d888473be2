// Package config manages iconvault's configuration via Viper.
//
// Configuration is read from config.yaml in the current directory or the
// iconvault XDG config directory, with ICONVAULT_* environment variable
// overrides. All keys have working defaults, so a config file is optional.
//
// Keys:
//
//	version          config schema version (int, >= 1)
//	backup_dir       root directory of the backup archive
//	staging_dir      scratch directory for pre-mutation snapshots
//	store_path       path of the file-backed key/value store
//	retention_count  archive entries kept by retention cleanup
package config
