package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Defaults(t *testing.T) {
	viper.Reset()
	Init()

	assert.Equal(t, 1, viper.GetInt("version"))
	assert.Equal(t, DefaultRetentionCount, viper.GetInt("retention_count"))
	assert.NotEmpty(t, viper.GetString("backup_dir"))
	assert.NotEmpty(t, viper.GetString("staging_dir"))
	assert.NotEmpty(t, viper.GetString("store_path"))
}

func TestLoad_ExplicitFile(t *testing.T) {
	viper.Reset()
	Init()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "version: 1\nbackup_dir: /tmp/backups\nretention_count: 3\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/backups", cfg.BackupDir)
	assert.Equal(t, 3, cfg.RetentionCount)
	// Unset keys fall back to defaults
	assert.NotEmpty(t, cfg.StagingDir)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	viper.Reset()
	Init()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg: &Config{
				Version:        1,
				BackupDir:      "/data/backups",
				RetentionCount: 5,
			},
			wantErr: false,
		},
		{
			name:    "version too low",
			cfg:     &Config{Version: 0},
			wantErr: true,
		},
		{
			name:    "negative retention",
			cfg:     &Config{Version: 1, RetentionCount: -1},
			wantErr: true,
		},
		{
			name:    "null byte in path",
			cfg:     &Config{Version: 1, BackupDir: "bad\x00path"},
			wantErr: true,
		},
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.cfg)
			if tt.wantErr {
				assert.NotEmpty(t, errs)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}
