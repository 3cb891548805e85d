package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Create a temporary directory for test files
	tempDir := t.TempDir()

	// Create a test config file
	configPath := filepath.Join(tempDir, "test_config.yaml")
	configContent := `
log_level: -4
server:
  port: "9000"
storage:
  data_dir: /tmp/bardbox/data
  music_dir: /tmp/bardbox/music
  icon_dir: /tmp/bardbox/icons
playback:
  sample_rate: 48000
backup:
  enabled: true
  bucket: bardbox-backups
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	// Test loading the config
	cfg, err := Load(configPath)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, -4, cfg.LogLevel)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "/tmp/bardbox/music", cfg.Storage.MusicDir)
	assert.Equal(t, "/tmp/bardbox/icons", cfg.Storage.IconDir)
	assert.Equal(t, 48000, cfg.Playback.SampleRate)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, "bardbox-backups", cfg.Backup.Bucket)
	assert.Equal(t, filepath.Join("/tmp/bardbox/data", "mappings.json"), cfg.MappingPath())
}

func TestLoadDefaults(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "minimal_config.yaml")
	err := os.WriteFile(configPath, []byte("log_level: 0\n"), 0644)
	assert.NoError(t, err)

	cfg, err := Load(configPath)

	assert.NoError(t, err)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, "static/music", cfg.Storage.MusicDir)
	assert.Equal(t, "static/icons", cfg.Storage.IconDir)
	assert.Equal(t, 44100, cfg.Playback.SampleRate)
	assert.False(t, cfg.Backup.Enabled)
}

func TestLoadNonExistentFile(t *testing.T) {
	// Test loading a non-existent config file
	cfg, err := Load("non_existent_file.yaml")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	tempDir := t.TempDir()

	// Create an invalid YAML file
	configPath := filepath.Join(tempDir, "invalid_config.yaml")
	configContent := `
log_level: 0
server: [this is not valid yaml
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	// Test loading the invalid config
	cfg, err := Load(configPath)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
