package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel int `yaml:"log_level"`

	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Playback PlaybackConfig `yaml:"playback"`
	Web      WebConfig      `yaml:"web"`
	Backup   BackupConfig   `yaml:"backup"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StorageConfig struct {
	// DataDir holds the persisted slot mapping document.
	DataDir string `yaml:"data_dir"`

	MusicDir string `yaml:"music_dir"`
	IconDir  string `yaml:"icon_dir"`
}

type PlaybackConfig struct {
	SampleRate int `yaml:"sample_rate"`
}

type WebConfig struct {
	// Empty directories disable UI serving.
	TemplatesDir string `yaml:"templates_dir"`
	StaticDir    string `yaml:"static_dir"`
}

type BackupConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	ObjectPrefix    string `yaml:"object_prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config *Config

	// Unmarshal the YAML data into the struct
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	// Set defaults if not provided
	if config.Server.Port == "" {
		config.Server.Port = "8000"
	}

	if config.Storage.DataDir == "" {
		config.Storage.DataDir = "data"
	}

	if config.Storage.MusicDir == "" {
		config.Storage.MusicDir = "static/music"
	}

	if config.Storage.IconDir == "" {
		config.Storage.IconDir = "static/icons"
	}

	if config.Playback.SampleRate == 0 {
		config.Playback.SampleRate = 44100
	}

	return config, nil
}

// MappingPath returns the location of the slot mapping document.
func (c *Config) MappingPath() string {
	return filepath.Join(c.Storage.DataDir, "mappings.json")
}
