// Package config loads the dashboard configuration from a YAML file, with
// defaults for everything so a bare data directory is enough to start.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seedslab/seeds-analytics/internal/source"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Data    source.Paths `yaml:"data"`
	Reducer string       `yaml:"reducer"`
	Palette []string     `yaml:"palette"`
	Auth    AuthConfig   `yaml:"auth"`
	// DatabaseURL enables the Postgres layout cache when set.
	DatabaseURL string `yaml:"database_url"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// AuthConfig holds the admin credential settings.
type AuthConfig struct {
	SecretKey string `yaml:"secret_key"`
	AdminHash string `yaml:"admin_hash"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server:  ServerConfig{Port: "8080"},
		Data:    source.DefaultPaths(),
		Reducer: "umap",
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Reducer == "" {
		cfg.Reducer = "umap"
	}
	fillPathDefaults(&cfg.Data)
	return cfg, nil
}

func fillPathDefaults(paths *source.Paths) {
	defaults := source.DefaultPaths()
	if paths.Blogs == "" {
		paths.Blogs = defaults.Blogs
	}
	if paths.Topics == "" {
		paths.Topics = defaults.Topics
	}
	if paths.TopicLabels == "" {
		paths.TopicLabels = defaults.TopicLabels
	}
	if paths.TopicData == "" {
		paths.TopicData = defaults.TopicData
	}
	if paths.Docs3D == "" {
		paths.Docs3D = defaults.Docs3D
	}
}
