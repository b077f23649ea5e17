package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "GRIDBINDER_"

// Data source types.
const (
	DataSourceMemory   = "memory"
	DataSourcePostgres = "postgres"
)

// Config represents the top-level application config.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	DataSource DataSourceConfig `koanf:"datasource"`
	Grid       GridConfig       `koanf:"grid"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	Type         string `koanf:"type"`
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

// DataSourceConfig selects where grid records come from.
type DataSourceConfig struct {
	Type        string `koanf:"type"`         // memory | postgres
	FixturePath string `koanf:"fixture_path"` // memory only
}

type GridConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"` // 0 = unlimited
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	switch c.DataSource.Type {
	case DataSourceMemory:
		if strings.TrimSpace(c.DataSource.FixturePath) == "" {
			return fmt.Errorf("datasource.fixture_path is required for the memory data source")
		}
		if _, err := os.Stat(c.DataSource.FixturePath); err != nil {
			return fmt.Errorf("datasource.fixture_path %q is not accessible: %w", c.DataSource.FixturePath, err)
		}
	case DataSourcePostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported datasource.type %q (must be memory or postgres)", c.DataSource.Type)
	}

	if c.Grid.DefaultPageSize < 0 {
		return fmt.Errorf("grid.default_page_size must be >= 0")
	}
	if c.Grid.MaxPageSize < 0 {
		return fmt.Errorf("grid.max_page_size must be >= 0")
	}
	if c.Grid.MaxPageSize > 0 && c.Grid.DefaultPageSize > c.Grid.MaxPageSize {
		return fmt.Errorf("grid.default_page_size %d exceeds grid.max_page_size %d", c.Grid.DefaultPageSize, c.Grid.MaxPageSize)
	}

	return nil
}

func (c DatabaseConfig) validate() error {
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}
	if c.Type != "" && c.Type != "postgres" {
		return fmt.Errorf("unsupported database.type %q", c.Type)
	}
	return nil
}

// Load parses config from defaults, file and env (in that order), then validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.max_body_size_mb": 1,
		"server.mode":             "release",
		"database.type":           "postgres",
		"database.dsn":            "",
		"database.max_open_conns": 25,
		"database.max_idle_conns": 25,
		"database.auto_migrate":   true,
		"datasource.type":         DataSourceMemory,
		"datasource.fixture_path": "./fixtures/directory.yaml",
		"grid.default_page_size":  20,
		"grid.max_page_size":      500,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
