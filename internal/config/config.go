// Package config loads application settings from localconnect.yaml, the
// environment and built-in defaults, in increasing order of precedence:
// defaults, file, environment.
//
// Environment variables use the LOCALCONNECT_ prefix with dots replaced by
// underscores, e.g. LOCALCONNECT_SERVER_ADDR or LOCALCONNECT_LOG_LEVEL.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pbaille/localconnect/internal/i18n"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Session  SessionConfig  `mapstructure:"session"`
	View     ViewConfig     `mapstructure:"view"`
	Pass     PassConfig     `mapstructure:"pass"`
	I18n     I18nConfig     `mapstructure:"i18n"`
	Profile  ProfileConfig  `mapstructure:"profile"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DatabaseConfig selects the sqlite directory provider
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SessionConfig seeds new sessions
type SessionConfig struct {
	Favorites   []string `mapstructure:"favorites"`
	RecentCalls []string `mapstructure:"recent_calls"`
}

// ViewConfig represents result rendering configuration
type ViewConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// PassConfig represents visitor pass configuration
type PassConfig struct {
	AlbumDir string `mapstructure:"album_dir"`
	Size     int    `mapstructure:"size"`
}

// I18nConfig selects the label catalog
type I18nConfig struct {
	Locale string `mapstructure:"locale"`
}

// ProfileConfig seeds the resident profile
type ProfileConfig struct {
	Name    string `mapstructure:"name"`
	Phone   string `mapstructure:"phone"`
	Email   string `mapstructure:"email"`
	Address string `mapstructure:"address"`
}

// Load reads configuration. An empty path searches the working directory and
// ~/.localconnect for localconnect.yaml; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".localconnect")

	// Set defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.path", filepath.Join(base, "directory.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("session.favorites", []string{"1", "3", "8"})
	v.SetDefault("session.recent_calls", []string{"2", "5", "1"})
	v.SetDefault("view.page_size", 10)
	v.SetDefault("pass.album_dir", filepath.Join(base, "VisitorPasses"))
	v.SetDefault("pass.size", 256)
	v.SetDefault("i18n.locale", "en")
	v.SetDefault("profile.name", "John Doe")
	v.SetDefault("profile.phone", "555-123-4567")
	v.SetDefault("profile.email", "john.doe@example.com")
	v.SetDefault("profile.address", "Unit A-101, SecureIn Community")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("localconnect")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(base)
	}

	// Enable environment variable support
	v.SetEnvPrefix("LOCALCONNECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Database.Path = expandHome(cfg.Database.Path, home)
	cfg.Pass.AlbumDir = expandHome(cfg.Pass.AlbumDir, home)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.View.PageSize <= 0 {
		return fmt.Errorf("view.page_size must be positive, got: %d", c.View.PageSize)
	}
	if c.Pass.Size < 64 {
		return fmt.Errorf("pass.size must be at least 64, got: %d", c.Pass.Size)
	}
	known := false
	for _, l := range i18n.Locales() {
		if l == c.I18n.Locale {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("i18n.locale %q is not one of %v", c.I18n.Locale, i18n.Locales())
	}
	return nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
