// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultTheme           = "default"
	DefaultRoot            = "/metacatui"
	DefaultListen          = ":3000"
	DefaultStaticDir       = "src"
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 15 * time.Second
)

// Duration is a time.Duration that can be unmarshaled from human-readable
// strings such as "5s" or "1m30s", or from integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config represents the skinmap configuration.
type Config struct {
	Theme     string       `toml:"theme"`      // Active theme name
	Root      string       `toml:"root"`       // Deployment root, e.g. /metacatui
	ThemesDir string       `toml:"themes_dir"` // User theme declarations; empty = ThemesDir()
	Server    ServerConfig `toml:"server"`
	Reload    ReloadConfig `toml:"reload"`
}

// ServerConfig holds static file server settings.
type ServerConfig struct {
	Listen          string   `toml:"listen" validate:"required,listen_addr"`
	StaticDir       string   `toml:"static_dir" validate:"required"`
	ConfigFile      string   `toml:"config_file"` // Replaces <root>/config/config.js when set
	Fallback        bool     `toml:"fallback"`    // Serve the default when an override file is missing
	LogLevel        string   `toml:"log_level" validate:"oneof=debug info warn error off"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// ReloadConfig controls hot reload of theme declarations.
type ReloadConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Theme:     DefaultTheme,
		Root:      DefaultRoot,
		ThemesDir: "",
		Server: ServerConfig{
			Listen:          DefaultListen,
			StaticDir:       DefaultStaticDir,
			ConfigFile:      "",
			Fallback:        true,
			LogLevel:        DefaultLogLevel,
			ShutdownTimeout: Duration(DefaultShutdownTimeout),
		},
		Reload: ReloadConfig{
			Enabled: true,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := configHome()
	if configHome == "" {
		return ""
	}
	return filepath.Join(configHome, "skinmap", "config.toml")
}

// ThemesDir returns the default directory for user theme declarations.
func ThemesDir() string {
	configHome := configHome()
	if configHome == "" {
		return ""
	}
	return filepath.Join(configHome, "skinmap", "themes")
}

func configHome() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return configHome
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path atomically.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.Contains(c.Theme, "/") || strings.Contains(c.Theme, "..") {
		return fmt.Errorf("invalid theme name %q", c.Theme)
	}

	v := validator.New()
	_ = v.RegisterValidation("listen_addr", func(fl validator.FieldLevel) bool {
		return isListenAddr(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		return name
	})
	if err := v.Struct(c.Server); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			fe := ves[0]
			return fmt.Errorf("server.%s: invalid value %v (%s)", fe.Field(), fe.Value(), fe.Tag())
		}
		return err
	}

	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}

	return nil
}

// isListenAddr accepts host:port where host is empty, an IP literal
// (bracketed for IPv6) or a hostname, and port is 0-65535.
func isListenAddr(addr string) bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if n, err := strconv.ParseUint(port, 10, 16); err != nil || n > 65535 {
		return false
	}
	if host == "" || net.ParseIP(host) != nil {
		return true
	}
	return validator.New().Var(host, "hostname_rfc1123") == nil
}

// ResolvedThemesDir returns the configured themes directory with ~ expanded,
// or the default one.
func (c *Config) ResolvedThemesDir() string {
	if c.ThemesDir == "" {
		return ThemesDir()
	}
	return expandPath(c.ThemesDir)
}

// ResolvedConfigFile returns server.config_file with ~ expanded.
func (c *Config) ResolvedConfigFile() string {
	return expandPath(c.Server.ConfigFile)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
