// Package config handles TOML-based settings loading, environment overrides
// and the on-disk locations of session state.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const (
	DefaultServiceConfigURL = "https://www.katsomo.fi/mb/v2/static/svod/web/config/web"
	DefaultLoginURL         = "https://api.katsomo.fi/api/authentication/user/login.json"
)

// Config holds all user-facing settings.
type Config struct {
	Username         string `toml:"username" env:"CMORE_USERNAME"`
	Password         string `toml:"password" env:"CMORE_PASSWORD"`
	SubLanguage      string `toml:"sub_lang" env:"CMORE_SUB_LANG"`
	Prefer50fps      bool   `toml:"prefer_50fps" env:"CMORE_PREFER_50FPS"`
	Player           string `toml:"player" env:"CMORE_PLAYER"`
	Debug            bool   `toml:"debug" env:"CMORE_DEBUG"`
	ServiceConfigURL string `toml:"config_url" env:"CMORE_CONFIG_URL"`
	LoginURL         string `toml:"login_url" env:"CMORE_LOGIN_URL"`
	Icon             string `toml:"icon" env:"CMORE_ICON"`
	Fanart           string `toml:"fanart" env:"CMORE_FANART"`

	path string
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		SubLanguage:      "fi",
		Player:           "mpv",
		ServiceConfigURL: DefaultServiceConfigURL,
		LoginURL:         DefaultLoginURL,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cmore"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "cmore"), nil
}

// ConfigPath returns the path to the settings file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns the directory holding the cookie store and the cached
// service configuration.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "cmore"), nil
}

// Load reads the settings file, merges it over the defaults and applies
// CMORE_* environment overrides. A missing file yields the defaults.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	cfg.SubLanguage = normalizeSubLanguage(cfg.SubLanguage)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// normalizeSubLanguage accepts the legacy select indexes of the settings dialog.
func normalizeSubLanguage(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "0", "":
		return "fi"
	case "1":
		return "sv"
	default:
		return strings.ToLower(strings.TrimSpace(lang))
	}
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validPlayers := map[string]bool{
		"mpv": true, "vlc": true, "iina": true, "celluloid": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: mpv, vlc, iina, celluloid)", c.Player)
	}

	validLanguages := map[string]bool{"fi": true, "sv": true}
	if !validLanguages[c.SubLanguage] {
		return fmt.Errorf("unsupported subtitle language %q (valid: fi, sv)", c.SubLanguage)
	}

	if c.ServiceConfigURL == "" {
		return fmt.Errorf("service config URL cannot be empty")
	}
	if c.LoginURL == "" {
		return fmt.Errorf("login URL cannot be empty")
	}

	return nil
}

// Credentials returns the configured username and password.
func (c *Config) Credentials() (string, string) {
	return c.Username, c.Password
}

// SetCredentials stores new credentials and writes the settings file.
func (c *Config) SetCredentials(username, password string) error {
	c.Username = username
	c.Password = password
	return c.Save()
}

// ResetCredentials clears the stored credentials.
func (c *Config) ResetCredentials() error {
	return c.SetCredentials("", "")
}

// Save writes the settings file atomically.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return err
		}
		c.path = path
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return WriteFileAtomic(path, buf.Bytes(), 0600)
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place so readers never see a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmpFile.Chmod(perm); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s: %w", path, err)
	}

	return nil
}
