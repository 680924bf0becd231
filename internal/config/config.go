// Package config loads the application config file and encodes the
// persisted canvas settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

const (
	defaultDataDir = "~/.smartboard"
	fileName       = "config.toml"
)

// Config is read once at startup.
type Config struct {
	DataDir      string  `toml:"data_dir"`
	LogLevel     string  `toml:"log_level"`
	WindowWidth  float32 `toml:"window_width"`
	WindowHeight float32 `toml:"window_height"`
	// ExportDir is where PDF exports land; DataDir when empty.
	ExportDir string `toml:"export_dir,omitempty"`
}

func Default() Config {
	return Config{
		DataDir:      defaultDataDir,
		LogLevel:     "info",
		WindowWidth:  1024,
		WindowHeight: 768,
	}
}

// DefaultPath is the config file inside the default data directory.
func DefaultPath() (string, error) {
	dir, err := homedir.Expand(defaultDataDir)
	if err != nil {
		return "", fmt.Errorf("config: expand %s: %w", defaultDataDir, err)
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := c.expand(); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) expand() error {
	for _, p := range []*string{&c.DataDir, &c.ExportDir} {
		if *p == "" {
			continue
		}
		v, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("config: expand %s: %w", *p, err)
		}
		*p = v
	}
	if c.ExportDir == "" {
		c.ExportDir = c.DataDir
	}
	return nil
}

func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir is empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("window size %gx%g is not positive", c.WindowWidth, c.WindowHeight)
	}
	return nil
}

// Level maps LogLevel to a slog level.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Save writes c to path, creating the directory.
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
