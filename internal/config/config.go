// Package config reads and writes the confluence-client configuration file.
//
// The file is YAML with one mapping per named server section. Keys in the
// "default" section are inherited by every other section:
//
//	default:
//	  timeout: 30s
//	work:
//	  base_url: https://wiki.example.com
//	  token: <personal access token>
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDir     = ".confluence-client"
	DefaultFile    = "config.yaml"
	DefaultSection = "default"
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "CONFLUENCE_CONFIG_PATH"
)

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrSectionNotFound    = errors.New("config section not found")
	ErrKeyNotFound        = errors.New("config key not found")
	ErrInvalidConfig      = errors.New("invalid config")
)

// Location describes where the config file lives.
type Location struct {
	File   string
	Dir    string
	InHome bool
}

// DefaultLocation is ~/.confluence-client/config.yaml.
func DefaultLocation() Location {
	return Location{File: DefaultFile, Dir: DefaultDir, InHome: true}
}

// Path resolves the location to an absolute path. EnvConfigPath, when set,
// wins over the location.
func (l Location) Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}

	root := "."
	if l.InHome {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		root = home
	}

	p, err := filepath.Abs(filepath.Join(root, l.Dir, l.File))
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}
	return p, nil
}

// Config holds the parsed sections of a config file.
type Config struct {
	fs   afero.Fs
	path string

	mu       sync.RWMutex
	sections map[string]map[string]string
}

// New returns an empty config that will be saved to path on fs.
func New(fs afero.Fs, path string) *Config {
	return &Config{fs: fs, path: path, sections: map[string]map[string]string{}}
}

// Load reads the config file at path.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	c := New(fs, path)
	for name, section := range raw {
		values := make(map[string]string, len(section))
		for k, v := range section {
			if v != nil {
				values[k] = fmt.Sprint(v)
			}
		}
		c.sections[name] = values
	}
	return c, nil
}

// LoadOrCreate loads the config file, or returns an empty config when the
// file does not exist yet.
func LoadOrCreate(fs afero.Fs, path string) (*Config, error) {
	c, err := Load(fs, path)
	if errors.Is(err, ErrConfigFileNotFound) {
		return New(fs, path), nil
	}
	return c, err
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Sections returns the section names in sorted order.
func (c *Config) Sections() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.sections))
}

// Section returns the values of a section merged over the default section.
func (c *Config) Section(section string) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values, ok := c.sections[section]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, section)
	}

	merged := maps.Clone(c.sections[DefaultSection])
	if merged == nil {
		merged = map[string]string{}
	}
	maps.Copy(merged, values)
	return merged, nil
}

// Get returns one value from section, falling back to the default section.
func (c *Config) Get(key, section string) (string, error) {
	values, err := c.Section(section)
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s in section %s", ErrKeyNotFound, key, section)
	}
	return v, nil
}

// Set stores a value, creating the section when needed.
func (c *Config) Set(section, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sections[section] == nil {
		c.sections[section] = map[string]string{}
	}
	c.sections[section][key] = value
}

// Save writes the config back to its path with owner-only permissions.
// On the OS filesystem the write holds a lock file next to the config.
func (c *Config) Save() error {
	c.mu.RLock()
	data, err := yaml.Marshal(c.sections)
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, onDisk := c.fs.(*afero.OsFs); onDisk {
		lock := flock.New(c.path + ".lock")
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("could not acquire config lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("could not acquire config lock, another instance may be writing %s", c.path)
		}
		defer lock.Unlock()
	}

	if err := afero.WriteFile(c.fs, c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
