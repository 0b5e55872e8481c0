package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

const configFileName = "digitalpin.toml"

// Flags holds the command-line values that feed into Config.
type Flags struct {
	ConfigPath string
	NoServer   bool
}

// tomlConfig mirrors digitalpin.toml. Pointers distinguish "absent" from
// zero values so defaults apply per field.
type tomlConfig struct {
	Chip        *int    `toml:"chip"`
	OutputPin   *int    `toml:"output_pin"`
	OutputLabel *string `toml:"output_label"`
	InputPin    *int    `toml:"input_pin"`
	InputLabel  *string `toml:"input_label"`
}

type Config struct {
	flags  Flags
	toml   tomlConfig
	getenv func(string) string
}

// NewConfig loads digitalpin.toml from the path given by flags, or failing
// that from the working directory, then the home directory. A missing file
// is fine; every field has a default.
func NewConfig(appfs AppFS, flags Flags, getenv func(string) string) (*Config, error) {
	c := &Config{
		flags:  flags,
		getenv: getenv,
	}

	path, err := findConfigFile(appfs, flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}

	data, err := afero.ReadFile(appfs, path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &c.toml); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return c, nil
}

func findConfigFile(appfs AppFS, explicit string) (string, error) {
	if explicit != "" {
		if _, err := appfs.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}

	candidates := []string{configFileName}
	if home, err := appfs.HomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "digitalpin", configFileName))
	}

	for _, candidate := range candidates {
		_, err := appfs.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}

	return "", nil
}

func (c *Config) envOr(key string, fallback string) string {
	value := c.getenv(key)
	if value == "" {
		value = fallback
	}
	return value
}

// Chip returns the controller index the demo pins live on.
func (c *Config) Chip() int {
	if c.toml.Chip != nil {
		return *c.toml.Chip
	}
	return 0
}

func (c *Config) OutputPin() int {
	if c.toml.OutputPin != nil {
		return *c.toml.OutputPin
	}
	return 17
}

func (c *Config) OutputLabel() string {
	if c.toml.OutputLabel != nil {
		return *c.toml.OutputLabel
	}
	return "LED"
}

func (c *Config) InputPin() int {
	if c.toml.InputPin != nil {
		return *c.toml.InputPin
	}
	return 27
}

func (c *Config) InputLabel() string {
	if c.toml.InputLabel != nil {
		return *c.toml.InputLabel
	}
	return "Button"
}

func (c *Config) Host() string {
	return c.envOr("HOST", "127.0.0.1")
}

func (c *Config) Port() string {
	return c.envOr("PORT", "8123")
}

func (c *Config) ServerEnabled() bool {
	return !c.flags.NoServer
}
