package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the root directory.
const FileName = "vszipper.yaml"

type Config struct {
	Exclusions   []string `yaml:"exclusions"`
	Markers      Markers  `yaml:"markers"`
	FallbackName string   `yaml:"fallback_name,omitempty"`
	Timeout      string   `yaml:"timeout,omitempty"`
	AbortOnError bool     `yaml:"abort_on_error"`
}

// Markers lists the file extensions that name the archive.
type Markers struct {
	Solution []string `yaml:"solution"`
	Project  []string `yaml:"project"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclusions: []string{
			"/bin/",
			"/obj/",
			"/.vs/",
			"/.git/",
			".exe",
			".zip",
		},
		Markers: Markers{
			Solution: []string{".sln"},
			Project:  []string{".csproj", ".vbproj", ".fsproj"},
		},
		FallbackName: "VSZipper",
		Timeout:      "10m",
	}
}

// ConfigPath returns the config file location for a root directory.
func ConfigPath(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads the config at path. A missing file yields DefaultConfig.
// A present file is taken as written: an absent or empty exclusions key
// means nothing is excluded beyond hidden files and the archive itself.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil // Use defaults
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if _, err := cfg.TimeoutDuration(); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// TimeoutDuration parses Timeout. Zero means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", c.Timeout)
	}
	return d, nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %s: %w", path, err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
