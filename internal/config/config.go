package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Sources    Sources    `yaml:"sources"`
	Collection Collection `yaml:"collection"`
	Output     Output     `yaml:"output"`
	Logging    Logging    `yaml:"logging"`
}

type Sources struct {
	Reddit     RedditConfig     `yaml:"reddit"`
	X          XConfig          `yaml:"x"`
	HackerNews HackerNewsConfig `yaml:"hackernews"`
}

type RedditConfig struct {
	UserAgent string `yaml:"user_agent"`
}

type XConfig struct {
	BearerTokenEnv string `yaml:"bearer_token_env"`
}

type HackerNewsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Collection struct {
	LimitPerSource int `yaml:"limit_per_source"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for signalscout.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "signalscout")
}

// DataDir returns the XDG data directory for signalscout.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "signalscout")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/signalscout/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'signalscout init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, _ := parse(nil)
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Sources: Sources{
			Reddit:     RedditConfig{UserAgent: "signalscout/1.0 (pmf research)"},
			X:          XConfig{BearerTokenEnv: "X_BEARER_TOKEN"},
			HackerNews: HackerNewsConfig{Enabled: true},
		},
		Collection: Collection{
			LimitPerSource: 25,
			TimeoutSeconds: 25,
		},
		Logging: Logging{Level: "info"},
	}

	if len(data) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Collection.LimitPerSource < 1 {
		cfg.Collection.LimitPerSource = 1
	}
	if cfg.Collection.LimitPerSource > 100 {
		cfg.Collection.LimitPerSource = 100
	}
	if cfg.Collection.TimeoutSeconds <= 0 {
		cfg.Collection.TimeoutSeconds = 25
	}

	return cfg, nil
}

// XBearerToken resolves the X API credential from the configured env var.
// An empty result disables the X source rather than failing collection.
func (c *Config) XBearerToken() string {
	if c.Sources.X.BearerTokenEnv == "" {
		return ""
	}
	return os.Getenv(c.Sources.X.BearerTokenEnv)
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Collection.TimeoutSeconds) * time.Second
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
