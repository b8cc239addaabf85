// Package config holds the externally supplied parameters of the provisioning
// engine: where server versions are installed, where the release catalog and
// archives live, and how logging behaves. Configuration is explicit — the
// engine never reads ambient globals; callers construct a Config and pass the
// values they need into each operation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultCatalogURL lists published server releases.
	DefaultCatalogURL = "https://api.github.com/repos/OmniSharp/omnisharp-roslyn/releases"

	// DefaultReleaseBaseURL is the base from which per-version archives are
	// fetched as <base>/<version>/<filename>.
	DefaultReleaseBaseURL = "https://github.com/OmniSharp/omnisharp-roslyn/releases/download"

	configFileName = "config.yaml"
)

// LoggingConfig configures the zerolog-backed logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Config is the resolved configuration for a CLI invocation.
type Config struct {
	// ServerDir is the install root. One subdirectory per installed version,
	// named after the version tag verbatim.
	ServerDir string `yaml:"server_dir"`

	// CatalogURL is the release catalog endpoint.
	CatalogURL string `yaml:"catalog_url"`

	// ReleaseBaseURL is the archive download base URL.
	ReleaseBaseURL string `yaml:"release_base_url"`

	// HostVersion is the embedding editor host's version string. It feeds the
	// Windows 64-bit package carve-out; empty means "new enough".
	HostVersion string `yaml:"host_version"`

	Logging LoggingConfig `yaml:"logging"`
}

// New returns the effective configuration: built-in defaults, overlaid with
// ~/.lspmode/config.yaml when present, overlaid with environment variables.
// New never fails; an unreadable or malformed config file is ignored in favor
// of defaults so that a broken file cannot take the CLI down.
func New() *Config {
	cfg := defaults()

	if path := configPath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	applyEnvOverrides(cfg)
	return cfg
}

// defaults returns the built-in configuration.
func defaults() *Config {
	return &Config{
		ServerDir:      filepath.Join(homeDir(), ".lspmode", "servers"),
		CatalogURL:     DefaultCatalogURL,
		ReleaseBaseURL: DefaultReleaseBaseURL,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// applyEnvOverrides overlays LSPMODE_* environment variables onto cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LSPMODE_SERVER_DIR"); v != "" {
		cfg.ServerDir = v
	}
	if v := os.Getenv("LSPMODE_CATALOG_URL"); v != "" {
		cfg.CatalogURL = v
	}
	if v := os.Getenv("LSPMODE_RELEASE_BASE_URL"); v != "" {
		cfg.ReleaseBaseURL = v
	}
	if v := os.Getenv("LSPMODE_HOST_VERSION"); v != "" {
		cfg.HostVersion = v
	}
	if v := os.Getenv("LSPMODE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LSPMODE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("LSPMODE_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}

// Save writes cfg to ~/.lspmode/config.yaml, creating the directory as needed.
func (c *Config) Save() error {
	path := configPath()
	if path == "" {
		return fmt.Errorf("cannot determine home directory for config file")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// configPath returns the config file location, or "" when no home directory
// can be resolved.
func configPath() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".lspmode", configFileName)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
