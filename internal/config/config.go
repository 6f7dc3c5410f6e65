// internal/config/config.go
//
// This package handles configuration and the .spawnhook directory structure.
// A project opts in to run logs and alias overrides by running
// `spawnhook init`, which creates .spawnhook/ in its root. Without that
// directory the filter runs on builtin defaults and touches nothing on disk.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectDirName is the name of the directory we create in each project
	ProjectDirName = ".spawnhook"

	aliasSigil = "@"

	// DefaultBridgeHost is the loopback interface the bridge binds by default.
	DefaultBridgeHost = "127.0.0.1"
	// DefaultBridgePort is the default TCP port for the bridge.
	DefaultBridgePort = 8766
)

// Environment variables that take precedence over the bridge block.
const (
	EnvBridgeEnabled = "SPAWNHOOK_BRIDGE_ENABLED"
	EnvBridgeHost    = "SPAWNHOOK_BRIDGE_HOST"
	EnvBridgePort    = "SPAWNHOOK_BRIDGE_PORT"
)

const defaultProjectConfigYAML = `# spawnhook project configuration
version: 1

# Extra or replacement agent aliases. Keys must start with "@".
# Builtin aliases (e.g. @code-scout -> Explore) apply unless overridden here.
aliases: {}
#  "@db-expert": postgres-master

logging:
  enabled: true

bridge:
  enabled: true
  host: 127.0.0.1
  port: 8766
`

// LoggingConfig controls the run log under .spawnhook/logs.
type LoggingConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// BridgeConfig captures HTTP bridge preferences.
type BridgeConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Host    string `yaml:"host,omitempty"`
	Port    int    `yaml:"port,omitempty"`
}

// ProjectConfig models .spawnhook/config.yaml.
type ProjectConfig struct {
	Version int               `yaml:"version"`
	Aliases map[string]string `yaml:"aliases,omitempty"`
	Logging LoggingConfig     `yaml:"logging"`
	Bridge  BridgeConfig      `yaml:"bridge"`
}

// BridgeSettings is the bridge block with environment overrides applied.
type BridgeSettings struct {
	Enabled bool
	Host    string
	Port    int
}

// Config holds the runtime configuration for spawnhook.
type Config struct {
	// ProjectDir is the directory spawnhook runs against
	ProjectDir string

	// HookDir is ProjectDir/.spawnhook
	HookDir string

	Project ProjectConfig
}

// InitDir creates the .spawnhook directory structure in the given project
// directory and writes a default config.yaml if none exists.
//
// Structure created:
// .spawnhook/
// ├── config.yaml
// └── logs/        <- run log
func InitDir(projectDir string) error {
	hookDir := filepath.Join(projectDir, ProjectDirName)
	if err := os.MkdirAll(filepath.Join(hookDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", hookDir, err)
	}
	return ensureProjectConfig(filepath.Join(hookDir, "config.yaml"))
}

// NewConfig creates a Config populated with project settings. A missing
// .spawnhook directory or config file is not an error.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		HookDir:    filepath.Join(projectDir, ProjectDirName),
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Initialized reports whether the project has a .spawnhook directory.
func (c *Config) Initialized() bool {
	if c == nil {
		return false
	}
	info, err := os.Stat(c.HookDir)
	return err == nil && info.IsDir()
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.HookDir, "logs")
}

// LogPath returns the run log location.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "spawnhook.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.HookDir, "config.yaml")
}

// AliasOverrides returns a copy of the configured alias overrides.
func (c *Config) AliasOverrides() map[string]string {
	if c == nil || len(c.Project.Aliases) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.Project.Aliases))
	for k, v := range c.Project.Aliases {
		out[k] = v
	}
	return out
}

// LoggingEnabled reports whether runs should be recorded. Logging is only
// possible once the project is initialized.
func (c *Config) LoggingEnabled() bool {
	if !c.Initialized() {
		return false
	}
	return boolOr(c.Project.Logging.Enabled, true)
}

// Bridge resolves the bridge block against the SPAWNHOOK_BRIDGE_*
// environment. Overrides go through the same checks as the file, so a
// malformed value is an error rather than a silent fallback. The saved
// config is not touched.
func (c *Config) Bridge() (BridgeSettings, error) {
	block := defaultProjectConfig().Bridge
	if c != nil {
		block = c.Project.Bridge
	}
	if value, ok := lookupEnv(EnvBridgeEnabled); ok {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return BridgeSettings{}, fmt.Errorf("config: %s: %w", EnvBridgeEnabled, err)
		}
		block.Enabled = &enabled
	}
	if value, ok := lookupEnv(EnvBridgeHost); ok {
		block.Host = value
	}
	if value, ok := lookupEnv(EnvBridgePort); ok {
		port, err := strconv.Atoi(value)
		if err != nil {
			return BridgeSettings{}, fmt.Errorf("config: %s: %w", EnvBridgePort, err)
		}
		block.Port = port
	}
	block.normalize()
	if err := block.validate(); err != nil {
		return BridgeSettings{}, fmt.Errorf("config: %w", err)
	}
	return BridgeSettings{
		Enabled: boolOr(block.Enabled, true),
		Host:    block.Host,
		Port:    block.Port,
	}, nil
}

// SetAlias adds or replaces an alias override and persists the config.
func (c *Config) SetAlias(alias, handler string) error {
	alias = strings.TrimSpace(alias)
	handler = strings.TrimSpace(handler)
	if err := validateAlias(alias, handler); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Project.Aliases == nil {
		c.Project.Aliases = map[string]string{}
	}
	c.Project.Aliases[alias] = handler
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Bridge: BridgeConfig{
			Host: DefaultBridgeHost,
			Port: DefaultBridgePort,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Bridge.Port == 0 {
		pc.Bridge.Port = DefaultBridgePort
	}
}

func (pc *ProjectConfig) normalize() {
	if len(pc.Aliases) > 0 {
		trimmed := make(map[string]string, len(pc.Aliases))
		for alias, handler := range pc.Aliases {
			trimmed[strings.TrimSpace(alias)] = strings.TrimSpace(handler)
		}
		pc.Aliases = trimmed
	}
	pc.Bridge.normalize()
}

func (bc *BridgeConfig) normalize() {
	bc.Host = strings.TrimSpace(bc.Host)
	if bc.Host == "" {
		bc.Host = DefaultBridgeHost
	}
}

func (bc BridgeConfig) validate() error {
	if bc.Port < 0 || bc.Port > 65535 {
		return fmt.Errorf("bridge.port must be between 0 and 65535")
	}
	return nil
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	aliases := make([]string, 0, len(pc.Aliases))
	for alias := range pc.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		if err := validateAlias(alias, pc.Aliases[alias]); err != nil {
			return fmt.Errorf("aliases[%s]: %w", alias, err)
		}
	}
	return pc.Bridge.validate()
}

func validateAlias(alias, handler string) error {
	if !strings.HasPrefix(alias, aliasSigil) || len(alias) <= len(aliasSigil) {
		return fmt.Errorf("alias must start with %q followed by a name", aliasSigil)
	}
	if handler == "" {
		return fmt.Errorf("handler is required")
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != ""
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.HookDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure %s: %w", ProjectDirName, err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
