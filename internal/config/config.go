// ABOUTME: Configuration loading and parsing for admin-portal
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// MinSessionSecretLength is the minimum accepted length of auth.session_secret in bytes.
const MinSessionSecretLength = 32

// DefaultSessionTTL is used when auth.session_ttl is not set.
const DefaultSessionTTL = 24 * time.Hour

// DefaultMaxLoginFailures is used when auth.max_login_failures is not set.
// An explicit 0 disables login throttling.
const DefaultMaxLoginFailures = 5

// DefaultLoginLockout is used when auth.login_lockout is not set.
const DefaultLoginLockout = 15 * time.Minute

// Config represents the complete admin-portal configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Theming   ThemingConfig   `yaml:"theming"`
	Logging   LoggingConfig   `yaml:"logging"`
	WebAdmin  WebAdminConfig  `yaml:"webadmin"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// TailscaleConfig holds Tailscale tsnet configuration
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Hostname  string `yaml:"hostname"`
	AuthKey   string `yaml:"auth_key"`
	StateDir  string `yaml:"state_dir"`
	Ephemeral bool   `yaml:"ephemeral"`
	HTTPS     bool   `yaml:"https"`  // Serve HTTPS on :443 with tailnet certs
	Funnel    bool   `yaml:"funnel"` // Enable public Funnel (implies HTTPS)
}

// DatabaseConfig holds database configuration.
// An empty path disables persistence of runtime-added clients and the audit log.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds the operator login and session cookie settings
type AuthConfig struct {
	Username      string        `yaml:"username"`
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"-"`

	// MaxLoginFailures failed logins from one address within LoginLockout
	// lock that address out until the window ends. Zero disables throttling.
	MaxLoginFailures int           `yaml:"-"`
	LoginLockout     time.Duration `yaml:"-"`

	// Raw values for YAML unmarshaling
	SessionTTLRaw       string `yaml:"session_ttl"`
	LoginLockoutRaw     string `yaml:"login_lockout"`
	MaxLoginFailuresRaw *int   `yaml:"max_login_failures"`
}

// ThemingConfig selects the theme catalog and the client used when a request names none
type ThemingConfig struct {
	CatalogPath   string `yaml:"catalog_path"`
	DefaultClient string `yaml:"default_client"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// WebAdminConfig holds web admin UI configuration
type WebAdminConfig struct {
	// BaseURL is the external URL of the admin UI.
	// If not set, it's derived from server.http_addr or the tailscale hostname.
	BaseURL string `yaml:"base_url"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	// Relative catalog paths are resolved against the config file's directory
	if cfg.Theming.CatalogPath != "" && !filepath.IsAbs(cfg.Theming.CatalogPath) {
		cfg.Theming.CatalogPath = filepath.Join(filepath.Dir(path), cfg.Theming.CatalogPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	// Server address is required unless Tailscale is enabled
	if !c.Tailscale.Enabled && c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required (or enable tailscale)")
	}

	// Tailscale requires a hostname
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}

	if c.Auth.Username == "" {
		return fmt.Errorf("auth.username is required")
	}

	if len(c.Auth.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("auth.session_secret must be at least %d bytes", MinSessionSecretLength)
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}

	if c.Auth.MaxLoginFailures < 0 {
		return fmt.Errorf("auth.max_login_failures cannot be negative")
	}

	if c.Auth.MaxLoginFailures > 0 && c.Auth.LoginLockout <= 0 {
		return fmt.Errorf("auth.login_lockout must be positive (set auth.max_login_failures to 0 to disable throttling)")
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	cfg.Auth.SessionTTL = DefaultSessionTTL

	if cfg.Auth.SessionTTLRaw != "" {
		ttl, err := time.ParseDuration(cfg.Auth.SessionTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing session_ttl %q: %w", cfg.Auth.SessionTTLRaw, err)
		}
		cfg.Auth.SessionTTL = ttl
	}

	cfg.Auth.LoginLockout = DefaultLoginLockout
	if cfg.Auth.LoginLockoutRaw != "" {
		lockout, err := time.ParseDuration(cfg.Auth.LoginLockoutRaw)
		if err != nil {
			return fmt.Errorf("parsing login_lockout %q: %w", cfg.Auth.LoginLockoutRaw, err)
		}
		cfg.Auth.LoginLockout = lockout
	}

	cfg.Auth.MaxLoginFailures = DefaultMaxLoginFailures
	if cfg.Auth.MaxLoginFailuresRaw != nil {
		cfg.Auth.MaxLoginFailures = *cfg.Auth.MaxLoginFailuresRaw
	}

	return nil
}

// BaseURL returns the external URL of the admin UI.
func (c *Config) BaseURL() string {
	if c.WebAdmin.BaseURL != "" {
		return c.WebAdmin.BaseURL
	}

	if !c.Tailscale.Enabled {
		return "http://" + c.Server.HTTPAddr
	}

	if c.Tailscale.HTTPS || c.Tailscale.Funnel {
		return "https://" + c.Tailscale.Hostname
	}
	return "http://" + c.Tailscale.Hostname
}
