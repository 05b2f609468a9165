package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the vault engine and its delegation
// token server. Values come from config.yaml with environment variable
// overrides; secrets (BUILDER_PRIVATE_KEY) must only come from the
// environment.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3001"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// CORSOriginsStr is a comma-separated list of allowed origins.
	CORSOriginsStr string `yaml:"cors_origins" env:"CORS_ORIGIN" env-default:"http://localhost:3000"`
	// CORSOrigins is the parsed list from CORSOriginsStr (not from config file).
	CORSOrigins []string `yaml:"-"`

	// Rate limiting for /api/ routes.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Builder identity and token issuance.
	Builder BuilderConfig `yaml:"builder"`

	// DatabasePath is the sqlite file backing the shared key-value
	// namespace (activity log, permission history).
	DatabasePath string `yaml:"database_path" env:"VAULT_DB_PATH" env-default:"vault.db"`

	// Vault holds the extension-side engine settings.
	Vault VaultConfig `yaml:"vault"`
}

// RateLimitConfig mirrors the original server's per-IP request limiter.
type RateLimitConfig struct {
	WindowSeconds int `yaml:"window_seconds" env:"RATE_LIMIT_WINDOW_SECONDS" env-default:"900"`
	MaxRequests   int `yaml:"max_requests" env:"RATE_LIMIT_MAX_REQUESTS" env-default:"100"`
}

// BuilderConfig holds the builder keypair seed and token parameters.
type BuilderConfig struct {
	// PrivateKeySeed is a 32-byte hex-encoded seed. Server refuses to
	// start without it.
	PrivateKeySeed  string `yaml:"-" env:"BUILDER_PRIVATE_KEY"` // Secret - not in YAML
	TokenTTLMinutes int    `yaml:"token_ttl_minutes" env:"TOKEN_TTL_MINUTES" env-default:"60"`
	CollectionName  string `yaml:"collection_name" env:"COLLECTION_NAME" env-default:"Nillion Vault User Data"`
}

// VaultConfig collects the settings previously scattered across the
// background/content/popup script revisions: one parameterized
// implementation with flags instead of parallel copies.
type VaultConfig struct {
	// SettleDelay is how long the detector waits after page load before
	// its initial pass, so client-rendered forms finish mounting.
	SettleDelayMS int `yaml:"settle_delay_ms" env:"VAULT_SETTLE_DELAY_MS" env-default:"2000"`

	// Messenger timeouts per request kind.
	DataTimeoutSeconds       int `yaml:"data_timeout_seconds" env:"VAULT_DATA_TIMEOUT_SECONDS" env-default:"10"`
	PermissionTimeoutSeconds int `yaml:"permission_timeout_seconds" env:"VAULT_PERMISSION_TIMEOUT_SECONDS" env-default:"30"`

	// ActivityLogCap bounds the audit trail; oldest entries evict first.
	ActivityLogCap int `yaml:"activity_log_cap" env:"VAULT_ACTIVITY_LOG_CAP" env-default:"100"`

	// ExcludedSitesStr is a comma-separated domain denylist. Detection
	// short-circuits on these before any DOM scan. Empty means the
	// built-in default list.
	ExcludedSitesStr string   `yaml:"excluded_sites" env:"VAULT_EXCLUDED_SITES" env-default:""`
	ExcludedSites    []string `yaml:"-"`

	// FormBuilderHeuristics enables the label-recovery path for known
	// form-builder platforms that obscure field identity behind
	// generated class names.
	FormBuilderHeuristics bool `yaml:"form_builder_heuristics" env:"VAULT_FORM_BUILDER_HEURISTICS" env-default:"true"`

	// OfflineCache keeps store snapshots in the session between reloads.
	OfflineCache bool `yaml:"offline_cache" env:"VAULT_OFFLINE_CACHE" env-default:"true"`
}

// DataTimeout returns the messenger timeout for data operations.
func (c *VaultConfig) DataTimeout() time.Duration {
	return time.Duration(c.DataTimeoutSeconds) * time.Second
}

// PermissionTimeout returns the messenger timeout for permission requests.
func (c *VaultConfig) PermissionTimeout() time.Duration {
	return time.Duration(c.PermissionTimeoutSeconds) * time.Second
}

// SettleDelay returns the initial detection delay.
func (c *VaultConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

// Window returns the rate-limit window as a duration.
func (c *RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// TokenTTL returns the delegation token lifetime.
func (c *BuilderConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// Load reads configuration from config.yaml with environment variable
// overrides. When no config.yaml exists the environment alone is used, which
// matches how the original server ran from a bare .env file.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	cfg.parseComplexFields()
	return cfg, nil
}

// parseComplexFields handles fields that need post-processing after loading.
func (c *Config) parseComplexFields() {
	c.CORSOrigins = splitTrimmed(c.CORSOriginsStr)
	c.Vault.ExcludedSites = splitTrimmed(c.Vault.ExcludedSitesStr)
}

func splitTrimmed(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
