package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL = "https://api.cognitedata.com/api"
	defaultRetries = 0
	defaultTimeout = 30 * time.Second

	// credentialsFileName is the per-user file written by `cdp config set-default`.
	credentialsFileName = ".cdp.yml"
)

// Request payload limits imposed by the API.
const (
	// DatapointLimit is the maximum number of datapoints accepted in a single
	// ingestion request.
	DatapointLimit = 100_000
	// AggregateLimit is the maximum number of aggregated datapoints returned
	// per retrieval request.
	AggregateLimit = 10_000
)

// Config aggregates SDK configuration resolved from multiple sources.
// Precedence: caller overrides > environment variables > YAML credentials file > defaults.
type Config struct {
	APIKey         string        `yaml:"api_key"`
	Project        string        `yaml:"project"`
	BaseURL        string        `yaml:"base_url"`
	Retries        int           `yaml:"retries"`
	Timeout        time.Duration `yaml:"-"`
	RateLimitRPS   float64       `yaml:"-"`
	RateLimitBurst int           `yaml:"-"`
}

// yamlFile represents the credentials file structure.
type yamlFile struct {
	CDP yamlConfig `yaml:"cdp"`
}

type yamlConfig struct {
	APIKey    string        `yaml:"api_key"`
	Project   string        `yaml:"project"`
	BaseURL   string        `yaml:"base_url"`
	Retries   *int          `yaml:"retries"`
	Timeout   string        `yaml:"timeout"`
	RateLimit yamlRateLimit `yaml:"rate_limit"`
}

type yamlRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Overrides holds caller-supplied overrides with the highest precedence.
type Overrides struct {
	ConfigFile string
	APIKey     *string
	Project    *string
	BaseURL    *string
	Retries    *int
}

// Load resolves configuration from multiple sources with precedence:
// caller overrides > environment variables > YAML credentials file > defaults.
func Load(overrides *Overrides) (Config, error) {
	cfg := defaultConfig()

	path := ""
	if overrides != nil && overrides.ConfigFile != "" {
		path = overrides.ConfigFile
	} else if p, err := DefaultCredentialsPath(); err == nil {
		if _, statErr := os.Stat(p); statErr == nil {
			path = p
		}
	}

	if path != "" {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load credentials file: %w", err)
		}
		applyFileConfig(&cfg, fileCfg)
	}

	applyEnvConfig(&cfg)

	if overrides != nil {
		applyOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		BaseURL: defaultBaseURL,
		Retries: defaultRetries,
		Timeout: defaultTimeout,
	}
}

// DefaultCredentialsPath returns the per-user credentials file location.
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, credentialsFileName), nil
}

// WriteCredentials persists API key and project to the credentials file at path.
func WriteCredentials(path, apiKey, project string) error {
	out := yamlFile{CDP: yamlConfig{APIKey: apiKey, Project: project}}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials file: %w", err)
	}
	return nil
}

// loadFromFile loads configuration from a YAML credentials file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &file.CDP, nil
}

// applyFileConfig applies credentials file values to the Config struct.
func applyFileConfig(cfg *Config, fileCfg *yamlConfig) {
	if fileCfg.APIKey != "" {
		cfg.APIKey = fileCfg.APIKey
	}

	if fileCfg.Project != "" {
		cfg.Project = fileCfg.Project
	}

	if fileCfg.BaseURL != "" {
		cfg.BaseURL = fileCfg.BaseURL
	}

	if fileCfg.Retries != nil && *fileCfg.Retries >= 0 {
		cfg.Retries = *fileCfg.Retries
	}

	if fileCfg.Timeout != "" {
		if d, err := time.ParseDuration(fileCfg.Timeout); err == nil {
			cfg.Timeout = d
		}
	}

	if fileCfg.RateLimit.RPS > 0 {
		cfg.RateLimitRPS = fileCfg.RateLimit.RPS
	}

	if fileCfg.RateLimit.Burst > 0 {
		cfg.RateLimitBurst = fileCfg.RateLimit.Burst
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if key := strings.TrimSpace(os.Getenv("CDP_API_KEY")); key != "" {
		cfg.APIKey = key
	}

	if project := strings.TrimSpace(os.Getenv("CDP_PROJECT")); project != "" {
		cfg.Project = project
	}

	if baseURL := strings.TrimSpace(os.Getenv("CDP_BASE_URL")); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if retries := strings.TrimSpace(os.Getenv("CDP_RETRIES")); retries != "" {
		if value, err := strconv.Atoi(retries); err == nil && value >= 0 {
			cfg.Retries = value
		}
	}
}

// applyOverrides applies caller overrides on top of everything else.
func applyOverrides(cfg *Config, overrides *Overrides) {
	if overrides.APIKey != nil && *overrides.APIKey != "" {
		cfg.APIKey = *overrides.APIKey
	}

	if overrides.Project != nil && *overrides.Project != "" {
		cfg.Project = *overrides.Project
	}

	if overrides.BaseURL != nil && *overrides.BaseURL != "" {
		cfg.BaseURL = *overrides.BaseURL
	}

	if overrides.Retries != nil && *overrides.Retries >= 0 {
		cfg.Retries = *overrides.Retries
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if cfg.Retries < 0 {
		return fmt.Errorf("retries must be >= 0")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit burst must be >= 0")
	}
	return nil
}
