// Package config loads skufit configuration from defaults, an optional
// YAML file and the environment. Flag overrides are applied by the command
// handlers, giving the precedence flags > env > file > defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is probed when no --config flag is given.
const DefaultConfigFile = "skufit.yaml"

const (
	DefaultNodeCount = 3
	DefaultLimit     = 5
	DefaultTimeout   = 2 * time.Minute
)

// Config is the fully merged configuration for one resolution run.
type Config struct {
	SubscriptionID string
	Region         string

	NodeCount int
	// MinVCPUs is the caller-supplied aggregate floor; meaningful only
	// when MinVCPUsSet is true. The derived baseline is computed by the
	// engine, never stored here.
	MinVCPUs    int
	MinVCPUsSet bool

	Limit            int
	MaxFallbackCores int
	Workers          int

	Timeout  time.Duration
	LogLevel string

	// PreferredSizes overrides the engine's built-in preference list.
	PreferredSizes []string
}

// fileConfig is the YAML file schema. All fields are optional.
type fileConfig struct {
	Subscription     string   `yaml:"subscription"`
	Region           string   `yaml:"region"`
	Nodes            int      `yaml:"nodes"`
	MinVCPUs         *int     `yaml:"minVCPUs"`
	Limit            int      `yaml:"limit"`
	MaxFallbackCores int      `yaml:"maxFallbackCores"`
	Workers          int      `yaml:"workers"`
	LogLevel         string   `yaml:"logLevel"`
	PreferredSizes   []string `yaml:"preferredSizes"`
}

// envOverrides is processed with the SKUFIT prefix. The numeric fields are
// carried as strings and parsed explicitly so a variable that is set but
// empty (common in CI) counts as unset instead of failing the run.
type envOverrides struct {
	SubscriptionID string `envconfig:"SUBSCRIPTION_ID"`
	Region         string `envconfig:"REGION"`
	Workers        string `envconfig:"WORKERS"`
	Timeout        string `envconfig:"TIMEOUT"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		NodeCount: DefaultNodeCount,
		Limit:     DefaultLimit,
		Timeout:   DefaultTimeout,
		LogLevel:  "info",
	}
}

// Load merges defaults, the YAML file at path (optional unless explicitly
// requested) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := cfg.applyFile(path, explicit); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Subscription != "" {
		c.SubscriptionID = fc.Subscription
	}
	if fc.Region != "" {
		c.Region = fc.Region
	}
	if fc.Nodes > 0 {
		c.NodeCount = fc.Nodes
	}
	if fc.MinVCPUs != nil {
		c.MinVCPUs = *fc.MinVCPUs
		c.MinVCPUsSet = true
	}
	if fc.Limit > 0 {
		c.Limit = fc.Limit
	}
	if fc.MaxFallbackCores > 0 {
		c.MaxFallbackCores = fc.MaxFallbackCores
	}
	if fc.Workers > 0 {
		c.Workers = fc.Workers
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if len(fc.PreferredSizes) > 0 {
		c.PreferredSizes = fc.PreferredSizes
	}
	return nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("SKUFIT", &env); err != nil {
		return fmt.Errorf("failed to process environment: %w", err)
	}

	if env.SubscriptionID != "" {
		c.SubscriptionID = env.SubscriptionID
	} else if c.SubscriptionID == "" {
		// The standard Azure variable carries the caller's active context.
		c.SubscriptionID = os.Getenv("AZURE_SUBSCRIPTION_ID")
	}
	if env.Region != "" {
		c.Region = env.Region
	}
	if env.Workers != "" {
		workers, err := strconv.Atoi(env.Workers)
		if err != nil {
			return fmt.Errorf("invalid SKUFIT_WORKERS %q: %w", env.Workers, err)
		}
		if workers > 0 {
			c.Workers = workers
		}
	}
	if env.Timeout != "" {
		timeout, err := time.ParseDuration(env.Timeout)
		if err != nil {
			return fmt.Errorf("invalid SKUFIT_TIMEOUT %q: %w", env.Timeout, err)
		}
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
	if env.LogLevel != "" {
		c.LogLevel = env.LogLevel
	}
	return nil
}

// Validate checks the merged configuration before any provider call.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required (--region, SKUFIT_REGION or config file)")
	}
	if c.SubscriptionID == "" {
		return fmt.Errorf("subscription is required (--subscription, AZURE_SUBSCRIPTION_ID or config file)")
	}
	if c.NodeCount < 1 {
		return fmt.Errorf("node count must be at least 1, got %d", c.NodeCount)
	}
	if c.MinVCPUsSet && c.MinVCPUs < 1 {
		return fmt.Errorf("minimum vCPUs must be at least 1, got %d", c.MinVCPUs)
	}
	if c.Limit < 1 {
		return fmt.Errorf("result limit must be at least 1, got %d", c.Limit)
	}
	if c.MaxFallbackCores < 0 {
		return fmt.Errorf("max fallback cores must not be negative, got %d", c.MaxFallbackCores)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}
