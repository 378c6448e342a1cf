package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skufit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SKUFIT_SUBSCRIPTION_ID", "SKUFIT_REGION", "SKUFIT_WORKERS",
		"SKUFIT_TIMEOUT", "SKUFIT_LOG_LEVEL", "AZURE_SUBSCRIPTION_ID",
	} {
		// t.Setenv registers the restore; the variable itself must be
		// absent, not empty.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.NodeCount != DefaultNodeCount {
		t.Errorf("NodeCount = %d, want %d", cfg.NodeCount, DefaultNodeCount)
	}
	if cfg.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", cfg.Limit, DefaultLimit)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.MinVCPUsSet {
		t.Error("MinVCPUsSet must default to false")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
subscription: 00000000-0000-0000-0000-000000000001
region: westeurope
nodes: 5
minVCPUs: 30
limit: 10
preferredSizes:
  - Standard_D4s_v5
  - Standard_D8s_v5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Region != "westeurope" {
		t.Errorf("Region = %q, want westeurope", cfg.Region)
	}
	if cfg.NodeCount != 5 {
		t.Errorf("NodeCount = %d, want 5", cfg.NodeCount)
	}
	if !cfg.MinVCPUsSet || cfg.MinVCPUs != 30 {
		t.Errorf("MinVCPUs = %d (set=%v), want 30 (set=true)", cfg.MinVCPUs, cfg.MinVCPUsSet)
	}
	if cfg.Limit != 10 {
		t.Errorf("Limit = %d, want 10", cfg.Limit)
	}
	if len(cfg.PreferredSizes) != 2 || cfg.PreferredSizes[0] != "Standard_D4s_v5" {
		t.Errorf("PreferredSizes = %v", cfg.PreferredSizes)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("explicitly requested config file must exist")
	}
}

func TestLoadInvalidYAMLFails(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "region: [unterminated")
	if _, err := Load(path); err == nil {
		t.Fatal("malformed yaml must fail")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "region: westeurope\nsubscription: from-file\n")
	t.Setenv("SKUFIT_REGION", "eastus2")
	t.Setenv("SKUFIT_WORKERS", "8")
	t.Setenv("SKUFIT_TIMEOUT", "30s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Region != "eastus2" {
		t.Errorf("Region = %q, want eastus2 (env wins over file)", cfg.Region)
	}
	if cfg.SubscriptionID != "from-file" {
		t.Errorf("SubscriptionID = %q, want from-file", cfg.SubscriptionID)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
}

func TestEmptyNumericEnvCountsAsUnset(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKUFIT_WORKERS", "")
	t.Setenv("SKUFIT_TIMEOUT", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with empty numeric env vars: %v", err)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0", cfg.Workers)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
}

func TestMalformedNumericEnvFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKUFIT_WORKERS", "many")
	if _, err := Load(""); err == nil {
		t.Error("non-numeric SKUFIT_WORKERS must fail")
	}

	clearEnv(t)
	t.Setenv("SKUFIT_TIMEOUT", "soon")
	if _, err := Load(""); err == nil {
		t.Error("non-duration SKUFIT_TIMEOUT must fail")
	}
}

func TestAzureSubscriptionFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("AZURE_SUBSCRIPTION_ID", "ambient-sub")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SubscriptionID != "ambient-sub" {
		t.Errorf("SubscriptionID = %q, want ambient-sub", cfg.SubscriptionID)
	}

	// The prefixed variable takes precedence over the ambient one.
	t.Setenv("SKUFIT_SUBSCRIPTION_ID", "explicit-sub")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SubscriptionID != "explicit-sub" {
		t.Errorf("SubscriptionID = %q, want explicit-sub", cfg.SubscriptionID)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Region = "eastus"
		c.SubscriptionID = "sub"
		return c
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing region", func(c *Config) { c.Region = "" }},
		{"missing subscription", func(c *Config) { c.SubscriptionID = "" }},
		{"zero nodes", func(c *Config) { c.NodeCount = 0 }},
		{"zero min vcpus when set", func(c *Config) { c.MinVCPUsSet = true; c.MinVCPUs = 0 }},
		{"zero limit", func(c *Config) { c.Limit = 0 }},
		{"negative fallback cores", func(c *Config) { c.MaxFallbackCores = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("Validate() accepted an invalid config")
			}
		})
	}
}
