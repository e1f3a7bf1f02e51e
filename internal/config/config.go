package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Sources struct {
		SikaBaseURL string `yaml:"sika_base_url"`
		BRVMBaseURL string `yaml:"brvm_base_url"`
		Primary     string `yaml:"primary"` // "sika" or "brvm"
	} `yaml:"sources"`
	Dirs struct {
		Data      string `yaml:"data"`
		Exports   string `yaml:"exports"`
		Reports   string `yaml:"reports"`
		Dashboard string `yaml:"dashboard"`
		Site      string `yaml:"site"`
	} `yaml:"dirs"`
	Collector struct {
		DelaySeconds int `yaml:"delay_seconds"`
	} `yaml:"collector"`
	Analysis struct {
		RiskFreeRate float64 `yaml:"risk_free_rate"`
	} `yaml:"analysis"`
	Schedule struct {
		WeeklyCron string `yaml:"weekly_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Publish struct {
		GitPush bool   `yaml:"git_push"`
		Remote  string `yaml:"remote"`
		Branch  string `yaml:"branch"`
	} `yaml:"publish"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SIKA_BASE_URL"); v != "" {
		cfg.Sources.SikaBaseURL = v
	}
	if v := os.Getenv("BRVM_BASE_URL"); v != "" {
		cfg.Sources.BRVMBaseURL = v
	}
	if v := os.Getenv("PRIMARY_SOURCE"); v != "" {
		cfg.Sources.Primary = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Dirs.Data = v
	}
	if v := os.Getenv("SITE_DIR"); v != "" {
		cfg.Dirs.Site = v
	}
	if v := os.Getenv("CRON_WEEKLY"); v != "" {
		cfg.Schedule.WeeklyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("RISK_FREE_RATE"); v != "" {
		var rate float64
		if _, err := fmt.Sscanf(v, "%f", &rate); err == nil {
			cfg.Analysis.RiskFreeRate = rate
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Sources.SikaBaseURL == "" {
		cfg.Sources.SikaBaseURL = "https://www.sikafinance.com"
	}
	if cfg.Sources.BRVMBaseURL == "" {
		cfg.Sources.BRVMBaseURL = "https://www.brvm.org"
	}
	if cfg.Sources.Primary == "" {
		cfg.Sources.Primary = "sika"
	}
	if cfg.Dirs.Data == "" {
		cfg.Dirs.Data = "data"
	}
	if cfg.Dirs.Exports == "" {
		cfg.Dirs.Exports = "exports"
	}
	if cfg.Dirs.Reports == "" {
		cfg.Dirs.Reports = "reports"
	}
	if cfg.Dirs.Dashboard == "" {
		cfg.Dirs.Dashboard = "dashboard"
	}
	if cfg.Dirs.Site == "" {
		cfg.Dirs.Site = "docs"
	}
	if cfg.Collector.DelaySeconds == 0 {
		cfg.Collector.DelaySeconds = 2
	}
	if cfg.Schedule.WeeklyCron == "" {
		cfg.Schedule.WeeklyCron = "0 0 7 * * 1"
	}
	if cfg.Publish.Remote == "" {
		cfg.Publish.Remote = "origin"
	}
	if cfg.Publish.Branch == "" {
		cfg.Publish.Branch = "main"
	}

	return cfg, nil
}

// Validate checks that the configuration is coherent.
func (c *Config) Validate() error {
	if c.Sources.Primary != "sika" && c.Sources.Primary != "brvm" {
		return fmt.Errorf("sources.primary must be \"sika\" or \"brvm\", got %q", c.Sources.Primary)
	}
	if c.Dirs.Data == "" {
		return fmt.Errorf("dirs.data is required")
	}
	if c.Collector.DelaySeconds < 0 {
		return fmt.Errorf("collector.delay_seconds must not be negative")
	}
	if c.Analysis.RiskFreeRate < 0 || c.Analysis.RiskFreeRate >= 1 {
		return fmt.Errorf("analysis.risk_free_rate must be in [0, 1)")
	}
	return nil
}
