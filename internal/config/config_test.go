package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing config file must not be an error: %v", err)
	}
	if cfg.Sources.Primary != "sika" {
		t.Errorf("expected default primary sika, got %q", cfg.Sources.Primary)
	}
	if cfg.Dirs.Data != "data" {
		t.Errorf("expected default data dir, got %q", cfg.Dirs.Data)
	}
	if cfg.Dirs.Site != "docs" {
		t.Errorf("expected default site dir docs, got %q", cfg.Dirs.Site)
	}
	if cfg.Collector.DelaySeconds != 2 {
		t.Errorf("expected default delay 2s, got %d", cfg.Collector.DelaySeconds)
	}
	if cfg.Schedule.WeeklyCron != "0 0 7 * * 1" {
		t.Errorf("unexpected default cron %q", cfg.Schedule.WeeklyCron)
	}
	if cfg.Analysis.RiskFreeRate != 0 {
		t.Errorf("expected default risk-free rate 0, got %f", cfg.Analysis.RiskFreeRate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
sources:
  primary: brvm
dirs:
  data: /srv/brvm/data
collector:
  delay_seconds: 5
analysis:
  risk_free_rate: 0.03
publish:
  git_push: true
  branch: gh-pages
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sources.Primary != "brvm" {
		t.Errorf("expected primary brvm, got %q", cfg.Sources.Primary)
	}
	if cfg.Dirs.Data != "/srv/brvm/data" {
		t.Errorf("unexpected data dir %q", cfg.Dirs.Data)
	}
	if cfg.Collector.DelaySeconds != 5 {
		t.Errorf("expected delay 5, got %d", cfg.Collector.DelaySeconds)
	}
	if cfg.Analysis.RiskFreeRate != 0.03 {
		t.Errorf("expected risk-free rate 0.03, got %f", cfg.Analysis.RiskFreeRate)
	}
	if !cfg.Publish.GitPush {
		t.Error("expected git_push enabled")
	}
	if cfg.Publish.Branch != "gh-pages" {
		t.Errorf("expected branch gh-pages, got %q", cfg.Publish.Branch)
	}
	// Unset fields still get defaults.
	if cfg.Publish.Remote != "origin" {
		t.Errorf("expected default remote origin, got %q", cfg.Publish.Remote)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PRIMARY_SOURCE", "brvm")
	t.Setenv("DATA_DIR", "/tmp/override")
	t.Setenv("RISK_FREE_RATE", "0.05")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sources.Primary != "brvm" {
		t.Errorf("expected env override brvm, got %q", cfg.Sources.Primary)
	}
	if cfg.Dirs.Data != "/tmp/override" {
		t.Errorf("expected env override data dir, got %q", cfg.Dirs.Data)
	}
	if cfg.Analysis.RiskFreeRate != 0.05 {
		t.Errorf("expected env override 0.05, got %f", cfg.Analysis.RiskFreeRate)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		return cfg
	}

	cfg := base()
	cfg.Sources.Primary = "bloomberg"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown primary source")
	}

	cfg = base()
	cfg.Collector.DelaySeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative delay")
	}

	cfg = base()
	cfg.Analysis.RiskFreeRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range risk-free rate")
	}
}
