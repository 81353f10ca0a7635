package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/hammamikhairi/railroad/internal/engine"
	"github.com/hammamikhairi/railroad/internal/logger"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	v := viper.New()
	Setup(v, "")

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":5000" {
		t.Fatalf("expected :5000, got %q", cfg.Server.Addr)
	}
	if cfg.Client.Timeout != 2*time.Minute {
		t.Fatalf("expected 2m client timeout, got %s", cfg.Client.Timeout)
	}
	if cfg.Generator.SimulatedDelay != 3*time.Second {
		t.Fatalf("expected 3s delay, got %s", cfg.Generator.SimulatedDelay)
	}
	if cfg.Generator.Temperature != 0.7 || cfg.Generator.MaxTokens != 1200 {
		t.Fatalf("expected temperature 0.7 and 1200 tokens, got %v and %d", cfg.Generator.Temperature, cfg.Generator.MaxTokens)
	}
	if p, _ := cfg.NavPolicy(); p != engine.PolicyClamp {
		t.Fatalf("expected clamp policy, got %s", p)
	}
	if l, _ := cfg.LogLevel(); l != logger.LevelNormal {
		t.Fatalf("expected normal level, got %s", l)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RAILROAD_VIEWER_NAV_POLICY", "wrap")
	t.Setenv("RAILROAD_DATABASE_DRIVER", "postgres")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	v := viper.New()
	Setup(v, "")
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p, _ := cfg.NavPolicy(); p != engine.PolicyWrap {
		t.Fatalf("expected wrap policy, got %s", p)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("expected postgres, got %q", cfg.Database.Driver)
	}
	if cfg.Generator.APIKey != "sk-env" {
		t.Fatalf("expected api key from OPENAI_API_KEY, got %q", cfg.Generator.APIKey)
	}
	if cfg.UseSimulatedGenerator() {
		t.Fatal("expected openai generator with a key set")
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "railroad.yaml")
	yaml := `
server:
  addr: ":8080"
  allowed_origins: ["*"]
generator:
  mode: simulated
  simulated_delay: 250ms
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	v := viper.New()
	Setup(v, path)
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || len(cfg.Server.AllowedOrigins) != 1 {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if !cfg.UseSimulatedGenerator() || cfg.Generator.SimulatedDelay != 250*time.Millisecond {
		t.Fatalf("unexpected generator config %+v", cfg.Generator)
	}
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"viewer.nav_policy", "bounce"},
		{"logging.level", "loud"},
		{"database.driver", "oracle"},
		{"generator.mode", "psychic"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			v := viper.New()
			Setup(v, "")
			v.Set(tt.key, tt.value)
			if _, err := Load(v); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestMissingExplicitFile(t *testing.T) {
	v := viper.New()
	Setup(v, filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(v); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}
