package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":5174" {
		t.Errorf("Addr = %q, want :5174", cfg.Addr)
	}
	if cfg.AdminName != "管理员" {
		t.Errorf("AdminName = %q, want 管理员", cfg.AdminName)
	}
	if cfg.StartingStake != 15000 {
		t.Errorf("StartingStake = %d, want 15000", cfg.StartingStake)
	}
	if cfg.ReapInterval != 60*time.Second {
		t.Errorf("ReapInterval = %v, want 60s", cfg.ReapInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BANKROLL_ADDR", ":9000")
	t.Setenv("BANKROLL_ADMIN_NAME", "host")
	t.Setenv("BANKROLL_STARTING_STAKE", "500")
	t.Setenv("BANKROLL_REAP_INTERVAL", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.AdminName != "host" || cfg.StartingStake != 500 || cfg.ReapInterval != 5*time.Second {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}
