package config

import (
	"strings"
	"testing"
	"time"
)

func TestEnvReaderDefaults(t *testing.T) {
	t.Setenv("APPER_PROJECT_ID", "proj")
	t.Setenv("APPER_PUBLIC_KEY", "key")

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cfg.Env != EnvProd || cfg.Backend != BackendApper {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Apper.Timeout != 15*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Apper.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestEnvReaderOverrides(t *testing.T) {
	t.Setenv("CLIENTFLOW_ENV", EnvLocal)
	t.Setenv("CLIENTFLOW_BACKEND", BackendLocal)
	t.Setenv("CLIENTFLOW_DB_PATH", "/tmp/cf.db")
	t.Setenv("APPER_TIMEOUT", "3s")

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cfg.Env != EnvLocal || cfg.Local.DBPath != "/tmp/cf.db" || cfg.Apper.Timeout != 3*time.Second {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("local backend needs no credentials: %v", err)
	}
}

func TestValidateRequiresCredentials(t *testing.T) {
	cfg := &Config{Backend: BackendApper}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, name := range []string{"APPER_PROJECT_ID", "APPER_PUBLIC_KEY"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error should mention %s: %v", name, err)
		}
	}

	cfg = &Config{Backend: "ftp"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
