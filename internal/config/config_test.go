package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("SESSION_KEY", "")
	t.Setenv("SESSION_TTL_MINUTES", "")

	cfg, err := Load()
	if err == nil {
		t.Fatal("expected warning error when SESSION_KEY is unset")
	}
	if cfg.BackendURL != DefaultBackendURL {
		t.Fatalf("backend url = %q, want default", cfg.BackendURL)
	}
	if cfg.SessionKey == "" {
		t.Fatal("ephemeral session key should be generated")
	}
	if cfg.SessionTTLMin != 720 {
		t.Fatalf("ttl = %d, want 720", cfg.SessionTTLMin)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://scanner.internal:9443")
	t.Setenv("SESSION_KEY", "k")
	t.Setenv("SESSION_TTL_MINUTES", "60")
	t.Setenv("LISTEN_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL != "https://scanner.internal:9443" {
		t.Fatalf("backend url = %q", cfg.BackendURL)
	}
	if cfg.ListenAddr != ":9090" || cfg.SessionTTLMin != 60 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	if got := getenvInt("SOME_INT", 7); got != 7 {
		t.Fatalf("bad value should fall back to default, got %d", got)
	}
}
