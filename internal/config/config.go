package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultBackendURL is the fixed fallback used when BACKEND_URL is unset.
const DefaultBackendURL = "https://sentryprime-api.example.com"

type Config struct {
	Env           string
	ListenAddr    string
	BackendURL    string
	SessionKey    string
	SessionTTLMin int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		_, err := fmt.Sscanf(v, "%d", &out)
		if err == nil {
			return out
		}
	}
	return def
}

func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Env:           getenv("APP_ENV", "development"),
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		BackendURL:    getenv("BACKEND_URL", DefaultBackendURL),
		SessionKey:    os.Getenv("SESSION_KEY"),
		SessionTTLMin: getenvInt("SESSION_TTL_MINUTES", 720),
	}
	if cfg.SessionKey == "" {
		// Not fatal: generate an ephemeral key so local runs work. Cookies
		// won't outlive the process, which matches the in-memory sessions.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return cfg, err
		}
		cfg.SessionKey = hex.EncodeToString(buf)
		return cfg, fmt.Errorf("SESSION_KEY not set, using ephemeral key")
	}
	return cfg, nil
}
