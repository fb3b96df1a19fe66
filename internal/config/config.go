package config

import (
	"log"
	"os"
)

type Config struct {
	Port string

	// Admin gate: a single shared passcode, exact string equality.
	// Client-grade protection only, not a security boundary.
	AdminPasscode string

	GeminiAPIKey string
	ModelName    string
	UseMockLLM   bool // true = canned assistant, no API calls

	StorageBackend string // "memory" or "firestore"
	GCPProjectID   string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

// Load reads all env vars and builds the config
func Load() *Config {
	cfg := &Config{
		Port: getEnv("SAYDALI_PORT", "8080"),

		AdminPasscode: getEnv("SAYDALI_ADMIN_PASSCODE", "011"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		ModelName:    getEnv("SAYDALI_MODEL_NAME", "gemini-3-flash-preview"),

		StorageBackend: getEnv("SAYDALI_STORAGE_BACKEND", "memory"),
		GCPProjectID:   getEnv("SAYDALI_GCP_PROJECT", ""),
	}

	// Without a key there is nothing real to call; fall back to the mock.
	cfg.UseMockLLM = getBoolEnv("SAYDALI_USE_MOCK_LLM", cfg.GeminiAPIKey == "")

	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("SAYDALI_GCP_PROJECT must be set for the firestore backend")
	}

	return cfg
}
