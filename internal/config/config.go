// Package config loads newsdigest settings from .env files and environment
// variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Defaults matching the original script behavior.
const (
	DefaultLabel = "Newsletters"
	DefaultModel = "sshleifer/distilbart-cnn-12-6"
)

// Config holds all settings for a digest run.
type Config struct {
	Label           string // Gmail label to digest
	Model           string // Hugging Face summarization model
	HFAPIKey        string // optional; public API works with lower rate limits
	Recipient       string // digest recipient; empty means the account's own address
	CredentialsPath string // OAuth client config (credentials.json)
	TokenPath       string // persisted OAuth token (token.json)
	OutputDir       string // where dated digest files are written
	DBPath          string // run archive database
}

// Load reads .env (if present) and assembles a Config from the environment.
func Load() *Config {
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()
	defaultDB := filepath.Join(home, ".newsdigest", "digests.db")

	apiKey := os.Getenv("HF_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("HUGGINGFACE_API_KEY")
	}

	return &Config{
		Label:           getEnv("ND_LABEL", DefaultLabel),
		Model:           getEnv("ND_MODEL", DefaultModel),
		HFAPIKey:        apiKey,
		Recipient:       os.Getenv("RECIPIENT_EMAIL"),
		CredentialsPath: getEnv("ND_CREDENTIALS", "credentials.json"),
		TokenPath:       getEnv("ND_TOKEN", "token.json"),
		OutputDir:       getEnv("ND_OUTPUT_DIR", "."),
		DBPath:          getEnv("ND_DB", defaultDB),
	}
}

// getEnv returns the environment value for key, or fallback when unset or
// empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
