package config

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"ND_LABEL", "ND_MODEL", "HF_API_KEY", "HUGGINGFACE_API_KEY",
		"RECIPIENT_EMAIL", "ND_CREDENTIALS", "ND_TOKEN", "ND_OUTPUT_DIR",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	be.Equal(t, cfg.Label, DefaultLabel)
	be.Equal(t, cfg.Model, DefaultModel)
	be.Equal(t, cfg.CredentialsPath, "credentials.json")
	be.Equal(t, cfg.TokenPath, "token.json")
	be.Equal(t, cfg.OutputDir, ".")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ND_LABEL", "Reading")
	t.Setenv("ND_MODEL", "facebook/bart-large-cnn")
	t.Setenv("RECIPIENT_EMAIL", "me@example.com")
	t.Setenv("ND_OUTPUT_DIR", "/tmp/digests")

	cfg := Load()
	be.Equal(t, cfg.Label, "Reading")
	be.Equal(t, cfg.Model, "facebook/bart-large-cnn")
	be.Equal(t, cfg.Recipient, "me@example.com")
	be.Equal(t, cfg.OutputDir, "/tmp/digests")
}

func TestAPIKeyFallback(t *testing.T) {
	t.Setenv("HF_API_KEY", "")
	t.Setenv("HUGGINGFACE_API_KEY", "hf-alt")

	cfg := Load()
	be.Equal(t, cfg.HFAPIKey, "hf-alt")

	t.Setenv("HF_API_KEY", "hf-primary")
	cfg = Load()
	be.Equal(t, cfg.HFAPIKey, "hf-primary")
}
