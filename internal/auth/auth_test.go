package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nalgeon/be"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/slomojustin/newsdigest/internal/config"
	"github.com/slomojustin/newsdigest/internal/types"
)

const clientConfig = `{
  "installed": {
    "client_id": "client-id.apps.googleusercontent.com",
    "client_secret": "secret",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "redirect_uris": ["http://localhost"]
  }
}`

func writeFixtures(t *testing.T, tokenExpiry time.Time) *config.Config {
	t.Helper()
	dir := t.TempDir()

	credPath := filepath.Join(dir, "credentials.json")
	be.Err(t, os.WriteFile(credPath, []byte(clientConfig), 0o600), nil)

	tokenPath := filepath.Join(dir, "token.json")
	oc, err := google.ConfigFromJSON([]byte(clientConfig), Scopes...)
	be.Err(t, err, nil)
	be.Err(t, saveToken(tokenPath, &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       tokenExpiry,
	}, oc), nil)

	return &config.Config{CredentialsPath: credPath, TokenPath: tokenPath}
}

func TestTokenRoundTrip(t *testing.T) {
	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	cfg := writeFixtures(t, expiry)

	token, err := loadToken(cfg.TokenPath)
	be.Err(t, err, nil)
	be.Equal(t, token.AccessToken, "access")
	be.Equal(t, token.RefreshToken, "refresh")
	be.True(t, token.Expiry.Equal(expiry))
}

func TestLoadTokenPythonFormat(t *testing.T) {
	// Tokens written by the Python google-auth library carry microsecond
	// precision and no client fields worth keeping.
	dir := t.TempDir()
	tokenPath := filepath.Join(dir, "token.json")
	data := `{
  "token": "py-access",
  "refresh_token": "py-refresh",
  "token_uri": "https://oauth2.googleapis.com/token",
  "client_id": "x",
  "client_secret": "y",
  "scopes": ["https://www.googleapis.com/auth/gmail.readonly"],
  "expiry": "2030-01-02T03:04:05.123456Z"
}`
	be.Err(t, os.WriteFile(tokenPath, []byte(data), 0o600), nil)

	token, err := loadToken(tokenPath)
	be.Err(t, err, nil)
	be.Equal(t, token.AccessToken, "py-access")
	be.Equal(t, token.Expiry.Year(), 2030)
}

func TestLoadServiceWithValidToken(t *testing.T) {
	// A valid stored token authenticates without any consent flow.
	cfg := writeFixtures(t, time.Now().Add(time.Hour))

	svc, err := LoadService(context.Background(), cfg)
	be.Err(t, err, nil)
	be.True(t, svc != nil)
}

func TestLoadServiceMissingClientConfig(t *testing.T) {
	cfg := &config.Config{
		CredentialsPath: filepath.Join(t.TempDir(), "missing.json"),
		TokenPath:       filepath.Join(t.TempDir(), "token.json"),
	}

	_, err := LoadService(context.Background(), cfg)
	var authErr *types.AuthError
	be.True(t, errors.As(err, &authErr))
}

func TestLoadServiceMissingToken(t *testing.T) {
	cfg := writeFixtures(t, time.Now().Add(time.Hour))
	be.Err(t, os.Remove(cfg.TokenPath), nil)

	_, err := LoadService(context.Background(), cfg)
	var authErr *types.AuthError
	be.True(t, errors.As(err, &authErr))
	be.True(t, authErr.Op == "load token")
}
