// Package auth provides Google OAuth2 authentication for newsdigest.
//
// It reads the same credentials.json and token.json files used by the
// Python google-auth library, so existing tokens work without
// re-authentication.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/slomojustin/newsdigest/internal/config"
	"github.com/slomojustin/newsdigest/internal/types"
)

// Scopes matching the original script: read labeled mail, send the digest.
var Scopes = []string{
	gmail.GmailReadonlyScope,
	gmail.GmailSendScope,
}

// pythonToken represents the token.json format written by Python's
// google-auth library.
type pythonToken struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	TokenURI     string   `json:"token_uri"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
	Expiry       string   `json:"expiry"`
}

// LoadService returns an authenticated Gmail API service using the stored
// token, refreshing it as needed. It never launches the interactive consent
// flow; when no usable token exists it returns a *types.AuthError telling
// the user to run 'nd auth'.
func LoadService(ctx context.Context, cfg *config.Config) (*gmail.Service, error) {
	client, err := getClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, &types.AuthError{Op: "create gmail service", Err: err}
	}
	return svc, nil
}

// getClient returns an authenticated HTTP client by loading the OAuth config
// from credentials.json and the token from token.json.
func getClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	oc, err := loadOAuthConfig(cfg.CredentialsPath)
	if err != nil {
		return nil, err
	}

	token, err := loadToken(cfg.TokenPath)
	if err != nil {
		return nil, &types.AuthError{
			Op:  "load token",
			Err: fmt.Errorf("%w — run 'nd auth' to authorize", err),
		}
	}

	// Use a token source that auto-refreshes and save the refreshed token.
	ts := oc.TokenSource(ctx, token)
	newToken, err := ts.Token()
	if err != nil {
		return nil, &types.AuthError{
			Op:  "refresh token",
			Err: fmt.Errorf("%w — run 'nd auth' to re-authorize", err),
		}
	}

	if newToken.AccessToken != token.AccessToken {
		if saveErr := saveToken(cfg.TokenPath, newToken, oc); saveErr != nil {
			// Non-fatal: log but don't fail.
			fmt.Fprintf(os.Stderr, "warning: could not save refreshed token: %v\n", saveErr)
		}
	}

	return oauth2.NewClient(ctx, ts), nil
}

// loadOAuthConfig reads credentials.json and returns an OAuth2 config.
func loadOAuthConfig(credentialsPath string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, &types.AuthError{
			Op:  "read client config",
			Err: fmt.Errorf("%w — download credentials.json from Google Cloud Console", err),
		}
	}

	oc, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, &types.AuthError{Op: "parse client config", Err: err}
	}

	return oc, nil
}

// loadToken reads a token.json file in Python google-auth format and
// converts it to a Go oauth2.Token.
func loadToken(tokenPath string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}

	var pt pythonToken
	if err := json.Unmarshal(data, &pt); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	// Parse expiry time. Python writes ISO 8601 with microseconds.
	var expiry time.Time
	if pt.Expiry != "" {
		for _, layout := range []string{
			"2006-01-02T15:04:05.999999Z",
			"2006-01-02T15:04:05Z",
			time.RFC3339,
			time.RFC3339Nano,
		} {
			if t, err := time.Parse(layout, pt.Expiry); err == nil {
				expiry = t
				break
			}
		}
	}

	return &oauth2.Token{
		AccessToken:  pt.Token,
		RefreshToken: pt.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       expiry,
	}, nil
}

// saveToken writes a token in the Python google-auth format so the original
// script can still use it.
func saveToken(tokenPath string, token *oauth2.Token, oc *oauth2.Config) error {
	pt := pythonToken{
		Token:        token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenURI:     oc.Endpoint.TokenURL,
		ClientID:     oc.ClientID,
		ClientSecret: oc.ClientSecret,
		Scopes:       Scopes,
		Expiry:       token.Expiry.UTC().Format("2006-01-02T15:04:05.999999Z"),
	}

	data, err := json.MarshalIndent(pt, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(tokenPath, data, 0o600)
}
