package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/slomojustin/newsdigest/internal/config"
	"github.com/slomojustin/newsdigest/internal/types"
)

const callbackPath = "/oauth/callback"

// Authorize runs the interactive consent flow: it starts a temporary
// loopback HTTP server, prints the consent URL for the user to open,
// captures the authorization code and persists the resulting token.
//
// This is the only place a browser step happens; steady-state runs load
// and refresh the stored token without user interaction.
func Authorize(ctx context.Context, cfg *config.Config) error {
	oc, err := loadOAuthConfig(cfg.CredentialsPath)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return &types.AuthError{Op: "start callback listener", Err: err}
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	oc.RedirectURL = fmt.Sprintf("http://localhost:%d%s", port, callbackPath)

	state := randomState()
	url := oc.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Printf("Open this URL in your browser to authorize:\n\n  %s\n\n", url)
	fmt.Println("Waiting for authorization...")

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errCh <- fmt.Errorf("state mismatch in callback")
			return
		}
		if errMsg := r.URL.Query().Get("error"); errMsg != "" {
			http.Error(w, "authorization declined", http.StatusBadRequest)
			errCh <- fmt.Errorf("consent declined: %s", errMsg)
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "code missing", http.StatusBadRequest)
			errCh <- fmt.Errorf("no code in callback")
			return
		}
		fmt.Fprint(w, "Authorization received. You can close this tab.")
		codeCh <- code
	})

	srv := &http.Server{Handler: mux}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return &types.AuthError{Op: "consent flow", Err: err}
	case <-ctx.Done():
		return &types.AuthError{Op: "consent flow", Err: ctx.Err()}
	}

	token, err := oc.Exchange(ctx, code)
	if err != nil {
		return &types.AuthError{Op: "exchange code", Err: err}
	}

	if err := saveToken(cfg.TokenPath, token, oc); err != nil {
		return &types.AuthError{Op: "save token", Err: err}
	}
	return nil
}

// randomState returns an unguessable state parameter for the consent URL.
func randomState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}
