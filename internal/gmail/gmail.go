// Package gmail fetches labeled messages and sends the digest using
// google.golang.org/api/gmail/v1.
package gmail

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	gm "google.golang.org/api/gmail/v1"

	"github.com/slomojustin/newsdigest/internal/types"
)

// DateQuery builds a Gmail search query for messages under label received
// within the last `days` calendar days ending at `day`. days=1 restricts to
// that single day; the boundary is expressed with after:/before: in the
// YYYY/MM/DD form Gmail expects.
func DateQuery(label string, day time.Time, days int) string {
	if days < 1 {
		days = 1
	}
	start := day.AddDate(0, 0, -(days - 1))
	end := day.AddDate(0, 0, 1)
	return fmt.Sprintf("label:%s after:%s before:%s",
		label, start.Format("2006/01/02"), end.Format("2006/01/02"))
}

// FetchLabeled returns full messages matching a Gmail query, in the order
// the API lists them. An empty result is an empty slice, not an error.
// Individual message read failures are reported to stderr and skipped;
// a failed list call is a *types.TransportError.
func FetchLabeled(svc *gm.Service, query string, maxResults int64) ([]types.Message, error) {
	resp, err := svc.Users.Messages.List("me").
		Q(query).
		MaxResults(maxResults).
		Do()
	if err != nil {
		return nil, &types.TransportError{Op: "list messages", Err: err}
	}

	if len(resp.Messages) == 0 {
		return nil, nil
	}

	messages := make([]types.Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		full, err := svc.Users.Messages.Get("me", m.Id).
			Format("full").
			Do()
		if err != nil {
			// Skip individual message failures.
			fmt.Fprintf(os.Stderr, "  ! failed to read %s: %v\n", m.Id, err)
			continue
		}

		headers := headerMap(full.Payload.Headers)
		messages = append(messages, types.Message{
			ID:      full.Id,
			From:    defaultStr(headers["From"], "Unknown"),
			Subject: defaultStr(headers["Subject"], "(No Subject)"),
			Date:    headers["Date"],
			Body:    extractBody(full.Payload),
			Snippet: full.Snippet,
		})
	}

	return messages, nil
}

// Profile returns the authenticated account's email address.
func Profile(svc *gm.Service) (string, error) {
	p, err := svc.Users.GetProfile("me").Do()
	if err != nil {
		return "", &types.TransportError{Op: "get profile", Err: err}
	}
	return p.EmailAddress, nil
}

// extractBody gets the plain text body from a message payload.
// Handles multipart messages recursively, preferring text/plain over
// text/html.
func extractBody(payload *gm.MessagePart) string {
	if payload.Body != nil && payload.Body.Data != "" {
		if decoded, err := decodeBase64URL(payload.Body.Data); err == nil {
			return strings.TrimSpace(decoded)
		}
	}

	// First pass: text/plain, recursing into nested multiparts.
	for _, part := range payload.Parts {
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			if decoded, err := decodeBase64URL(part.Body.Data); err == nil {
				return strings.TrimSpace(decoded)
			}
		}
		if len(part.Parts) > 0 {
			if body := extractBody(part); body != "" {
				return body
			}
		}
	}

	// Second pass: fall back to HTML.
	for _, part := range payload.Parts {
		if part.MimeType == "text/html" && part.Body != nil && part.Body.Data != "" {
			if decoded, err := decodeBase64URL(part.Body.Data); err == nil {
				return strings.TrimSpace(decoded)
			}
		}
	}

	return ""
}

// headerMap converts Gmail API headers into a simple key-value map.
func headerMap(headers []*gm.MessagePartHeader) map[string]string {
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		m[h.Name] = h.Value
	}
	return m
}

// decodeBase64URL decodes Gmail's base64url-encoded content.
func decodeBase64URL(data string) (string, error) {
	data = strings.ReplaceAll(data, "-", "+")
	data = strings.ReplaceAll(data, "_", "/")
	// Add padding if needed.
	switch len(data) % 4 {
	case 2:
		data += "=="
	case 3:
		data += "="
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func defaultStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
