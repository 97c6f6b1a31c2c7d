package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"

	gm "google.golang.org/api/gmail/v1"

	"github.com/slomojustin/newsdigest/internal/types"
)

// Send transmits a plain-text email from the authenticated account.
// Returns the sent message ID, or a *types.TransportError on failure.
func Send(svc *gm.Service, to, subject, body string) (string, error) {
	raw := EncodeRaw(to, subject, body)
	sent, err := svc.Users.Messages.Send("me", &gm.Message{Raw: raw}).Do()
	if err != nil {
		return "", &types.TransportError{Op: "send message", Err: err}
	}
	return sent.Id, nil
}

// EncodeRaw builds an RFC 2822 message and encodes it the way the Gmail API
// expects: URL-safe base64 without padding.
func EncodeRaw(to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return base64.RawURLEncoding.EncodeToString([]byte(b.String()))
}
