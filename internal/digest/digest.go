// Package digest renders per-message summaries into a markdown document.
package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/slomojustin/newsdigest/internal/types"
)

// Build renders the digest markdown for one calendar day. It is pure
// formatting: identical inputs produce identical output. With no summaries
// the document is just the header.
func Build(summaries []types.Summary, day, generated time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Newsletter Digest - %s\n\n", day.Format("2006-01-02"))
	fmt.Fprintf(&b, "*Generated on %s*\n\n", generated.Format("2006-01-02 15:04:05"))
	b.WriteString("---\n\n")

	for _, s := range summaries {
		fmt.Fprintf(&b, "## %s\n\n", s.Message.Subject)
		fmt.Fprintf(&b, "**From:** %s\n\n", s.Message.From)
		fmt.Fprintf(&b, "**Date:** %s\n\n", s.Message.Date)
		fmt.Fprintf(&b, "**Summary:**\n%s\n\n", s.Text)
		b.WriteString("---\n\n")
	}

	return b.String()
}

// Filename returns the dated output file name for a digest.
func Filename(day time.Time) string {
	return fmt.Sprintf("newsletter_digest_%s.md", day.Format("2006-01-02"))
}

// Subject returns the email subject line for a digest.
func Subject(day time.Time) string {
	return fmt.Sprintf("Newsletter Digest - %s", day.Format("2006-01-02"))
}

// PlainText strips markdown emphasis and headings for the email body.
func PlainText(markdown string) string {
	text := strings.ReplaceAll(markdown, "**", "")
	text = strings.ReplaceAll(text, "#", "")
	return text
}
