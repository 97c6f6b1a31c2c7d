package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/nalgeon/be"

	"github.com/slomojustin/newsdigest/internal/types"
)

var (
	day       = time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	generated = time.Date(2026, 8, 24, 7, 30, 0, 0, time.UTC)
)

func TestBuildEmpty(t *testing.T) {
	got := Build(nil, day, generated)

	be.True(t, strings.HasPrefix(got, "# Newsletter Digest - 2026-08-24\n"))
	be.True(t, strings.Contains(got, "*Generated on 2026-08-24 07:30:00*"))
	// Header only: one horizontal rule, no sections.
	be.Equal(t, strings.Count(got, "## "), 0)
	be.Equal(t, strings.Count(got, "---"), 1)
}

func TestBuildSections(t *testing.T) {
	summaries := []types.Summary{
		{Message: types.Message{Subject: "First", From: "a@example.com", Date: "Mon, 24 Aug 2026"}, Text: "summary one"},
		{Message: types.Message{Subject: "Second", From: "b@example.com", Date: "Mon, 24 Aug 2026"}, Text: "summary two"},
		{Message: types.Message{Subject: "Third", From: "c@example.com", Date: "Mon, 24 Aug 2026"}, Text: "Error generating summary: rate limited", Errored: true},
	}

	got := Build(summaries, day, generated)

	be.Equal(t, strings.Count(got, "## "), 3)

	// Sections preserve fetch order.
	first := strings.Index(got, "## First")
	second := strings.Index(got, "## Second")
	third := strings.Index(got, "## Third")
	be.True(t, first > 0 && first < second && second < third)

	be.True(t, strings.Contains(got, "**From:** a@example.com"))
	be.True(t, strings.Contains(got, "**Summary:**\nsummary one"))
	// An errored summary still renders as a section.
	be.True(t, strings.Contains(got, "Error generating summary: rate limited"))
}

func TestBuildDeterministic(t *testing.T) {
	summaries := []types.Summary{
		{Message: types.Message{Subject: "S", From: "f", Date: "d"}, Text: "t"},
	}
	be.Equal(t, Build(summaries, day, generated), Build(summaries, day, generated))
}

func TestFilename(t *testing.T) {
	be.Equal(t, Filename(day), "newsletter_digest_2026-08-24.md")
}

func TestSubject(t *testing.T) {
	be.Equal(t, Subject(day), "Newsletter Digest - 2026-08-24")
}

func TestPlainText(t *testing.T) {
	md := Build([]types.Summary{
		{Message: types.Message{Subject: "Hello", From: "a@example.com", Date: "d"}, Text: "world"},
	}, day, generated)

	plain := PlainText(md)
	be.True(t, !strings.Contains(plain, "**"))
	be.True(t, !strings.Contains(plain, "#"))
	be.True(t, strings.Contains(plain, "From: a@example.com"))
	be.True(t, strings.Contains(plain, "world"))
}
