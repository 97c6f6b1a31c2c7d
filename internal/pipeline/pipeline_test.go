package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nalgeon/be"

	"github.com/slomojustin/newsdigest/internal/db"
	"github.com/slomojustin/newsdigest/internal/types"
)

var day = time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)

// stubDeps returns deps that fetch the given messages, summarize by echoing
// the subject (failing where fail matches), and record sends.
func stubDeps(messages []types.Message, fail func(types.Message) bool, sent *[]string) Deps {
	return Deps{
		Fetch: func() ([]types.Message, error) { return messages, nil },
		Summarize: func(m types.Message) types.Summary {
			if fail != nil && fail(m) {
				return types.Summary{Message: m, Text: "Error generating summary: boom", Errored: true}
			}
			return types.Summary{Message: m, Text: "summary of " + m.Subject}
		},
		Send: func(to, subject, body string) (string, error) {
			*sent = append(*sent, to+"|"+subject)
			return "msg-id", nil
		},
		DefaultRecipient: func() (string, error) { return "self@example.com", nil },
	}
}

func messagesFixture(n int) []types.Message {
	out := make([]types.Message, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, types.Message{
			ID:      fmt.Sprintf("id-%d", i),
			Subject: fmt.Sprintf("Subject %d", i),
			From:    "sender@example.com",
			Date:    "Mon, 24 Aug 2026",
			Body:    "body",
		})
	}
	return out
}

func TestRunHappyPath(t *testing.T) {
	dir := t.TempDir()
	var sent []string
	deps := stubDeps(messagesFixture(3), nil, &sent)

	result, err := Run(deps, Options{Day: day, OutputDir: dir, Quiet: true})
	be.Err(t, err, nil)
	be.Equal(t, result.Fetched, 3)
	be.Equal(t, result.Summarized, 3)
	be.Equal(t, result.Errored, 0)
	be.True(t, result.Sent)
	be.Equal(t, result.Recipient, "self@example.com")

	// Digest file written with one section per message, in order.
	data, err := os.ReadFile(filepath.Join(dir, "newsletter_digest_2026-08-24.md"))
	be.Err(t, err, nil)
	content := string(data)
	be.Equal(t, strings.Count(content, "## "), 3)
	be.True(t, strings.Index(content, "Subject 0") < strings.Index(content, "Subject 2"))

	be.Equal(t, len(sent), 1)
	be.True(t, strings.HasPrefix(sent[0], "self@example.com|Newsletter Digest - 2026-08-24"))
}

func TestRunPartialSummaryFailure(t *testing.T) {
	dir := t.TempDir()
	var sent []string
	fail := func(m types.Message) bool { return m.Subject == "Subject 1" }
	deps := stubDeps(messagesFixture(3), fail, &sent)

	result, err := Run(deps, Options{Day: day, OutputDir: dir, Quiet: true})
	be.Err(t, err, nil)
	be.Equal(t, result.Summarized, 2)
	be.Equal(t, result.Errored, 1)

	// The errored message still has its section, carrying the error text.
	data, _ := os.ReadFile(filepath.Join(dir, "newsletter_digest_2026-08-24.md"))
	content := string(data)
	be.Equal(t, strings.Count(content, "## "), 3)
	be.True(t, strings.Contains(content, "Error generating summary: boom"))
}

func TestRunZeroMessages(t *testing.T) {
	dir := t.TempDir()
	var sent []string
	deps := stubDeps(nil, nil, &sent)

	result, err := Run(deps, Options{Day: day, OutputDir: dir, Quiet: true})
	be.Err(t, err, nil)
	be.Equal(t, result.Fetched, 0)
	be.True(t, !result.Sent)
	be.Equal(t, len(sent), 0)

	// Header-only digest is still written.
	data, err := os.ReadFile(filepath.Join(dir, "newsletter_digest_2026-08-24.md"))
	be.Err(t, err, nil)
	be.Equal(t, strings.Count(string(data), "## "), 0)
}

func TestRunNoSend(t *testing.T) {
	dir := t.TempDir()
	var sent []string
	deps := stubDeps(messagesFixture(1), nil, &sent)

	result, err := Run(deps, Options{Day: day, OutputDir: dir, NoSend: true, Quiet: true})
	be.Err(t, err, nil)
	be.True(t, !result.Sent)
	be.Equal(t, len(sent), 0)
}

func TestRunExplicitRecipient(t *testing.T) {
	dir := t.TempDir()
	var sent []string
	deps := stubDeps(messagesFixture(1), nil, &sent)
	deps.DefaultRecipient = func() (string, error) {
		t.Fatal("default recipient should not be resolved")
		return "", nil
	}

	result, err := Run(deps, Options{Day: day, OutputDir: dir, Recipient: "other@example.com", Quiet: true})
	be.Err(t, err, nil)
	be.Equal(t, result.Recipient, "other@example.com")
	be.True(t, strings.HasPrefix(sent[0], "other@example.com|"))
}

func TestRunFetchFailure(t *testing.T) {
	var sent []string
	deps := stubDeps(nil, nil, &sent)
	deps.Fetch = func() ([]types.Message, error) {
		return nil, &types.TransportError{Op: "list messages", Err: fmt.Errorf("network down")}
	}

	_, err := Run(deps, Options{Day: day, OutputDir: t.TempDir(), Quiet: true})
	be.True(t, err != nil)
	be.Equal(t, len(sent), 0)
}

func TestRunArchives(t *testing.T) {
	dir := t.TempDir()
	store, err := db.Open(filepath.Join(dir, "digests.db"))
	be.Err(t, err, nil)
	defer store.Close()

	var sent []string
	fail := func(m types.Message) bool { return m.Subject == "Subject 0" }
	deps := stubDeps(messagesFixture(2), fail, &sent)

	result, err := Run(deps, Options{Day: day, OutputDir: dir, Quiet: true, Archive: store})
	be.Err(t, err, nil)

	runs, err := store.Runs(10)
	be.Err(t, err, nil)
	be.Equal(t, len(runs), 1)
	be.Equal(t, runs[0].Date, "2026-08-24")
	be.Equal(t, runs[0].Sections, 2)
	be.Equal(t, runs[0].Errored, 1)
	be.Equal(t, runs[0].Sent, 1)
	be.Equal(t, runs[0].FilePath, result.FilePath)

	entries, err := store.Entries(runs[0].ID)
	be.Err(t, err, nil)
	be.Equal(t, len(entries), 2)
	be.Equal(t, entries[0].Subject, "Subject 0")
	be.Equal(t, entries[0].Errored, 1)
	be.Equal(t, entries[1].Subject, "Subject 1")
}
