// Package pipeline runs the digest sequence: fetch, summarize, build,
// save, send, archive.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/slomojustin/newsdigest/internal/db"
	"github.com/slomojustin/newsdigest/internal/digest"
	"github.com/slomojustin/newsdigest/internal/display"
	"github.com/slomojustin/newsdigest/internal/types"
)

// Deps are the external operations the pipeline sequences. They are plain
// functions so tests can stub the Gmail and summarizer clients.
type Deps struct {
	// Fetch returns the day's labeled messages in mailbox order.
	Fetch func() ([]types.Message, error)
	// Summarize produces a summary for one message, absorbing failures.
	Summarize func(types.Message) types.Summary
	// Send transmits the digest and returns the sent message ID.
	Send func(to, subject, body string) (string, error)
	// DefaultRecipient resolves the account's own address when no
	// recipient is configured.
	DefaultRecipient func() (string, error)
}

// Options control one run.
type Options struct {
	Day       time.Time
	OutputDir string
	Recipient string // empty means DefaultRecipient
	NoSend    bool
	Quiet     bool
	Archive   *db.DB // optional run archive
}

// Run executes the pipeline once. Summarizer failures degrade single
// sections; fetch and send failures abort with an error.
func Run(deps Deps, opts Options) (*types.RunResult, error) {
	result := &types.RunResult{Date: opts.Day.Format("2006-01-02")}

	if !opts.Quiet {
		display.Step("Fetching labeled messages...")
	}
	messages, err := deps.Fetch()
	if err != nil {
		return nil, err
	}
	result.Fetched = len(messages)
	if !opts.Quiet {
		fmt.Printf("  Found %d message(s)\n", len(messages))
	}

	summaries := make([]types.Summary, 0, len(messages))
	for i, msg := range messages {
		if !opts.Quiet {
			display.Step("Summarizing %d/%d: %s", i+1, len(messages),
				display.Truncate(msg.Subject, 50))
		}
		s := deps.Summarize(msg)
		if s.Errored {
			result.Errored++
			if !opts.Quiet {
				display.WarnMsg("summary failed: %s", display.Truncate(s.Text, 80))
			}
		} else {
			result.Summarized++
		}
		summaries = append(summaries, s)
	}

	generated := time.Now()
	markdown := digest.Build(summaries, opts.Day, generated)

	path := filepath.Join(opts.OutputDir, digest.Filename(opts.Day))
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return nil, fmt.Errorf("write digest: %w", err)
	}
	result.FilePath = path
	if !opts.Quiet {
		display.SuccessMsg("Digest saved to %s", path)
	}

	// Nothing fetched: keep the header-only file but skip the email.
	sendable := len(messages) > 0 && !opts.NoSend
	if sendable {
		recipient := opts.Recipient
		if recipient == "" {
			recipient, err = deps.DefaultRecipient()
			if err != nil {
				return nil, err
			}
		}
		result.Recipient = recipient

		if !opts.Quiet {
			display.Step("Sending digest to %s...", recipient)
		}
		id, err := deps.Send(recipient, digest.Subject(opts.Day), digest.PlainText(markdown))
		if err != nil {
			return nil, err
		}
		result.Sent = true
		if !opts.Quiet {
			display.SuccessMsg("Digest sent (message %s)", id)
		}
	}

	if opts.Archive != nil {
		if err := archive(opts.Archive, result, summaries, generated); err != nil {
			// The digest already exists on disk; archiving is best effort.
			display.ErrorMsg("archive run: %v", err)
		}
	}

	return result, nil
}

// archive stores the run and its sections in the local database.
func archive(store *db.DB, result *types.RunResult, summaries []types.Summary, generated time.Time) error {
	run := &types.Run{
		ID:        db.GenID(),
		Date:      result.Date,
		Generated: generated.UTC().Format(time.RFC3339),
		Sections:  len(summaries),
		Errored:   result.Errored,
		Recipient: result.Recipient,
		FilePath:  result.FilePath,
	}
	if result.Sent {
		run.Sent = 1
	}

	entries := make([]types.Entry, 0, len(summaries))
	for i, s := range summaries {
		errored := 0
		if s.Errored {
			errored = 1
		}
		entries = append(entries, types.Entry{
			RunID:    run.ID,
			Position: i,
			Subject:  s.Message.Subject,
			From:     s.Message.From,
			Date:     s.Message.Date,
			Summary:  s.Text,
			Errored:  errored,
		})
	}

	return store.InsertRun(run, entries)
}
