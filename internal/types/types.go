// Package types defines core data structures for newsdigest.
package types

import "fmt"

// Message represents one labeled email fetched for the digest.
type Message struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Body    string `json:"body,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Summary pairs a message with its generated summary text. When the
// summarizer fails for a message, Text carries the error description and
// Errored is set; the run continues without it.
type Summary struct {
	Message Message `json:"message"`
	Text    string  `json:"text"`
	Errored bool    `json:"errored,omitempty"`
}

// RunResult holds the outcome of one digest run.
type RunResult struct {
	Date       string `json:"date"`
	Fetched    int    `json:"fetched"`
	Summarized int    `json:"summarized"`
	Errored    int    `json:"errored"`
	FilePath   string `json:"file_path,omitempty"`
	Recipient  string `json:"recipient,omitempty"`
	Sent       bool   `json:"sent"`
}

// Run is an archived digest run.
type Run struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Generated string `json:"generated_at"`
	Sections  int    `json:"sections"`
	Errored   int    `json:"errored"`
	Recipient string `json:"recipient,omitempty"`
	Sent      int    `json:"sent"`
	FilePath  string `json:"file_path,omitempty"`
}

// Entry is one archived digest section.
type Entry struct {
	RunID    string `json:"run_id"`
	Position int    `json:"position"`
	Subject  string `json:"subject"`
	From     string `json:"from"`
	Date     string `json:"date"`
	Summary  string `json:"summary"`
	Errored  int    `json:"errored"`
}

// AuthError indicates missing or invalid credentials. Fatal to the run.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// TransportError indicates a network or API failure during fetch or send.
// Fatal for that step.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
