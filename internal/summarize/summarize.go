// Package summarize generates short prose summaries of email bodies via
// the Hugging Face Inference API.
//
// Failures are absorbed per message: a rate limit or API error becomes the
// summary text for that message instead of aborting the run.
package summarize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/slomojustin/newsdigest/internal/types"
)

const (
	defaultBaseURL = "https://api-inference.huggingface.co"

	// MaxInputLen is the per-request character budget. The summarization
	// models top out around 1024 tokens (~4000 chars); 2000 keeps a margin.
	MaxInputLen = 2000
	// ChunkSize and ChunkOverlap control how long bodies are split.
	ChunkSize    = 2000
	ChunkOverlap = 200
)

// Client calls a Hugging Face summarization model.
type Client struct {
	http  *resty.Client
	model string
}

// New returns a Client for the given model. apiKey may be empty; the public
// API works without one at lower rate limits.
func New(model, apiKey string) *Client {
	c := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(60 * time.Second).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return &Client{http: c, model: model}
}

// SetBaseURL overrides the inference endpoint. Used by tests.
func (c *Client) SetBaseURL(url string) {
	c.http.SetBaseURL(url)
}

// SummarizeMessage returns a Summary for one message. The body is truncated
// to MaxInputLen before submission; bodies beyond the budget are chunked and
// every other chunk is summarized for roughly half coverage. Errors are
// returned as the summary text with Errored set.
func (c *Client) SummarizeMessage(msg types.Message) types.Summary {
	body := msg.Body
	if body == "" {
		body = msg.Snippet
	}

	if len(body) <= MaxInputLen {
		text, err := c.summarizeText(frame(msg.From, msg.Subject, body))
		if err != nil {
			return types.Summary{
				Message: msg,
				Text:    fmt.Sprintf("Error generating summary: %v", err),
				Errored: true,
			}
		}
		return types.Summary{Message: msg, Text: text}
	}

	// Long body: summarize alternating chunks and join the partial
	// summaries.
	chunks := splitChunks(body)
	var parts []string
	for i := 0; i < len(chunks); i += 2 {
		text, err := c.summarizeText(frame(msg.From, msg.Subject, chunks[i]))
		if err != nil {
			continue
		}
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return types.Summary{
			Message: msg,
			Text:    "Error: could not generate any chunk summaries",
			Errored: true,
		}
	}
	return types.Summary{Message: msg, Text: strings.Join(parts, " ")}
}

// summarizeText submits one text to the model and returns the summary.
func (c *Client) summarizeText(text string) (string, error) {
	var result []struct {
		SummaryText string `json:"summary_text"`
	}

	resp, err := c.http.R().
		SetBody(map[string]string{"inputs": text}).
		Post("/models/" + c.model)
	if err != nil {
		return "", fmt.Errorf("summarization request: %w", err)
	}

	if resp.IsError() {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("summarization API: %s (status %d)", apiErr.Error, resp.StatusCode())
		}
		return "", fmt.Errorf("summarization API: status %d", resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil || len(result) == 0 {
		return "", fmt.Errorf("unexpected summarization response")
	}

	summary := strings.TrimSpace(result[0].SummaryText)
	if summary == "" {
		return "", fmt.Errorf("empty summary returned")
	}
	return summary, nil
}

// frame prefixes the body with sender and subject so the model sees the
// email context.
func frame(from, subject, body string) string {
	return fmt.Sprintf("Newsletter Email\n\nFrom: %s\nSubject: %s\n\n%s", from, subject, body)
}

// splitChunks splits a body into ChunkSize pieces with ChunkOverlap
// characters of context carried between neighbors.
func splitChunks(body string) []string {
	var chunks []string
	start := 0
	for start < len(body) {
		end := start + ChunkSize
		if end > len(body) {
			end = len(body)
		}
		if chunk := body[start:end]; strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(body) {
			break
		}
		start = end - ChunkOverlap
	}
	return chunks
}
