// Package chat talks to the restaurant's conversational booking assistant.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-restaurant/models"
)

var ErrEmptyMessage = errors.New("empty chat message")

const (
	// ErrorReply is shown when the assistant answers with success false.
	ErrorReply = "Sorry, I encountered an error. Please try again."
	// UnavailableReply is shown when the assistant cannot be reached or its
	// answer cannot be read.
	UnavailableReply = "Sorry, I couldn't connect to the server. Please try again later."

	DefaultHistoryLimit = 20
)

// Reply is what the chat window shows for one message.
type Reply struct {
	Text   string
	Action string
	Data   json.RawMessage
	// NeedsConfirmation asks the user to approve the action before it runs.
	NeedsConfirmation bool
	// Failed is set when Text is one of the fixed apologies.
	Failed bool
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithHistoryLimit(n int) Option {
	return func(c *Client) { c.transcript = NewTranscript(n) }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// Client sends messages to the assistant endpoint and keeps the running
// transcript that is echoed back as context. Sends may run concurrently;
// replies are recorded in completion order.
type Client struct {
	endpoint   string
	http       *http.Client
	transcript *Transcript
	log        *zap.Logger
}

func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		http:       &http.Client{Timeout: 15 * time.Second},
		transcript: NewTranscript(DefaultHistoryLimit),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transcript exposes the exchanges recorded so far.
func (c *Client) Transcript() *Transcript {
	return c.transcript
}

// Send posts message with the current transcript. Blank messages return
// ErrEmptyMessage and nothing is sent. Failures never surface as errors:
// the reply carries the apology text instead and is not recorded.
func (c *Client) Send(ctx context.Context, message string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}

	resp, err := c.post(ctx, models.ChatRequest{
		Message: message,
		Context: c.transcript.Exchanges(),
	})
	if err != nil {
		c.log.Error("chat request failed", zap.String("endpoint", c.endpoint), zap.Error(err))
		return Reply{Text: UnavailableReply, Failed: true}, nil
	}
	if !resp.Success {
		c.log.Warn("chat backend reported failure", zap.String("error", resp.Error))
		return Reply{Text: ErrorReply, Failed: true}, nil
	}

	reply := Reply{
		Text:   FormatReply(resp.Response),
		Action: resp.Response.Action,
		Data:   resp.Response.Data,

		NeedsConfirmation: resp.Response.NeedsConfirmation,
	}
	c.transcript.Append(models.Exchange{
		User:   message,
		Bot:    reply.Text,
		Action: reply.Action,
	})
	return reply, nil
}

// post sends body and decodes the envelope whatever the HTTP status; the
// backend reports failures in the body.
func (c *Client) post(ctx context.Context, body models.ChatRequest) (models.ChatResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("send chat request: %w", err)
	}
	defer res.Body.Close()

	var out models.ChatResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return models.ChatResponse{}, fmt.Errorf("decode chat response (status %d): %w", res.StatusCode, err)
	}
	return out, nil
}
