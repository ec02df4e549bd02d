package models

import "encoding/json"

// Exchange is one user message and the bot's formatted answer
type Exchange struct {
	User   string `json:"user"`
	Bot    string `json:"bot"`
	Action string `json:"action,omitempty"`
}

// ChatRequest is the body POSTed to the chat endpoint
type ChatRequest struct {
	Message string     `json:"message"`
	Context []Exchange `json:"context"`
}

// ChatResponse is the envelope returned by the chat endpoint
type ChatResponse struct {
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
	Response ChatReply `json:"response"`
}

// ChatReply is the bot's structured answer
type ChatReply struct {
	Action            string          `json:"action,omitempty"`
	Message           string          `json:"message"`
	Data              json.RawMessage `json:"data,omitempty"`
	NeedsConfirmation bool            `json:"needs_confirmation,omitempty"`
}

// HasData reports whether the reply carries a non-null data object.
func (r ChatReply) HasData() bool {
	return len(r.Data) > 0 && string(r.Data) != "null"
}
