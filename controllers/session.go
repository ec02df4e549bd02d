package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"go-restaurant/utils"
)

// SessionController issues anonymous storefront sessions
type SessionController struct {
	Tokens *utils.SessionTokens
	Log    *zap.Logger
}

// NewSessionController creates a new SessionController
func NewSessionController(tokens *utils.SessionTokens, log *zap.Logger) *SessionController {
	return &SessionController{Tokens: tokens, Log: log}
}

// CreateSession starts a session and returns its bearer token
func (sc *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	session, token, err := sc.Tokens.Issue()
	if err != nil {
		sc.Log.Error("issue session token", zap.Error(err))
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{
		"token":     token,
		"sessionId": session,
	})
}
