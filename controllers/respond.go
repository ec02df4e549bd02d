package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"go-restaurant/middleware"
)

const requestTimeout = 5 * time.Second

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sessionID reads the session set by the auth middleware, answering 401
// when it is missing.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return session, true
}
