package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"go-restaurant/models"
	"go-restaurant/storage"
)

// ThemeController persists each session's light/dark preference
type ThemeController struct {
	KV  storage.KV
	Log *zap.Logger
}

// NewThemeController creates a new ThemeController
func NewThemeController(kv storage.KV, log *zap.Logger) *ThemeController {
	return &ThemeController{KV: kv, Log: log}
}

type themeBody struct {
	Theme string `json:"theme"`
}

func (tc *ThemeController) themes(w http.ResponseWriter, r *http.Request) (*storage.ThemeStore, bool) {
	session, ok := sessionID(w, r)
	if !ok {
		return nil, false
	}
	return storage.NewThemeStore(tc.KV, session, tc.Log), true
}

// GetTheme returns the stored preference, light by default
func (tc *ThemeController) GetTheme(w http.ResponseWriter, r *http.Request) {
	themes, ok := tc.themes(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	respondJSON(w, http.StatusOK, themeBody{Theme: string(themes.Load(ctx))})
}

// SetTheme stores "light" or "dark"
func (tc *ThemeController) SetTheme(w http.ResponseWriter, r *http.Request) {
	var body themeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	theme, err := models.ParseTheme(body.Theme)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	themes, ok := tc.themes(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := themes.Save(ctx, theme); err != nil {
		tc.Log.Error("save theme", zap.Error(err))
		http.Error(w, "Error saving theme", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, themeBody{Theme: string(theme)})
}

// ToggleTheme flips between light and dark
func (tc *ThemeController) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	themes, ok := tc.themes(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	theme, err := themes.Toggle(ctx)
	if err != nil {
		tc.Log.Error("toggle theme", zap.Error(err))
		http.Error(w, "Error saving theme", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, themeBody{Theme: string(theme)})
}
