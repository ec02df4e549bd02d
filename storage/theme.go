package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"go-restaurant/models"
)

// ThemeStore persists a session's light/dark preference.
type ThemeStore struct {
	kv      KV
	session string
	log     *zap.Logger
}

func NewThemeStore(kv KV, session string, log *zap.Logger) *ThemeStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &ThemeStore{kv: kv, session: session, log: log}
}

// Load returns the saved theme, defaulting to light.
func (s *ThemeStore) Load(ctx context.Context) models.Theme {
	data, err := s.kv.Get(ctx, sessionKey(s.session, ThemeKey))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("theme load failed", zap.String("session", s.session), zap.Error(err))
		}
		return models.ThemeLight
	}
	theme, err := models.ParseTheme(string(data))
	if err != nil {
		return models.ThemeLight
	}
	return theme
}

func (s *ThemeStore) Save(ctx context.Context, theme models.Theme) error {
	if _, err := models.ParseTheme(string(theme)); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, sessionKey(s.session, ThemeKey), []byte(theme)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// Toggle switches between light and dark and returns the new value.
func (s *ThemeStore) Toggle(ctx context.Context) (models.Theme, error) {
	next := s.Load(ctx).Toggle()
	if err := s.Save(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
