// Package storage persists cart state, theme preference and checkout
// snapshots in a key-value store.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// KV is a durable key-value store
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Logical keys, namespaced per session.
const (
	CartKey     = "restaurantCart"
	ThemeKey    = "theme"
	CheckoutKey = "checkoutCart"
)

func sessionKey(session, key string) string {
	if session == "" {
		return key
	}
	return session + ":" + key
}
