package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"go-restaurant/models"
)

// CartRepository reads and writes one session's cart and checkout snapshot.
type CartRepository struct {
	kv      KV
	session string
	log     *zap.Logger
}

// NewCartRepository scopes kv to session. An empty session uses the bare keys.
func NewCartRepository(kv KV, session string, log *zap.Logger) *CartRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartRepository{
		kv:      kv,
		session: session,
		log:     log.With(zap.String("session", session)),
	}
}

// Load returns the stored items. A missing or corrupt entry yields an empty
// cart and is only logged; a failing backend is returned so callers never
// mistake an unreadable cart for an empty one.
func (r *CartRepository) Load(ctx context.Context) ([]models.LineItem, error) {
	data, err := r.kv.Get(ctx, sessionKey(r.session, CartKey))
	if errors.Is(err, ErrNotFound) {
		return []models.LineItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var items []models.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		r.log.Warn("stored cart is corrupt, starting empty", zap.Error(err))
		return []models.LineItem{}, nil
	}
	return sanitize(items, r.log), nil
}

// sanitize drops lines that would break the cart invariants: duplicate ids
// keep their first occurrence and non-positive quantities are removed.
func sanitize(items []models.LineItem, log *zap.Logger) []models.LineItem {
	seen := make(map[models.ItemID]struct{}, len(items))
	clean := make([]models.LineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			log.Warn("dropping stored line with invalid quantity", zap.String("item_id", string(item.ID)), zap.Int("quantity", item.Quantity))
			continue
		}
		if _, dup := seen[item.ID]; dup {
			log.Warn("dropping duplicate stored line", zap.String("item_id", string(item.ID)))
			continue
		}
		seen[item.ID] = struct{}{}
		clean = append(clean, item)
	}
	return clean
}

// Save serializes items and writes them. Write failures are returned so the
// caller can keep its previous state.
func (r *CartRepository) Save(ctx context.Context, items []models.LineItem) error {
	if items == nil {
		items = []models.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.kv.Set(ctx, sessionKey(r.session, CartKey), data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// PrepareCheckoutSnapshot writes the one-shot handoff read by the booking flow.
func (r *CartRepository) PrepareCheckoutSnapshot(ctx context.Context, snapshot models.CheckoutSnapshot) error {
	if snapshot.Items == nil {
		snapshot.Items = []models.LineItem{}
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode checkout snapshot: %w", err)
	}
	if err := r.kv.Set(ctx, sessionKey(r.session, CheckoutKey), data); err != nil {
		return fmt.Errorf("save checkout snapshot: %w", err)
	}
	return nil
}

// TakeCheckoutSnapshot reads the snapshot and removes it. It returns
// ErrNotFound when no checkout is pending.
func (r *CartRepository) TakeCheckoutSnapshot(ctx context.Context) (models.CheckoutSnapshot, error) {
	key := sessionKey(r.session, CheckoutKey)
	data, err := r.kv.Get(ctx, key)
	if err != nil {
		return models.CheckoutSnapshot{}, err
	}

	var snapshot models.CheckoutSnapshot
	decodeErr := json.Unmarshal(data, &snapshot)

	if err := r.kv.Delete(ctx, key); err != nil {
		r.log.Warn("checkout snapshot not removed", zap.Error(err))
	}
	if decodeErr != nil {
		return models.CheckoutSnapshot{}, fmt.Errorf("decode checkout snapshot: %w", decodeErr)
	}
	return snapshot, nil
}
