package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-restaurant/models"
	"go-restaurant/pricing"
)

// ErrEmptyCart is returned by Checkout when there is nothing to hand off.
var ErrEmptyCart = errors.New("cart is empty")

// CheckoutRedirect is where the booking flow picks up a checkout snapshot.
const CheckoutRedirect = "/booking.html?checkout=true"

// ErrQuantityOverflow is returned when a change would push a line's quantity
// past the largest int. The line is left as it was.
var ErrQuantityOverflow = errors.New("quantity out of range")

// Repository persists a cart. Load treats a missing or corrupt cart as empty
// and returns an error only when the backend cannot be read.
type Repository interface {
	Load(ctx context.Context) ([]models.LineItem, error)
	Save(ctx context.Context, items []models.LineItem) error
	PrepareCheckoutSnapshot(ctx context.Context, snapshot models.CheckoutSnapshot) error
}

// Listener receives the committed items after every state change.
type Listener func(items []models.LineItem)

// AddedHook is called with the resulting line after a successful Add.
type AddedHook func(line models.LineItem)

// AddedMessage is the confirmation shown after adding item.
func AddedMessage(line models.LineItem) string {
	return fmt.Sprintf("%s added to cart!", line.Name)
}

// Option configures a Store.
type Option func(*Store)

func WithAddedHook(hook AddedHook) Option {
	return func(s *Store) { s.added = hook }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

type subscription struct {
	id int
	fn Listener
}

// Store is the single authority over one session's cart. Every mutation is
// written through to the repository before it becomes visible.
type Store struct {
	mu        sync.Mutex
	repo      Repository
	items     []models.LineItem
	listeners []subscription
	nextID    int

	added AddedHook
	now   func() time.Time
	log   *zap.Logger
}

// Open loads the persisted cart from repo. A read failure is returned rather
// than starting empty, since the first write would replace the stored cart.
func Open(ctx context.Context, repo Repository, opts ...Option) (*Store, error) {
	s := &Store{
		repo: repo,
		now:  time.Now,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	items, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.LineItem{}
	}
	s.items = items
	return s, nil
}

func (s *Store) copyItems() []models.LineItem {
	out := make([]models.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// apply runs change on a copy of the items, persists the result and then
// commits it. change reports false to leave the cart untouched. Listeners run
// after the lock is released.
func (s *Store) apply(ctx context.Context, change func(items []models.LineItem) ([]models.LineItem, bool)) error {
	s.mu.Lock()
	next, changed := change(s.copyItems())
	if !changed {
		s.mu.Unlock()
		return nil
	}
	if next == nil {
		next = []models.LineItem{}
	}
	if err := s.repo.Save(ctx, next); err != nil {
		s.mu.Unlock()
		s.log.Error("cart write failed, keeping previous state", zap.Error(err))
		return err
	}
	s.items = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, sub := range s.listeners {
		listeners = append(listeners, sub.fn)
	}
	items := s.copyItems()
	s.mu.Unlock()

	for _, l := range listeners {
		l(items)
	}
	return nil
}

func indexOf(items []models.LineItem, id models.ItemID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// Add increments the line for item, appending it with quantity one when absent.
func (s *Store) Add(ctx context.Context, item models.CatalogItem) error {
	var line models.LineItem
	var overflow bool
	err := s.apply(ctx, func(items []models.LineItem) ([]models.LineItem, bool) {
		if i := indexOf(items, item.ID); i >= 0 {
			if items[i].Quantity == math.MaxInt {
				overflow = true
				return items, false
			}
			items[i].Quantity++
			line = items[i]
			return items, true
		}
		line = models.NewLineItem(item)
		return append(items, line), true
	})
	if err != nil {
		return err
	}
	if overflow {
		return ErrQuantityOverflow
	}

	s.log.Debug("item added", zap.String("item_id", string(line.ID)), zap.Int("quantity", line.Quantity))
	if s.added != nil {
		s.added(line)
	}
	return nil
}

// Remove drops the line for id. Unknown ids are ignored.
func (s *Store) Remove(ctx context.Context, id models.ItemID) error {
	return s.apply(ctx, func(items []models.LineItem) ([]models.LineItem, bool) {
		i := indexOf(items, id)
		if i < 0 {
			return items, false
		}
		return append(items[:i], items[i+1:]...), true
	})
}

// UpdateQuantity adds delta to the line for id. A resulting quantity of zero
// or less removes the line. Unknown ids are ignored. A positive delta that
// would overflow returns ErrQuantityOverflow and changes nothing.
func (s *Store) UpdateQuantity(ctx context.Context, id models.ItemID, delta int) error {
	var overflow bool
	err := s.apply(ctx, func(items []models.LineItem) ([]models.LineItem, bool) {
		i := indexOf(items, id)
		if i < 0 {
			return items, false
		}
		q := items[i].Quantity
		if delta > 0 && q > math.MaxInt-delta {
			overflow = true
			return items, false
		}
		if q+delta <= 0 {
			return append(items[:i], items[i+1:]...), true
		}
		items[i].Quantity = q + delta
		return items, true
	})
	if err != nil {
		return err
	}
	if overflow {
		return ErrQuantityOverflow
	}
	return nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	return s.apply(ctx, func([]models.LineItem) ([]models.LineItem, bool) {
		return []models.LineItem{}, true
	})
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

// Count is the total number of units in the cart.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.ItemCount(s.items)
}

// Totals derives subtotal, discount and total from the current lines.
func (s *Store) Totals() models.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Calculate(s.items)
}

// Snapshot captures the items and totals at this instant.
func (s *Store) Snapshot() models.CheckoutSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() models.CheckoutSnapshot {
	return models.CheckoutSnapshot{
		Items:     s.copyItems(),
		Totals:    pricing.Calculate(s.items),
		CreatedAt: s.now().UTC(),
	}
}

// Subscribe registers l for state changes and returns a function that
// removes it. Listeners run in subscription order.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: l})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Checkout writes the one-shot snapshot for the booking flow and then
// empties the cart. An empty cart returns ErrEmptyCart and writes nothing.
func (s *Store) Checkout(ctx context.Context) (models.CheckoutSnapshot, error) {
	var snapshot models.CheckoutSnapshot
	var handoffErr error
	err := s.apply(ctx, func(items []models.LineItem) ([]models.LineItem, bool) {
		if len(items) == 0 {
			handoffErr = ErrEmptyCart
			return items, false
		}
		snapshot = s.snapshot()
		if err := s.repo.PrepareCheckoutSnapshot(ctx, snapshot); err != nil {
			handoffErr = fmt.Errorf("prepare checkout: %w", err)
			return items, false
		}
		return []models.LineItem{}, true
	})
	if handoffErr != nil {
		return models.CheckoutSnapshot{}, handoffErr
	}
	if err != nil {
		return models.CheckoutSnapshot{}, fmt.Errorf("clear cart after checkout: %w", err)
	}
	s.log.Info("checkout prepared",
		zap.Int("lines", len(snapshot.Items)),
		zap.String("total", snapshot.Total.StringFixed(2)))
	return snapshot, nil
}
