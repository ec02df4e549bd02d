package cart

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-restaurant/models"
	"go-restaurant/storage"
)

type fakeRepository struct {
	mu        sync.Mutex
	items     []models.LineItem
	saves     int
	loadErr   error
	saveErr   error
	snapshots []models.CheckoutSnapshot
	snapErr   error
}

func (f *fakeRepository) Load(context.Context) ([]models.LineItem, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.stored(), nil
}

func (f *fakeRepository) stored() []models.LineItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.LineItem, len(f.items))
	copy(out, f.items)
	return out
}

func mustOpen(t *testing.T, repo Repository, opts ...Option) *Store {
	t.Helper()
	store, err := Open(context.Background(), repo, opts...)
	require.NoError(t, err)
	return store
}

func (f *fakeRepository) Save(_ context.Context, items []models.LineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.items = make([]models.LineItem, len(items))
	copy(f.items, items)
	return nil
}

func (f *fakeRepository) PrepareCheckoutSnapshot(_ context.Context, snapshot models.CheckoutSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapErr != nil {
		return f.snapErr
	}
	f.snapshots = append(f.snapshots, snapshot)
	return nil
}

func menuItem(id string, price string) models.CatalogItem {
	return models.CatalogItem{
		ID:    models.ItemID(id),
		Name:  "Dish " + id,
		Price: decimal.RequireFromString(price),
		Image: id + ".jpg",
	}
}

func TestAddSameItemIncrementsQuantity(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{}
	store := mustOpen(t, repo)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Add(ctx, menuItem("7", "9.99")))
	}

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 5, store.Count())
	assert.Equal(t, 5, repo.saves, "every add is written through")
	assert.Equal(t, items, repo.stored())
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := mustOpen(t, &fakeRepository{})

	require.NoError(t, store.Add(ctx, menuItem("b", "1")))
	require.NoError(t, store.Add(ctx, menuItem("a", "1")))
	require.NoError(t, store.Add(ctx, menuItem("b", "1")))

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, models.ItemID("b"), items[0].ID)
	assert.Equal(t, models.ItemID("a"), items[1].ID)
}

func TestAddFiresAddedHook(t *testing.T) {
	ctx := context.Background()
	var messages []string
	store := mustOpen(t, &fakeRepository{}, WithAddedHook(func(line models.LineItem) {
		messages = append(messages, AddedMessage(line))
	}))

	item := menuItem("1", "14.99")
	item.Name = "Falafel Wrap"
	require.NoError(t, store.Add(ctx, item))

	assert.Equal(t, []string{"Falafel Wrap added to cart!"}, messages)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("positive delta", func(t *testing.T) {
		store := mustOpen(t, &fakeRepository{})
		require.NoError(t, store.Add(ctx, menuItem("1", "5")))
		require.NoError(t, store.UpdateQuantity(ctx, "1", 3))
		assert.Equal(t, 4, store.Items()[0].Quantity)
	})

	t.Run("to zero removes", func(t *testing.T) {
		store := mustOpen(t, &fakeRepository{})
		require.NoError(t, store.Add(ctx, menuItem("1", "5")))
		require.NoError(t, store.UpdateQuantity(ctx, "1", -1))
		assert.Empty(t, store.Items())
	})

	t.Run("below zero removes", func(t *testing.T) {
		store := mustOpen(t, &fakeRepository{})
		require.NoError(t, store.Add(ctx, menuItem("1", "5")))
		require.NoError(t, store.Add(ctx, menuItem("2", "5")))
		require.NoError(t, store.UpdateQuantity(ctx, "1", -10))
		items := store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, models.ItemID("2"), items[0].ID)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		repo := &fakeRepository{}
		store := mustOpen(t, repo)
		require.NoError(t, store.Add(ctx, menuItem("1", "5")))
		require.NoError(t, store.UpdateQuantity(ctx, "missing", 2))
		assert.Equal(t, 1, repo.saves)
		assert.Equal(t, 1, store.Count())
	})
}

func TestRemoveUnknownIDLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{}
	store := mustOpen(t, repo)
	require.NoError(t, store.Add(ctx, menuItem("1", "5")))

	notified := 0
	store.Subscribe(func([]models.LineItem) { notified++ })

	before := store.Items()
	require.NoError(t, store.Remove(ctx, "nope"))

	assert.Equal(t, before, store.Items())
	assert.Equal(t, 1, repo.saves, "no write for an unknown id")
	assert.Zero(t, notified)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	store := mustOpen(t, &fakeRepository{})
	require.NoError(t, store.Add(ctx, menuItem("1", "5")))
	require.NoError(t, store.Add(ctx, menuItem("2", "6")))

	require.NoError(t, store.Remove(ctx, "1"))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, models.ItemID("2"), items[0].ID)
}

func TestTotalsWithDiscount(t *testing.T) {
	ctx := context.Background()
	store := mustOpen(t, &fakeRepository{})
	require.NoError(t, store.Add(ctx, menuItem("1", "300")))
	require.NoError(t, store.Add(ctx, menuItem("2", "250")))

	totals := store.Totals()
	assert.Equal(t, "550.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "55.00", totals.Discount.StringFixed(2))
	assert.Equal(t, "495.00", totals.Total.StringFixed(2))

	view := store.View()
	assert.True(t, view.DiscountVisible)
	assert.Equal(t, "$495.00", view.TotalText)
	assert.Equal(t, "-$55.00", view.DiscountText)
}

func TestTotalsWithoutDiscount(t *testing.T) {
	ctx := context.Background()
	store := mustOpen(t, &fakeRepository{})
	require.NoError(t, store.Add(ctx, menuItem("1", "100")))

	totals := store.Totals()
	assert.Equal(t, "100.00", totals.Subtotal.StringFixed(2))
	assert.True(t, totals.Discount.IsZero())
	assert.Equal(t, "100.00", totals.Total.StringFixed(2))

	assert.False(t, store.View().DiscountVisible)
	assert.True(t, totals.Total.Equal(store.Totals().Total), "totals are idempotent")
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{}
	store := mustOpen(t, repo)
	require.NoError(t, store.Add(ctx, menuItem("1", "600")))

	require.NoError(t, store.Clear(ctx))

	view := store.View()
	assert.True(t, view.Empty)
	assert.False(t, view.CheckoutEnabled)
	assert.False(t, view.BadgeVisible)
	assert.Zero(t, view.BadgeCount)
	assert.True(t, view.Subtotal.IsZero())
	assert.True(t, view.Discount.IsZero())
	assert.True(t, view.Total.IsZero())
	assert.NotNil(t, repo.stored())
	assert.Empty(t, repo.stored())
}

func TestFailedWriteKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{}
	store := mustOpen(t, repo)
	require.NoError(t, store.Add(ctx, menuItem("1", "5")))

	notified := 0
	store.Subscribe(func([]models.LineItem) { notified++ })
	repo.saveErr = errors.New("quota exceeded")

	require.Error(t, store.Add(ctx, menuItem("1", "5")))
	require.Error(t, store.Add(ctx, menuItem("2", "5")))
	require.Error(t, store.UpdateQuantity(ctx, "1", 4))
	require.Error(t, store.Remove(ctx, "1"))
	require.Error(t, store.Clear(ctx))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Zero(t, notified)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	store := mustOpen(t, &fakeRepository{})

	var seen [][]models.LineItem
	unsubscribe := store.Subscribe(func(items []models.LineItem) {
		seen = append(seen, items)
	})

	require.NoError(t, store.Add(ctx, menuItem("1", "5")))
	require.NoError(t, store.UpdateQuantity(ctx, "1", 1))
	unsubscribe()
	unsubscribe()
	require.NoError(t, store.Clear(ctx))

	require.Len(t, seen, 2)
	assert.Equal(t, 1, seen[0][0].Quantity)
	assert.Equal(t, 2, seen[1][0].Quantity)
}

func TestListenerMayReadStore(t *testing.T) {
	ctx := context.Background()
	store := mustOpen(t, &fakeRepository{})

	var counts []int
	store.Subscribe(func([]models.LineItem) {
		counts = append(counts, store.Count())
	})

	require.NoError(t, store.Add(ctx, menuItem("1", "5")))
	assert.Equal(t, []int{1}, counts)
}

func TestItemsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := mustOpen(t, &fakeRepository{})
	require.NoError(t, store.Add(ctx, menuItem("1", "5")))

	items := store.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, store.Items()[0].Quantity)
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.June, 1, 18, 30, 0, 0, time.UTC)
	repo := &fakeRepository{}
	store := mustOpen(t, repo, WithClock(func() time.Time { return now }))
	require.NoError(t, store.Add(ctx, menuItem("1", "300")))
	require.NoError(t, store.Add(ctx, menuItem("2", "250")))

	snapshot, err := store.Checkout(ctx)
	require.NoError(t, err)

	require.Len(t, snapshot.Items, 2)
	assert.Equal(t, "495.00", snapshot.Total.StringFixed(2))
	assert.Equal(t, now, snapshot.CreatedAt)
	require.Len(t, repo.snapshots, 1)
	assert.Equal(t, snapshot, repo.snapshots[0])
	assert.Empty(t, store.Items())
	assert.Empty(t, repo.stored())
}

func TestCheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{}
	store := mustOpen(t, repo)

	_, err := store.Checkout(ctx)
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, repo.snapshots)
	assert.Zero(t, repo.saves)
}

func TestCheckoutHandoffFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{snapErr: errors.New("disk full")}
	store := mustOpen(t, repo)
	require.NoError(t, store.Add(ctx, menuItem("1", "5")))

	_, err := store.Checkout(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, store.Count())
}

func TestStoreSurvivesReload(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()

	store := mustOpen(t, storage.NewCartRepository(kv, "s1", nil))
	require.NoError(t, store.Add(ctx, menuItem("1", "12.99")))
	require.NoError(t, store.Add(ctx, menuItem("1", "12.99")))
	require.NoError(t, store.Add(ctx, menuItem("2", "8.50")))

	reloaded := mustOpen(t, storage.NewCartRepository(kv, "s1", nil))
	want := store.Items()
	got := reloaded.Items()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.True(t, want[i].Price.Equal(got[i].Price))
	}
	assert.True(t, store.Totals().Total.Equal(reloaded.Totals().Total))
}

func TestConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	store := mustOpen(t, &fakeRepository{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Add(ctx, menuItem("1", "1")))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, store.Count())
}

func TestUpdateQuantityLargeDelta(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{}
	store := mustOpen(t, repo)
	require.NoError(t, store.Add(ctx, menuItem("1", "5")))
	require.NoError(t, store.Add(ctx, menuItem("1", "5")))

	err := store.UpdateQuantity(ctx, "1", math.MaxInt)
	require.ErrorIs(t, err, ErrQuantityOverflow)
	items := store.Items()
	require.Len(t, items, 1, "a positive delta never removes the line")
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, repo.saves)

	require.NoError(t, store.UpdateQuantity(ctx, "1", math.MaxInt-2))
	assert.Equal(t, math.MaxInt, store.Items()[0].Quantity)

	require.ErrorIs(t, store.UpdateQuantity(ctx, "1", 1), ErrQuantityOverflow)
	require.ErrorIs(t, store.Add(ctx, menuItem("1", "5")), ErrQuantityOverflow)
	assert.Equal(t, math.MaxInt, store.Items()[0].Quantity)

	require.NoError(t, store.UpdateQuantity(ctx, "1", math.MinInt))
	assert.Empty(t, store.Items())
}

func TestOpenSurfacesLoadErrors(t *testing.T) {
	repo := &fakeRepository{loadErr: errors.New("connection reset")}

	store, err := Open(context.Background(), repo)
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Zero(t, repo.saves)
}
