package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"go-restaurant/cart"
	"go-restaurant/models"
)

// CartController handles cart-related requests
type CartController struct {
	Carts *cart.Registry
	Menu  models.Menu
	Log   *zap.Logger
}

// NewCartController creates a new CartController
func NewCartController(carts *cart.Registry, menu models.Menu, log *zap.Logger) *CartController {
	return &CartController{Carts: carts, Menu: menu, Log: log}
}

type addItemResponse struct {
	Message string         `json:"message"`
	Cart    cart.ViewModel `json:"cart"`
}

type updateQuantityRequest struct {
	Delta *int `json:"delta"`
}

func (cc *CartController) store(ctx context.Context, w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	session, ok := sessionID(w, r)
	if !ok {
		return nil, false
	}
	store, err := cc.Carts.Get(ctx, session)
	if err != nil {
		cc.Log.Error("load cart", zap.String("session", session), zap.Error(err))
		http.Error(w, "Cart temporarily unavailable", http.StatusServiceUnavailable)
		return nil, false
	}
	return store, true
}

// GetCart returns the session's cart view
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	store, ok := cc.store(ctx, w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, store.View())
}

// AddItem adds one unit of a dish. Menu ids are priced from the menu and a
// body carrying only an id is completed from it. Other ids are custom dishes
// and must describe themselves.
func (cc *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var item models.CatalogItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	item, err := cc.Menu.Resolve(item)
	if err == nil {
		err = item.Validate()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	store, ok := cc.store(ctx, w, r)
	if !ok {
		return
	}
	if err := store.Add(ctx, item); err != nil {
		if errors.Is(err, cart.ErrQuantityOverflow) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cc.Log.Error("add to cart", zap.String("item_id", string(item.ID)), zap.Error(err))
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, addItemResponse{
		Message: cart.AddedMessage(models.NewLineItem(item)),
		Cart:    store.View(),
	})
}

// RemoveItem drops a line from the cart; unknown ids are ignored
func (cc *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := models.ItemID(mux.Vars(r)["id"])

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	store, ok := cc.store(ctx, w, r)
	if !ok {
		return
	}
	if err := store.Remove(ctx, id); err != nil {
		cc.Log.Error("remove from cart", zap.String("item_id", string(id)), zap.Error(err))
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, store.View())
}

// UpdateItem changes a line's quantity by delta
func (cc *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := models.ItemID(mux.Vars(r)["id"])

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Delta == nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	store, ok := cc.store(ctx, w, r)
	if !ok {
		return
	}
	if err := store.UpdateQuantity(ctx, id, *req.Delta); err != nil {
		if errors.Is(err, cart.ErrQuantityOverflow) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cc.Log.Error("update cart quantity", zap.String("item_id", string(id)), zap.Error(err))
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, store.View())
}

// ClearCart empties the cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	store, ok := cc.store(ctx, w, r)
	if !ok {
		return
	}
	if err := store.Clear(ctx); err != nil {
		cc.Log.Error("clear cart", zap.Error(err))
		http.Error(w, "Error clearing cart", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, store.View())
}
