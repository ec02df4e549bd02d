package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-restaurant/cart"
	"go-restaurant/models"
	"go-restaurant/storage"
	"go-restaurant/utils"
)

// CheckoutController hands carts over to the booking flow
type CheckoutController struct {
	Carts  *cart.Registry
	KV     storage.KV
	Mailer utils.Mailer
	Log    *zap.Logger

	emails sync.WaitGroup
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(carts *cart.Registry, kv storage.KV, mailer utils.Mailer, log *zap.Logger) *CheckoutController {
	return &CheckoutController{Carts: carts, KV: kv, Mailer: mailer, Log: log}
}

// Checkout snapshots the cart for the booking page and empties it
func (cc *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	session, ok := sessionID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	store, err := cc.Carts.Get(ctx, session)
	if err != nil {
		cc.Log.Error("load cart", zap.String("session", session), zap.Error(err))
		http.Error(w, "Cart temporarily unavailable", http.StatusServiceUnavailable)
		return
	}
	snapshot, err := store.Checkout(ctx)
	if errors.Is(err, cart.ErrEmptyCart) {
		http.Error(w, "cart is empty", http.StatusBadRequest)
		return
	}
	if err != nil {
		cc.Log.Error("checkout", zap.String("session", session), zap.Error(err))
		http.Error(w, "Error preparing checkout", http.StatusInternalServerError)
		return
	}
	// The cart is empty and persisted; the next visit loads it fresh.
	cc.Carts.Forget(session)

	// Send confirmation email to the customer
	if req.Email != "" {
		cc.emails.Add(1)
		go func(msg utils.Message) {
			defer cc.emails.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := cc.Mailer.Send(ctx, msg); err != nil {
				cc.Log.Error("send checkout confirmation", zap.String("to", msg.To), zap.Error(err))
			}
		}(utils.CheckoutConfirmation(req, snapshot))
	}

	respondJSON(w, http.StatusOK, models.CheckoutResponse{
		Redirect: cart.CheckoutRedirect,
		Snapshot: snapshot,
	})
}

// Wait blocks until pending confirmation emails are sent or ctx is done.
func (cc *CheckoutController) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		cc.emails.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetCheckout returns the pending snapshot once; later calls get 404
func (cc *CheckoutController) GetCheckout(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	snapshot, err := storage.NewCartRepository(cc.KV, session, cc.Log).TakeCheckoutSnapshot(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "No checkout pending", http.StatusNotFound)
		return
	}
	if err != nil {
		cc.Log.Error("read checkout snapshot", zap.String("session", session), zap.Error(err))
		http.Error(w, "Error reading checkout", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}
