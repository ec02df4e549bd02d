// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-restaurant/controllers"
)

// Controllers groups the handlers served by the storefront API
type Controllers struct {
	Session  *controllers.SessionController
	Menu     *controllers.MenuController
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Theme    *controllers.ThemeController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, auth mux.MiddlewareFunc) {
	// Public routes
	router.HandleFunc("/health", controllers.Health).Methods(http.MethodGet)
	router.HandleFunc("/session", c.Session.CreateSession).Methods(http.MethodPost)
	router.HandleFunc("/menu", c.Menu.GetMenu).Methods(http.MethodGet)
	router.HandleFunc("/menu/{id}", c.Menu.GetMenuItem).Methods(http.MethodGet)

	// Protected routes
	protected := router.NewRoute().Subrouter()
	protected.Use(auth)

	// Cart routes
	protected.HandleFunc("/cart", c.Cart.GetCart).Methods(http.MethodGet)
	protected.HandleFunc("/cart", c.Cart.ClearCart).Methods(http.MethodDelete)
	protected.HandleFunc("/cart/items", c.Cart.AddItem).Methods(http.MethodPost)
	protected.HandleFunc("/cart/items/{id}", c.Cart.RemoveItem).Methods(http.MethodDelete)
	protected.HandleFunc("/cart/items/{id}", c.Cart.UpdateItem).Methods(http.MethodPatch)

	// Checkout routes
	protected.HandleFunc("/cart/checkout", c.Checkout.Checkout).Methods(http.MethodPost)
	protected.HandleFunc("/checkout", c.Checkout.GetCheckout).Methods(http.MethodGet)

	// Theme routes
	protected.HandleFunc("/theme", c.Theme.GetTheme).Methods(http.MethodGet)
	protected.HandleFunc("/theme", c.Theme.SetTheme).Methods(http.MethodPut)
	protected.HandleFunc("/theme/toggle", c.Theme.ToggleTheme).Methods(http.MethodPost)
}
