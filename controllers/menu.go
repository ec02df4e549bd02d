package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-restaurant/models"
)

// MenuController serves the restaurant's dishes
type MenuController struct {
	Menu models.Menu
}

// NewMenuController creates a new MenuController
func NewMenuController(menu models.Menu) *MenuController {
	return &MenuController{Menu: menu}
}

// GetMenu lists available dishes, optionally filtered by ?category=
func (mc *MenuController) GetMenu(w http.ResponseWriter, r *http.Request) {
	items := mc.Menu.Available(r.URL.Query().Get("category"))
	respondJSON(w, http.StatusOK, items)
}

// GetMenuItem returns a single dish
func (mc *MenuController) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	item, ok := mc.Menu.Find(models.ItemID(mux.Vars(r)["id"]))
	if !ok {
		http.Error(w, "Menu item not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, item)
}
