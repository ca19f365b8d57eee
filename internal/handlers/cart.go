package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alextreichler/foodorder/internal/cart"
	"github.com/alextreichler/foodorder/internal/metrics"
	"github.com/alextreichler/foodorder/internal/store"
)

type CartHandler struct {
	Base
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "item_id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	item, err := h.Store.GetMenuItem(r.Context(), itemID)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, "Failed to load menu item", err)
		return
	}

	session := getSession(h.SessionStore, r)
	c, key, err := h.sessionCart(r.Context(), session)
	if err != nil {
		serverError(w, "Failed to load cart", err)
		return
	}
	qty := c.Add(*item)
	if err := h.saveCart(r.Context(), session, key, c); err != nil {
		serverError(w, "Failed to save cart", err)
		return
	}
	metrics.RecordCartOperation("add")

	msg := fmt.Sprintf("Added %s to your cart", item.Name)
	if qty > 1 {
		msg = fmt.Sprintf("Added another %s to your cart", item.Name)
	}
	flashRedirect(w, r, session, "/menu", flashSuccess, msg)
}

func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)
	c, _, err := h.sessionCart(r.Context(), session)
	if err != nil {
		serverError(w, "Failed to load cart", err)
		return
	}
	h.render(w, r, "cart.html", map[string]interface{}{
		"Cart":      c,
		"Total":     c.Total(),
		"CartCount": c.Count(),
	})
}

// UpdateCart applies the form's action to the line for the item in the path.
func (h *CartHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)

	itemID, ok := pathID(r, "item_id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	action := cart.Action(r.FormValue("action"))

	c, key, err := h.sessionCart(r.Context(), session)
	if err != nil {
		serverError(w, "Failed to load cart", err)
		return
	}

	switch err := c.Update(itemID, action); {
	case errors.Is(err, cart.ErrUnknownAction):
		flashRedirect(w, r, session, "/cart", flashDanger, "Invalid cart action")
		return
	case errors.Is(err, cart.ErrItemNotInCart):
		flashRedirect(w, r, session, "/cart", flashWarning, "That item is not in your cart")
		return
	case err != nil:
		serverError(w, "Failed to update cart", err)
		return
	}

	if err := h.saveCart(r.Context(), session, key, c); err != nil {
		serverError(w, "Failed to save cart", err)
		return
	}
	metrics.RecordCartOperation(string(action))
	flashRedirect(w, r, session, "/cart", flashSuccess, "Cart updated")
}

// Checkout turns the cart into an order. The cart is only cleared once the
// order and all of its items are committed.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)
	user, ok := IdentityFrom(r.Context())
	if !ok {
		flashRedirect(w, r, session, "/login", flashWarning, msgLoginRequired)
		return
	}

	c, _, err := h.sessionCart(r.Context(), session)
	if err != nil {
		serverError(w, "Failed to load cart", err)
		return
	}
	if c.Empty() {
		metrics.RecordCheckoutFailure("empty_cart")
		flashRedirect(w, r, session, "/menu", flashWarning, "Your cart is empty")
		return
	}

	order, err := h.Store.PlaceOrder(r.Context(), user.UserID, c.Lines())
	if err != nil {
		metrics.RecordCheckoutFailure("store_error")
		slog.Error("Checkout failed", "user_id", user.UserID, "error", err)
		flashRedirect(w, r, session, "/cart", flashDanger, "Failed to place order. Please try again.")
		return
	}
	metrics.RecordOrderPlaced(order.Total)

	if err := h.dropCart(r.Context(), session); err != nil {
		slog.Error("Failed to delete cart after checkout", "order_id", order.ID, "error", err)
	}
	slog.Info("Order placed", "order_id", order.ID, "user_id", user.UserID, "total", order.Total)
	flashRedirect(w, r, session, fmt.Sprintf("/order_confirmation/%d", order.ID), flashSuccess, "Order placed successfully!")
}
