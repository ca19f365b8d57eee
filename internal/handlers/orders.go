package handlers

import (
	"errors"
	"net/http"

	"github.com/alextreichler/foodorder/internal/store"
)

const msgNotYourOrder = "You are not authorized to view this order"

type OrderHandler struct {
	Base
}

// Confirmation shows an order to its owner. A missing order and someone
// else's order get the same refusal so ids cannot be enumerated.
func (h *OrderHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)
	user, _ := IdentityFrom(r.Context())

	orderID, ok := pathID(r, "order_id")
	if !ok {
		flashRedirect(w, r, session, "/menu", flashDanger, msgNotYourOrder)
		return
	}
	order, err := h.Store.GetOrder(r.Context(), orderID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		serverError(w, "Failed to load order", err)
		return
	}
	if order == nil || order.UserID != user.UserID {
		flashRedirect(w, r, session, "/menu", flashDanger, msgNotYourOrder)
		return
	}

	h.render(w, r, "order_confirmation.html", map[string]interface{}{
		"Order": order,
	})
}

func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	user, _ := IdentityFrom(r.Context())
	orders, err := h.Store.ListOrdersByUser(r.Context(), user.UserID)
	if err != nil {
		serverError(w, "Failed to load orders", err)
		return
	}
	h.render(w, r, "my_orders.html", map[string]interface{}{
		"Orders": orders,
	})
}
