package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alextreichler/foodorder/internal/metrics"
	"github.com/alextreichler/foodorder/internal/models"
	"github.com/alextreichler/foodorder/internal/store"
)

// statusFilter maps the ?status= query value to an order status. Anything
// unrecognised, including "all", means no filter.
func statusFilter(v string) (models.OrderStatus, string) {
	for _, st := range models.OrderStatuses {
		if strings.EqualFold(v, string(st)) {
			return st, strings.ToLower(string(st))
		}
	}
	return "", "all"
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status, filter := statusFilter(r.URL.Query().Get("status"))

	pageStr := r.URL.Query().Get("page")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}

	limitStr := r.URL.Query().Get("limit")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = 10 // Default limit
	}
	if limit > 100 {
		limit = 100
	}

	totalOrders, err := h.Store.CountOrders(r.Context(), status)
	if err != nil {
		serverError(w, "Error fetching total order count", err)
		return
	}

	totalPages := (totalOrders + limit - 1) / limit
	if totalPages == 0 { // Handle case with no orders
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	offset := (page - 1) * limit

	orders, err := h.Store.ListOrders(r.Context(), status, limit, offset)
	if err != nil {
		serverError(w, "Error fetching orders", err)
		return
	}

	h.render(w, r, "admin_orders.html", map[string]interface{}{
		"Orders":       orders,
		"Statuses":     models.OrderStatuses,
		"StatusFilter": filter,
		"CurrentPage":  page,
		"TotalPages":   totalPages,
		"Limit":        limit,
	})
}

// UpdateOrderStatus only moves Pending orders; Completed and Cancelled are
// final.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "order_id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	order, err := h.Store.GetOrder(r.Context(), orderID)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, "Error fetching order", err)
		return
	}

	session := getSession(h.SessionStore, r)

	status, err := models.ParseOrderStatus(r.FormValue("status"))
	if err != nil {
		metrics.RecordStatusUpdate("invalid", false)
		flashRedirect(w, r, session, "/admin/orders", flashDanger, "Invalid status")
		return
	}

	rejected := func() {
		metrics.RecordStatusUpdate(string(status), false)
		flashRedirect(w, r, session, "/admin/orders", flashDanger,
			"Order #"+strconv.FormatInt(order.ID, 10)+" is already "+string(order.Status)+" and cannot be changed")
	}
	if !order.Status.CanTransitionTo(status) {
		rejected()
		return
	}

	// The store re-checks the status in the UPDATE itself, which catches a
	// concurrent change made after GetOrder.
	err = h.Store.UpdateOrderStatus(r.Context(), order.ID, status)
	switch {
	case errors.Is(err, store.ErrInvalidTransition):
		rejected()
		return
	case errors.Is(err, store.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		serverError(w, "Error updating status", err)
		return
	}

	metrics.RecordStatusUpdate(string(status), true)
	slog.Info("Order status updated", "order_id", order.ID, "from", order.Status, "to", status)
	flashRedirect(w, r, session, "/admin/orders", flashSuccess, "Order status updated")
}
