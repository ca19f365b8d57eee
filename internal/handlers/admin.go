package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alextreichler/foodorder/internal/store"
)

type AdminHandler struct {
	Base
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GetDashboardStats(r.Context())
	if err != nil {
		serverError(w, "Error fetching stats", err)
		return
	}
	h.render(w, r, "admin_dashboard.html", map[string]interface{}{
		"Stats": stats,
	})
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		serverError(w, "Error fetching users", err)
		return
	}
	h.render(w, r, "admin_users.html", map[string]interface{}{
		"Users": users,
	})
}

func (h *AdminHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "user_id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	user, err := h.Store.GetUserByID(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, "Error fetching user", err)
		return
	}
	if err := h.Store.SetAdmin(r.Context(), user.ID); err != nil {
		serverError(w, "Error promoting user", err)
		return
	}

	actor, _ := IdentityFrom(r.Context())
	slog.Info("User promoted to admin", "user_id", user.ID, "by", actor.UserID)
	session := getSession(h.SessionStore, r)
	flashRedirect(w, r, session, "/admin/users", flashSuccess, fmt.Sprintf("%s is now an admin", user.Username))
}
