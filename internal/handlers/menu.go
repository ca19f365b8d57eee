package handlers

import (
	"net/http"
)

type MenuHandler struct {
	Base
}

// Menu lists every category with its items. It serves both the public home
// page and the logged-in menu; add-to-cart buttons only render for a user.
func (h *MenuHandler) Menu(w http.ResponseWriter, r *http.Request) {
	sections, err := h.Store.GetMenu(r.Context())
	if err != nil {
		serverError(w, "Failed to load menu", err)
		return
	}
	h.render(w, r, "menu.html", map[string]interface{}{
		"Sections": sections,
	})
}
