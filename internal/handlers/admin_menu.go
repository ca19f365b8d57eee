package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/alextreichler/foodorder/internal/models"
	"github.com/alextreichler/foodorder/internal/store"
)

func (h *AdminHandler) Menu(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Store.ListCategories(r.Context())
	if err != nil {
		serverError(w, "Error fetching categories", err)
		return
	}
	items, err := h.Store.ListMenuItems(r.Context())
	if err != nil {
		serverError(w, "Error fetching menu items", err)
		return
	}
	h.render(w, r, "admin_menu.html", map[string]interface{}{
		"Categories": categories,
		"Items":      items,
	})
}

func (h *AdminHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		flashRedirect(w, r, session, "/admin/menu", flashDanger, "Category name is required")
		return
	}

	_, err := h.Store.CreateCategory(r.Context(), name)
	if errors.Is(err, store.ErrCategoryExists) {
		flashRedirect(w, r, session, "/admin/menu", flashDanger, "Category already exists")
		return
	}
	if err != nil {
		serverError(w, "Error creating category", err)
		return
	}
	flashRedirect(w, r, session, "/admin/menu", flashSuccess, "Category added successfully")
}

func (h *AdminHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)

	name := strings.TrimSpace(r.FormValue("name"))
	desc := strings.TrimSpace(r.FormValue("description"))
	priceStr := strings.TrimSpace(r.FormValue("price"))
	categoryStr := r.FormValue("category_id")

	if name == "" || priceStr == "" || categoryStr == "" {
		flashRedirect(w, r, session, "/admin/menu", flashDanger, "Name, price and category are required")
		return
	}

	// Validation
	var problems []string
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		problems = append(problems, "Invalid price format.")
	} else if price <= 0 {
		problems = append(problems, "Price must be positive.")
	}
	categoryID, err := strconv.ParseInt(categoryStr, 10, 64)
	if err != nil {
		problems = append(problems, "Invalid category.")
	}
	if len(problems) > 0 {
		flashesRedirect(w, r, session, "/admin/menu", flashDanger, problems...)
		return
	}

	item := &models.MenuItem{
		Name:        name,
		Description: desc,
		Price:       price,
		CategoryID:  categoryID,
	}
	err = h.Store.CreateMenuItem(r.Context(), item)
	if errors.Is(err, store.ErrCategoryNotFound) {
		flashRedirect(w, r, session, "/admin/menu", flashDanger, "Invalid category.")
		return
	}
	if err != nil {
		serverError(w, "Error saving menu item", err)
		return
	}
	flashRedirect(w, r, session, "/admin/menu", flashSuccess, "Menu item added successfully")
}
