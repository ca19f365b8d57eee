package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextreichler/foodorder/internal/models"
	"github.com/alextreichler/foodorder/internal/store"
)

func TestAdminUpdateOrderStatus(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	item := app.createItem("Mains", "Burger", 9.5)
	admin, _ := app.loginAs("boss", true)
	_, alice := app.loginAs("alice", false)
	order := app.placeOrder(alice.ID, models.OrderLine{MenuItemID: item.ID, Quantity: 1, Price: 9.5})

	status := func() models.OrderStatus {
		o, err := app.store.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		return o.Status
	}
	update := func(s string) *http.Response {
		return app.post(admin, itemPath("/admin/update_order_status/", order.ID), url.Values{"status": {s}})
	}

	for _, bad := range []string{"Shipped", "", "pending"} {
		resp := update(bad)
		assert.Equal(t, "/admin/orders", resp.Header.Get("Location"))
		assert.Contains(t, app.follow(admin, resp), "Invalid status")
		assert.Equal(t, models.StatusPending, status(), bad)
	}

	resp := update("Completed")
	assert.Contains(t, app.follow(admin, resp), "Order status updated")
	assert.Equal(t, models.StatusCompleted, status())

	// Completed is final.
	resp = update("Pending")
	assert.Contains(t, app.follow(admin, resp), "cannot be changed")
	assert.Equal(t, models.StatusCompleted, status())

	resp = app.post(admin, "/admin/update_order_status/9999", url.Values{"status": {"Completed"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminUpdateOrderStatusRejectsFinalOrdersBeforeWriting(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Only the reads of GetOrder are expected; an UPDATE would fail the mock.
	mock.ExpectQuery(`FROM orders o`).WithArgs(int64(7)).WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "username", "total", "status", "created_at"}).
			AddRow(7, 2, "alice", 9.5, "Cancelled", time.Now()))
	mock.ExpectQuery(`FROM order_items oi`).WithArgs(int64(7)).WillReturnRows(
		sqlmock.NewRows([]string{"id", "order_id", "menu_item_id", "name", "quantity", "price"}))

	h := &AdminHandler{Base: Base{
		Store:        &store.Store{DB: db},
		SessionStore: sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")),
	}}
	req := httptest.NewRequest(http.MethodPost, "/admin/update_order_status/7", strings.NewReader("status=Completed"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("order_id", "7")
	rec := httptest.NewRecorder()
	h.UpdateOrderStatus(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/orders", rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Header().Get("Set-Cookie"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminOrdersFilterAndPaging(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	item := app.createItem("Mains", "Burger", 9.5)
	admin, _ := app.loginAs("boss", true)
	_, alice := app.loginAs("alice", false)

	var ids []int64
	for i := 0; i < 3; i++ {
		ids = append(ids, app.placeOrder(alice.ID, models.OrderLine{MenuItemID: item.ID, Quantity: 1, Price: 9.5}).ID)
	}
	require.NoError(t, app.store.UpdateOrderStatus(ctx, ids[0], models.StatusCancelled))

	_, body := app.get(admin, "/admin/orders?status=cancelled")
	assert.Contains(t, body, itemPath("#", ids[0])+"</td>")
	assert.NotContains(t, body, itemPath("#", ids[1])+"</td>")
	assert.Contains(t, body, "showing cancelled")

	_, body = app.get(admin, "/admin/orders?status=bogus")
	assert.Contains(t, body, "showing all")

	_, body = app.get(admin, "/admin/orders?limit=2")
	assert.Contains(t, body, "Page 1 of 2")
	_, body = app.get(admin, "/admin/orders?limit=2&page=2")
	assert.Contains(t, body, "Page 2 of 2")
	assert.Contains(t, body, itemPath("#", ids[0])+"</td>")
}

func TestAdminOrdersClampsPageToLast(t *testing.T) {
	app := newTestApp(t)
	item := app.createItem("Mains", "Burger", 9.5)
	admin, _ := app.loginAs("boss", true)
	_, alice := app.loginAs("alice", false)

	var ids []int64
	for i := 0; i < 3; i++ {
		ids = append(ids, app.placeOrder(alice.ID, models.OrderLine{MenuItemID: item.ID, Quantity: 1, Price: 9.5}).ID)
	}

	for _, page := range []string{"3", "9223372036854775807"} {
		resp, body := app.get(admin, "/admin/orders?limit=2&page="+page)
		require.Equal(t, http.StatusOK, resp.StatusCode, page)
		assert.Contains(t, body, "Page 2 of 2", page)
		assert.Contains(t, body, itemPath("#", ids[0])+"</td>", page)
	}

	_, body := app.get(admin, "/admin/orders?status=completed&page=5")
	assert.Contains(t, body, "Page 1 of 1")
}

func TestAdminDashboard(t *testing.T) {
	app := newTestApp(t)
	item := app.createItem("Mains", "Burger", 9.5)
	admin, _ := app.loginAs("boss", true)
	_, alice := app.loginAs("alice", false)
	app.placeOrder(alice.ID, models.OrderLine{MenuItemID: item.ID, Quantity: 1, Price: 9.5})

	resp, body := app.get(admin, "/admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<tr><th>Total orders</th><td>1</td></tr>")
	assert.Contains(t, body, "<tr><th>Pending orders</th><td>1</td></tr>")
	assert.Contains(t, body, "<tr><th>Users</th><td>2</td></tr>")
	assert.Contains(t, body, "<tr><th>Menu items</th><td>1</td></tr>")
}

func TestAdminAddCategory(t *testing.T) {
	app := newTestApp(t)
	admin, _ := app.loginAs("boss", true)

	resp := app.post(admin, "/admin/add_category", url.Values{"name": {"  "}})
	assert.Equal(t, "/admin/menu", resp.Header.Get("Location"))
	assert.Contains(t, app.follow(admin, resp), "Category name is required")

	resp = app.post(admin, "/admin/add_category", url.Values{"name": {"Desserts"}})
	assert.Contains(t, app.follow(admin, resp), "Category added successfully")

	resp = app.post(admin, "/admin/add_category", url.Values{"name": {"Desserts"}})
	assert.Contains(t, app.follow(admin, resp), "Category already exists")

	cats, err := app.store.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}

func TestAdminAddItem(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	admin, _ := app.loginAs("boss", true)
	cat, err := app.store.CreateCategory(ctx, "Mains")
	require.NoError(t, err)
	catID := itemPath("", cat.ID)

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"missing price", url.Values{"name": {"Soup"}, "category_id": {catID}}, "Name, price and category are required"},
		{"negative price", url.Values{"name": {"Soup"}, "price": {"-1"}, "category_id": {catID}}, "Price must be positive."},
		{"bad price", url.Values{"name": {"Soup"}, "price": {"cheap"}, "category_id": {catID}}, "Invalid price format."},
		{"unknown category", url.Values{"name": {"Soup"}, "price": {"4.5"}, "category_id": {"999"}}, "Invalid category."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := app.post(admin, "/admin/add_item", tt.form)
			assert.Equal(t, "/admin/menu", resp.Header.Get("Location"))
			assert.Contains(t, app.follow(admin, resp), tt.want)
		})
	}

	// Every validation problem is reported, not just the first.
	resp := app.post(admin, "/admin/add_item", url.Values{"name": {"Soup"}, "price": {"-1"}, "category_id": {"soup"}})
	assert.Equal(t, "/admin/menu", resp.Header.Get("Location"))
	body := app.follow(admin, resp)
	assert.Contains(t, body, "Price must be positive.")
	assert.Contains(t, body, "Invalid category.")

	items, err := app.store.ListMenuItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	resp = app.post(admin, "/admin/add_item", url.Values{
		"name": {"Soup"}, "description": {"Hot"}, "price": {"4.5"}, "category_id": {catID},
	})
	assert.Contains(t, app.follow(admin, resp), "Menu item added successfully")

	items, err = app.store.ListMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Soup", items[0].Name)
	assert.Equal(t, models.DefaultImage, items[0].Image)
	assert.InDelta(t, 4.5, items[0].Price, 1e-9)

	_, body = app.get(app.client(), "/")
	assert.Contains(t, body, "Soup")
	assert.Contains(t, body, "$4.50")
}

func TestAdminUsersAndMakeAdmin(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	admin, _ := app.loginAs("boss", true)
	_, alice := app.loginAs("alice", false)

	resp, body := app.get(admin, "/admin/users")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "alice@example.com")

	resp, _ = app.get(admin, itemPath("/admin/make_admin/", alice.ID))
	assert.Equal(t, "/admin/users", resp.Header.Get("Location"))
	assert.Contains(t, app.follow(admin, resp), "alice is now an admin")

	u, err := app.store.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	resp, _ = app.get(admin, "/admin/make_admin/9999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
