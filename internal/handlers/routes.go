package handlers

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/alextreichler/foodorder/internal/cart"
	"github.com/alextreichler/foodorder/internal/metrics"
	"github.com/alextreichler/foodorder/internal/store"
)

//go:embed static
var staticFS embed.FS

// Deps is everything the routes need. A nil RateLimiter disables limiting.
type Deps struct {
	Store        *store.Store
	SessionStore sessions.Store
	Templates    *TemplateCache
	Carts        cart.Store
	RateLimiter  *RateLimiter
}

// Routes builds the application mux, wrapped in the metrics middleware.
// CSRF, logging and security headers are added by the caller.
func Routes(d Deps) http.Handler {
	base := Base{
		Store:        d.Store,
		SessionStore: d.SessionStore,
		Templates:    d.Templates,
		Carts:        d.Carts,
	}
	guards := &Guards{Store: d.Store, SessionStore: d.SessionStore}
	limiter := d.RateLimiter
	if limiter == nil {
		limiter = NewRateLimiter(0)
	}

	auth := &AuthHandler{Base: base}
	menu := &MenuHandler{Base: base}
	carts := &CartHandler{Base: base}
	orders := &OrderHandler{Base: base}
	admin := &AdminHandler{Base: base}

	mux := http.NewServeMux()

	// Static Files
	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static", http.FileServerFS(static)))

	// Public Routes
	mux.HandleFunc("GET /{$}", menu.Menu)
	mux.HandleFunc("GET /register", auth.RegisterGet)
	mux.HandleFunc("POST /register", limiter.Middleware(auth.RegisterPost))
	mux.HandleFunc("GET /login", auth.LoginGet)
	mux.HandleFunc("POST /login", limiter.Middleware(auth.LoginPost))
	mux.HandleFunc("GET /logout", auth.Logout)

	// Customer Routes
	mux.HandleFunc("GET /menu", guards.RequireUser(menu.Menu))
	mux.HandleFunc("POST /add_to_cart/{item_id}", guards.RequireUser(carts.AddToCart))
	mux.HandleFunc("GET /cart", guards.RequireUser(carts.ViewCart))
	mux.HandleFunc("POST /update_cart/{item_id}", guards.RequireUser(carts.UpdateCart))
	mux.HandleFunc("POST /checkout", limiter.Middleware(guards.RequireUser(carts.Checkout)))
	mux.HandleFunc("GET /order_confirmation/{order_id}", guards.RequireUser(orders.Confirmation))
	mux.HandleFunc("GET /my_orders", guards.RequireUser(orders.MyOrders))

	// Admin Routes
	mux.HandleFunc("GET /admin", guards.RequireAdmin(admin.Dashboard))
	mux.HandleFunc("GET /admin/menu", guards.RequireAdmin(admin.Menu))
	mux.HandleFunc("POST /admin/add_category", guards.RequireAdmin(admin.AddCategory))
	mux.HandleFunc("POST /admin/add_item", guards.RequireAdmin(admin.AddItem))
	mux.HandleFunc("GET /admin/orders", guards.RequireAdmin(admin.ListOrders))
	mux.HandleFunc("POST /admin/update_order_status/{order_id}", guards.RequireAdmin(admin.UpdateOrderStatus))
	mux.HandleFunc("GET /admin/users", guards.RequireAdmin(admin.ListUsers))
	mux.HandleFunc("GET /admin/make_admin/{user_id}", guards.RequireAdmin(admin.MakeAdmin))
	mux.HandleFunc("GET /metrics", guards.RequireAdmin(metrics.Handler().ServeHTTP))

	return MetricsMiddleware(mux)
}
