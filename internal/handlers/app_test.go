package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alextreichler/foodorder/internal/cart"
	"github.com/alextreichler/foodorder/internal/models"
	"github.com/alextreichler/foodorder/internal/store"
)

// testApp runs the full route table against a temp SQLite file and an
// in-memory cart store. CSRF is left out; it wraps the mux in main.
type testApp struct {
	t      *testing.T
	store  *store.Store
	carts  *cart.MemoryStore
	server *httptest.Server
}

func newTestApp(t *testing.T) *testApp {
	return newTestAppWithLimiter(t, nil)
}

func newTestAppWithLimiter(t *testing.T, limiter *RateLimiter) *testApp {
	t.Helper()

	db, err := store.NewStore(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	templates := NewTemplateCache()
	require.NoError(t, templates.LoadEmbedded())

	carts := cart.NewMemoryStore()
	srv := httptest.NewServer(Routes(Deps{
		Store:        db,
		SessionStore: sessions.NewCookieStore([]byte(strings.Repeat("s", 32))),
		Templates:    templates,
		Carts:        carts,
		RateLimiter:  limiter,
	}))
	t.Cleanup(srv.Close)

	return &testApp{t: t, store: db, carts: carts, server: srv}
}

// client returns a browser-like client with its own cookie jar. Redirects
// are not followed so tests can assert on Location.
func (a *testApp) client() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(a.t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) get(c *http.Client, path string) (*http.Response, string) {
	a.t.Helper()
	resp, err := c.Get(a.server.URL + path)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp, string(body)
}

func (a *testApp) post(c *http.Client, path string, form url.Values) *http.Response {
	a.t.Helper()
	resp, err := c.PostForm(a.server.URL+path, form)
	require.NoError(a.t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

// follow GETs the Location of a redirect and returns the rendered page.
func (a *testApp) follow(c *http.Client, resp *http.Response) string {
	a.t.Helper()
	require.Equal(a.t, http.StatusSeeOther, resp.StatusCode)
	_, body := a.get(c, resp.Header.Get("Location"))
	return body
}

func (a *testApp) createUser(username, password string, admin bool) *models.User {
	a.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(a.t, err)
	u := &models.User{Username: username, Email: username + "@example.com", Password: string(hash), IsAdmin: admin}
	require.NoError(a.t, a.store.CreateUser(context.Background(), u))
	return u
}

// loginAs creates a user and returns a client logged in as them.
func (a *testApp) loginAs(username string, admin bool) (*http.Client, *models.User) {
	a.t.Helper()
	u := a.createUser(username, "password123", admin)
	c := a.client()
	resp := a.post(c, "/login", url.Values{"username": {username}, "password": {"password123"}})
	require.Equal(a.t, http.StatusSeeOther, resp.StatusCode)
	return c, u
}

func (a *testApp) createItem(category, name string, price float64) *models.MenuItem {
	a.t.Helper()
	ctx := context.Background()
	cats, err := a.store.ListCategories(ctx)
	require.NoError(a.t, err)
	var catID int64
	for _, c := range cats {
		if c.Name == category {
			catID = c.ID
		}
	}
	if catID == 0 {
		c, err := a.store.CreateCategory(ctx, category)
		require.NoError(a.t, err)
		catID = c.ID
	}
	item := &models.MenuItem{Name: name, Price: price, CategoryID: catID}
	require.NoError(a.t, a.store.CreateMenuItem(ctx, item))
	return item
}

func itemPath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

func (a *testApp) countOrders() int {
	a.t.Helper()
	n, err := a.store.CountOrders(context.Background(), "")
	require.NoError(a.t, err)
	return n
}
