package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/foodorder/internal/cart"
	"github.com/alextreichler/foodorder/internal/store"
)

// Base carries the dependencies shared by every handler group.
type Base struct {
	Store        *store.Store
	SessionStore sessions.Store
	Templates    *TemplateCache
	Carts        cart.Store
}

// render executes a page into a buffer so a template error never leaves a
// half-written response. Flashes, the CSRF field, the current user and the
// cart size are added to data.
func (b *Base) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	tmpl := b.Templates.Get(name)
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session := getSession(b.SessionStore, r)
	if data == nil {
		data = make(map[string]interface{})
	}
	data["Flashes"] = GetFlash(session)
	data["CsrfField"] = csrf.TemplateField(r)
	if id, ok := identityFromSession(session); ok {
		data["User"] = id
	}
	if _, ok := data["CartCount"]; !ok {
		if c, _, err := b.sessionCart(r.Context(), session); err == nil {
			data["CartCount"] = c.Count()
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Error("Failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// sessionCart loads the cart referenced by the session. A session without a
// cart id gets an empty cart and an empty key.
func (b *Base) sessionCart(ctx context.Context, session *sessions.Session) (*cart.Cart, string, error) {
	key, _ := session.Values[keyCartID].(string)
	if key == "" {
		return &cart.Cart{}, "", nil
	}
	c, err := b.Carts.Get(ctx, key)
	if err != nil {
		return nil, key, err
	}
	return c, key, nil
}

// saveCart stores c under the session's cart id, allocating one on first use.
// The caller must save the session afterwards.
func (b *Base) saveCart(ctx context.Context, session *sessions.Session, key string, c *cart.Cart) error {
	if key == "" {
		key = uuid.NewString()
		session.Values[keyCartID] = key
	}
	return b.Carts.Put(ctx, key, c)
}

// dropCart deletes the stored cart and forgets its id.
func (b *Base) dropCart(ctx context.Context, session *sessions.Session) error {
	key, _ := session.Values[keyCartID].(string)
	delete(session.Values, keyCartID)
	if key == "" {
		return nil
	}
	return b.Carts.Delete(ctx, key)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
