package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/alextreichler/foodorder/internal/models"
)

const (
	SessionName = "food-session"

	keyUserID   = "user_id"
	keyUsername = "username"
	keyIsAdmin  = "is_admin"
	keyCartID   = "cart_id"
)

// Identity is the logged-in user as recorded in the session.
type Identity struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

type identityKey struct{}

func identityFromSession(session *sessions.Session) (Identity, bool) {
	id, ok := session.Values[keyUserID].(int64)
	if !ok || id == 0 {
		return Identity{}, false
	}
	username, _ := session.Values[keyUsername].(string)
	isAdmin, _ := session.Values[keyIsAdmin].(bool)
	return Identity{UserID: id, Username: username, IsAdmin: isAdmin}, true
}

func setIdentity(session *sessions.Session, user *models.User) {
	session.Values[keyUserID] = user.ID
	session.Values[keyUsername] = user.Username
	session.Values[keyIsAdmin] = user.IsAdmin
}

func withIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity placed in the context by Require.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// getSession never returns nil. A cookie that fails to decode (rotated keys)
// yields a fresh session.
func getSession(store sessions.Store, r *http.Request) *sessions.Session {
	session, err := store.Get(r, SessionName)
	if err != nil {
		slog.Debug("Discarding undecodable session", "error", err)
	}
	return session
}

// flashRedirect adds a flash, saves the session and redirects with 303.
func flashRedirect(w http.ResponseWriter, r *http.Request, session *sessions.Session, to, kind, message string) {
	flashesRedirect(w, r, session, to, kind, message)
}

// flashesRedirect is flashRedirect for several messages of the same kind.
func flashesRedirect(w http.ResponseWriter, r *http.Request, session *sessions.Session, to, kind string, messages ...string) {
	for _, msg := range messages {
		session.AddFlash(FlashMessage{Type: kind, Message: msg})
	}
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
