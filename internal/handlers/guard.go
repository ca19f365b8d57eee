package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/alextreichler/foodorder/internal/store"
)

const (
	msgLoginRequired = "Please log in to access this page."
	msgNoPermission  = "You do not have permission to access this page."
)

// Decision is the outcome of a Guard: either the request may proceed, or it is
// redirected with a flash message.
type Decision struct {
	Allowed    bool
	RedirectTo string
	Flash      FlashMessage
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func RedirectWith(to, kind, message string) Decision {
	return Decision{RedirectTo: to, Flash: FlashMessage{Type: kind, Message: message}}
}

// Guard inspects a request before the handler runs.
type Guard func(r *http.Request, session *sessions.Session) Decision

type Guards struct {
	Store        *store.Store
	SessionStore sessions.Store
}

// Authenticated requires a user id in the session.
func (g *Guards) Authenticated(r *http.Request, session *sessions.Session) Decision {
	if _, ok := identityFromSession(session); !ok {
		return RedirectWith("/login", flashWarning, msgLoginRequired)
	}
	return Allow()
}

// Admin requires a logged-in user whose stored record carries the admin flag.
// The session flag alone is not trusted.
func (g *Guards) Admin(r *http.Request, session *sessions.Session) Decision {
	id, ok := identityFromSession(session)
	if !ok {
		return RedirectWith("/", flashDanger, msgNoPermission)
	}
	user, err := g.Store.GetUserByID(r.Context(), id.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("Failed to resolve user for admin check", "user_id", id.UserID, "error", err)
		}
		return RedirectWith("/", flashDanger, msgNoPermission)
	}
	if !user.IsAdmin {
		return RedirectWith("/", flashDanger, msgNoPermission)
	}
	return Allow()
}

// Require runs guards in order; the first refusal wins. When all allow, the
// session identity is placed in the request context.
func (g *Guards) Require(next http.HandlerFunc, guards ...Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := getSession(g.SessionStore, r)
		for _, guard := range guards {
			d := guard(r, session)
			if !d.Allowed {
				slog.Debug("Access denied", "path", r.URL.Path, "redirect", d.RedirectTo)
				flashRedirect(w, r, session, d.RedirectTo, d.Flash.Type, d.Flash.Message)
				return
			}
		}
		if id, ok := identityFromSession(session); ok {
			r = r.WithContext(withIdentity(r.Context(), id))
		}
		next(w, r)
	}
}

// RequireUser is shorthand for Require(next, g.Authenticated).
func (g *Guards) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return g.Require(next, g.Authenticated)
}

// RequireAdmin is shorthand for Require(next, g.Admin).
func (g *Guards) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return g.Require(next, g.Admin)
}
