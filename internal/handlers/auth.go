package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/alextreichler/foodorder/internal/models"
	"github.com/alextreichler/foodorder/internal/store"
)

// Basic email validation regex
var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(strings.ToLower(email))
}

type AuthHandler struct {
	Base
}

func (h *AuthHandler) RegisterGet(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", nil)
}

func (h *AuthHandler) RegisterPost(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)

	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if username == "" || email == "" || password == "" {
		flashRedirect(w, r, session, "/register", flashDanger, "Username, email and password are required")
		return
	}
	if !isValidEmail(email) {
		flashRedirect(w, r, session, "/register", flashDanger, "Please enter a valid email address")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		serverError(w, "Failed to hash password", err)
		return
	}

	user := &models.User{Username: username, Email: email, Password: string(hash)}
	switch err := h.Store.CreateUser(r.Context(), user); {
	case errors.Is(err, store.ErrUsernameTaken):
		flashRedirect(w, r, session, "/register", flashDanger, "Username already taken")
		return
	case errors.Is(err, store.ErrEmailTaken):
		flashRedirect(w, r, session, "/register", flashDanger, "Email already registered")
		return
	case err != nil:
		serverError(w, "Failed to create user", err)
		return
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username)
	flashRedirect(w, r, session, "/login", flashSuccess, "Registration successful. Please login.")
}

func (h *AuthHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", nil)
}

func (h *AuthHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := h.Store.GetUserByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		serverError(w, "Failed to look up user", err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		slog.Info("Failed login attempt", "username", username, "ip", r.RemoteAddr)
		flashRedirect(w, r, session, "/login", flashDanger, "Invalid username or password")
		return
	}

	setIdentity(session, user)
	session.Options.Path = "/"

	target := "/menu"
	if user.IsAdmin {
		target = "/admin"
	}
	slog.Info("Login successful", "user_id", user.ID, "redirect", target)
	flashRedirect(w, r, session, target, flashSuccess, "Welcome, "+user.Username+"!")
}

// Logout discards the cart and empties the session. Only the farewell flash
// is written back.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)
	if err := h.dropCart(r.Context(), session); err != nil {
		slog.Error("Failed to delete cart on logout", "error", err)
	}
	for k := range session.Values {
		delete(session.Values, k)
	}
	session.AddFlash(FlashMessage{Type: flashSuccess, Message: "You have been logged out."})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
