package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/foodorder/internal/cart"
	"github.com/alextreichler/foodorder/internal/config"
	"github.com/alextreichler/foodorder/internal/handlers"
	"github.com/alextreichler/foodorder/internal/store"
)

func main() {
	// Configure slog to output DEBUG level messages
	// This should be done as early as possible in main
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run Migrations
	if err := db.Migrate(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	if err := seedAdmin(ctx, db, cfg); err != nil {
		slog.Error("Failed to seed admin account", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure // Configurable for production
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Cart Store
	carts, closeCarts, err := newCartStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to connect to cart store", "error", err)
		os.Exit(1)
	}
	defer closeCarts()

	// 5. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.LoadEmbedded(); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	rateLimiter := handlers.NewRateLimiter(cfg.RateLimitPerMinute)
	go rateLimiter.Run(ctx)

	// 6. Routes
	mux := handlers.Routes(handlers.Deps{
		Store:        db,
		SessionStore: sessionStore,
		Templates:    templates,
		Carts:        carts,
		RateLimiter:  rateLimiter,
	})

	// 7. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure), // Configurable for production
		csrf.Path("/"),
		// Trust local development origins
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Metrics -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 8. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Create a channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Goroutine to start the server
	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-stop

	slog.Info("Shutting down server gracefully...")
	stopBackground()

	// Create a deadline to wait for.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}

// newCartStore uses Redis when REDIS_ADDR is set and an in-process map
// otherwise. Both drop carts idle for longer than CartTTL. The returned func
// releases the connection.
func newCartStore(ctx context.Context, cfg *config.Config) (cart.Store, func(), error) {
	if cfg.RedisAddr == "" {
		slog.Info("Using in-memory cart store", "ttl", cfg.CartTTL)
		carts := cart.NewMemoryStore()
		go carts.Run(ctx, cfg.CartTTL)
		return carts, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}
	slog.Info("Using Redis cart store", "addr", cfg.RedisAddr, "ttl", cfg.CartTTL)
	return cart.NewRedisStore(client, cfg.CartTTL), func() { client.Close() }, nil
}
