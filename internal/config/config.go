package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBPath       string
	CSRFKey      []byte
	SessionKey   []byte
	CookieDomain string
	CookieSecure bool

	// Carts are kept in Redis when RedisAddr is set, in memory otherwise.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CartTTL       time.Duration

	AdminEmail    string
	AdminPassword string

	RateLimitPerMinute int
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "./food_ordering.db"),
		CookieDomain:  getEnv("COOKIE_DOMAIN", ""),
		CookieSecure:  getEnv("COOKIE_SECURE", "false") == "true",
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "8080"
	}

	cfg.RedisDB = getEnvInt("REDIS_DB", 0)
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", 10)

	ttl, err := time.ParseDuration(getEnv("CART_TTL", "24h"))
	if err != nil || ttl <= 0 {
		slog.Warn("Invalid CART_TTL, using 24h", "CART_TTL", os.Getenv("CART_TTL"))
		ttl = 24 * time.Hour
	}
	cfg.CartTTL = ttl

	return cfg, nil
}

// loadKey decodes a base64 key of at least 32 bytes, or generates a random
// one for development.
func loadKey(name string) []byte {
	keyStr := os.Getenv(name)
	if keyStr == "" {
		slog.Warn(name + " environment variable not set. Generating a random key for development. This key will change on each restart. PLEASE SET " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decodedKey, err := base64.StdEncoding.DecodeString(keyStr)
	if err != nil || len(decodedKey) < 32 {
		slog.Warn(name + " is invalid or too short (min 32 bytes). Generating a random key for development. PLEASE SET A SECURE " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	return decodedKey
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil || v < 0 {
		slog.Warn("Invalid integer environment variable, using default", "key", key, "default", defaultValue)
		return defaultValue
	}
	return v
}

// generateRandomBytes uses crypto/rand; a failure here means the platform
// has no usable entropy source, so it panics.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("config: failed to read random bytes: " + err.Error())
	}
	return b
}

// RandomPassword returns a URL-safe random password for seeded accounts.
func RandomPassword() string {
	return base64.RawURLEncoding.EncodeToString(generateRandomBytes(18))
}
