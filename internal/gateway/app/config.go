package app

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/service"
	"github.com/joho/godotenv"
)

type Config struct {
	Secret     string // Required: NEXTAUTH_SECRET, signs session tokens
	BackendURL string // Required: SPRING_BOOT_API_URL, Analysis Backend base URL
	PublicURL  string // Optional: NEXTAUTH_URL, public app URL (https selects secure cookies) (default: http://localhost:<port>)

	CookieName       string // Optional: NEXTAUTH_SESSION_TOKEN_COOKIE_NAME
	SecureCookieName string // Optional: NEXTAUTH_SESSION_TOKEN_SECURE_COOKIE_NAME

	GoogleClientID     string // Optional: enables Google sign-in together with the secret
	GoogleClientSecret string

	SessionMaxAge       time.Duration // Optional: session lifetime (default: 30 days)
	BackendTimeout      time.Duration // Optional: outbound call timeout (default: 30s)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads the environment, after an optional .env file.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		Secret:              os.Getenv("NEXTAUTH_SECRET"),
		BackendURL:          strings.TrimSuffix(os.Getenv("SPRING_BOOT_API_URL"), "/"),
		PublicURL:           strings.TrimSuffix(os.Getenv("NEXTAUTH_URL"), "/"),
		CookieName:          os.Getenv("NEXTAUTH_SESSION_TOKEN_COOKIE_NAME"),
		SecureCookieName:    os.Getenv("NEXTAUTH_SESSION_TOKEN_SECURE_COOKIE_NAME"),
		GoogleClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:  os.Getenv("GOOGLE_CLIENT_SECRET"),
		SessionMaxAge:       getEnvDurationOrDefault("SESSION_MAX_AGE", 30*24*time.Hour),
		BackendTimeout:      getEnvDurationOrDefault("BACKEND_TIMEOUT", 30*time.Second),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://localhost:" + strconv.Itoa(cfg.Port)
	}

	return cfg
}

// Validate reports missing or malformed required settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Secret == "" {
		errs = append(errs, domain.Configuration("NEXTAUTH_SECRET is not set"))
	}
	if c.BackendURL == "" {
		errs = append(errs, domain.Configuration("SPRING_BOOT_API_URL is not set"))
	} else if u, err := url.Parse(c.BackendURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, domain.Configuration("SPRING_BOOT_API_URL is not an absolute URL"))
	}
	if (c.GoogleClientID == "") != (c.GoogleClientSecret == "") {
		errs = append(errs, domain.Configuration("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set together"))
	}
	return errors.Join(errs...)
}

// Secure reports whether the app is served over https.
func (c *Config) Secure() bool {
	return strings.HasPrefix(c.PublicURL, "https://")
}

// IsDev enables development diagnostics such as upstream error bodies.
func (c *Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development"
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// AuthConfig is the session configuration handed to the service layer.
func (c *Config) AuthConfig() *service.AuthConfig {
	return &service.AuthConfig{
		Secret:                   c.Secret,
		MaxAge:                   c.SessionMaxAge,
		Secure:                   c.Secure(),
		CookieNameOverride:       c.CookieName,
		SecureCookieNameOverride: c.SecureCookieName,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are seconds, matching the cookie Max-Age convention
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
