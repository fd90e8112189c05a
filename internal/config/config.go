// Package config loads application configuration from environment variables.
// A .env file in the working directory is read first when present; real
// environment variables always win over it.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env  string // application environment (dev, test, prod)
	Port string // HTTP port to listen on

	StoreDriver    string        // mongo or memory
	MongoURI       string        // full connection string
	DBName         string        // database name
	DBTimeout      time.Duration // per-operation timeout
	DBConnectRetry int           // connection attempts at startup

	JWTSecret    string // secret used to sign access tokens
	AccessTTLMin int    // access token time-to-live in minutes

	PaymentProvider    string // stripe or midtrans
	PaymentSecretKey   string
	PaymentCurrency    string
	MidtransProduction bool

	RabbitURL string // optional; events are dropped when empty
	LogLevel  string
}

// Load reads the configuration. It returns an error naming the first
// required variable that is missing or malformed.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                envStr("APP_ENV", "dev"),
		Port:               envStr("APP_PORT", envStr("PORT", "3000")),
		StoreDriver:        strings.ToLower(envStr("STORE_DRIVER", DriverMongo)),
		DBName:             envStr("DB_NAME", "summerCamp"),
		DBTimeout:          envDur("DB_TIMEOUT", 5*time.Second),
		DBConnectRetry:     envInt("DB_CONNECT_RETRIES", 5),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AccessTTLMin:       envInt("ACCESS_TOKEN_TTL_MIN", 60),
		PaymentProvider:    strings.ToLower(envStr("PAYMENT_PROVIDER", "stripe")),
		PaymentSecretKey:   envStr("PAYMENT_SECRET_KEY", os.Getenv("PAYMENT_SECRATE_KEY")),
		PaymentCurrency:    strings.ToLower(envStr("PAYMENT_CURRENCY", "usd")),
		MidtransProduction: envBool("MIDTRANS_PRODUCTION", false),
		RabbitURL:          os.Getenv("RABBITMQ_URL"),
		LogLevel:           envStr("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing required env var: JWT_SECRET")
	}
	if cfg.AccessTTLMin < 1 {
		return Config{}, fmt.Errorf("invalid ACCESS_TOKEN_TTL_MIN: %d", cfg.AccessTTLMin)
	}
	if cfg.DBTimeout <= 0 {
		cfg.DBTimeout = 5 * time.Second
	}
	if cfg.DBConnectRetry < 1 {
		cfg.DBConnectRetry = 1
	}

	switch cfg.StoreDriver {
	case DriverMemory:
	case DriverMongo:
		uri, err := mongoURI()
		if err != nil {
			return Config{}, err
		}
		cfg.MongoURI = uri
	default:
		return Config{}, fmt.Errorf("invalid STORE_DRIVER: %q", cfg.StoreDriver)
	}
	return cfg, nil
}

// mongoURI prefers MONGO_URI and otherwise builds an Atlas SRV URI from
// DB_USER, DB_PASS and DB_HOST.
func mongoURI() (string, error) {
	if v := os.Getenv("MONGO_URI"); v != "" {
		return v, nil
	}
	user, pass := os.Getenv("DB_USER"), os.Getenv("DB_PASS")
	host := envStr("DB_HOST", "")
	if user == "" || host == "" {
		return "", fmt.Errorf("missing required env var: MONGO_URI (or DB_USER and DB_HOST)")
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(user, pass),
		Host:     host,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String(), nil
}

// AccessTTL is AccessTTLMin as a duration.
func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMin) * time.Minute
}

// IsProd reports whether the service runs in production.
func (c Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}
