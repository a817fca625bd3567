// Package config loads application configuration from environment variables.
// A .env file, when present, is read by the entrypoint before Load runs.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Required variables are
// enforced by must() at startup; optional ones fall back to defaults that
// suit a single-household deployment.
type Config struct {
	Env  string // application environment (dev, prod)
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // optional
	DBHost string
	DBPort string
	DBName string

	// MembroExternoPadrao is the member credited with an external loan when
	// the request names no member; historically this was a hardcoded id.
	MembroExternoPadrao uint64

	// AuthEnabled gates the JWT middleware. When false the API is open, which
	// is the default for a trusted home network.
	AuthEnabled  bool
	JWTSecret    string // required when AuthEnabled
	AccessTTLMin int    // access token lifetime in minutes
	BcryptCost   int

	// EventsEnabled turns on post-commit loan event publishing to RabbitMQ.
	EventsEnabled bool
}

// Load reads configuration from the environment. Missing required variables
// abort startup with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:                 envStr("APP_ENV", "dev"),
		Port:                must("APP_PORT"),
		DBUser:              must("DB_USER"),
		DBPass:              os.Getenv("DB_PASS"),
		DBHost:              must("DB_HOST"),
		DBPort:              must("DB_PORT"),
		DBName:              must("DB_NAME"),
		MembroExternoPadrao: uint64(envInt("DEFAULT_EXTERNAL_MEMBER_ID", 1)),
		AuthEnabled:         envBool("AUTH_ENABLED", false),
		JWTSecret:           envStr("JWT_SECRET", ""),
		AccessTTLMin:        envInt("ACCESS_TOKEN_TTL_MIN", 60),
		BcryptCost:          envInt("BCRYPT_COST", 12),
		EventsEnabled:       envBool("EVENTS_ENABLED", false),
	}
	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		log.Fatal("AUTH_ENABLED=true requires JWT_SECRET")
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
