// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	HTTPAddr  string // claims-service
	AdminAddr string // permissions-admin

	// OIDC / JWT settings for inbound bearer validation on the claims callback
	Issuer   string
	Audience string
	JWKSURL  string

	// Identity-provider client id allowed to invoke the claims callback.
	// Exactly one trusted party per deployment.
	TrustedParty string

	ClockSkew time.Duration

	// Optional Redis-backed claims cache TTL (0 disables caching)
	ClaimsCacheTTL time.Duration

	// Permission store query deadline. The callback sits in the identity
	// provider's token-issuance critical path, so a slow store must fast-fail
	// rather than hang logins.
	StoreTimeout time.Duration

	// Redis & Postgres
	RedisURL    string
	DatabaseURL string
}

// DefaultTrustedParty is the Entra custom-extension authorized party used by
// the reference deployment. Override per environment via CLAIMS_TRUSTED_PARTY.
const DefaultTrustedParty = "99045fe1-7639-4a75-9d4a-577b6ca3810f"

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:            env("SAASID_ENV", "dev"),
		HTTPAddr:       env("SAASID_HTTP_ADDR", ":8080"),
		AdminAddr:      env("SAASID_ADMIN_ADDR", ":8082"),
		Issuer:         env("OIDC_ISSUER", ""),
		Audience:       env("OIDC_AUDIENCE", ""),
		JWKSURL:        env("JWKS_URL", ""),
		TrustedParty:   env("CLAIMS_TRUSTED_PARTY", DefaultTrustedParty),
		ClockSkew:      envDur("CLOCK_SKEW_SEC", 60) * time.Second,
		ClaimsCacheTTL: envDur("CLAIMS_CACHE_TTL_SEC", 0) * time.Second,
		StoreTimeout:   envDur("STORE_TIMEOUT_SEC", 3) * time.Second,
		RedisURL:       env("REDIS_URL", ""),
		DatabaseURL:    env("DATABASE_URL", ""),
	}
	if cfg.DatabaseURL == "" {
		log.Println("[WARN] DATABASE_URL not set — using in-memory permission store for dev")
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		i, _ := strconv.Atoi(v)
		return time.Duration(i)
	}
	return time.Duration(def)
}
