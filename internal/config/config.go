package config // package config loads application configuration from environment variables

import (
	"log"
	"strings"
	"time"
)

// InsecureSecretFallback is used when SESSION_SECRET is unset. The server
// still boots so that local development works out of the box, but tokens
// signed with this value offer no real protection. Deployments must set
// SESSION_SECRET.
const InsecureSecretFallback = "change-me-session-secret"

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for
// lifetimes.
type Config struct {
	Env           string        // application environment (e.g. "dev", "prod")
	Port          string        // HTTP port to listen on
	DBUser        string        // database username
	DBPass        string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBName        string        // database name
	SessionSecret string        // secret used to sign session tokens
	SessionTTL    time.Duration // session cookie/token time-to-live
	SecureCookies bool          // set the Secure attribute on session cookies
	HashScheme    string        // password hashing scheme: "sha256" or "bcrypt"
	BcryptCost    int           // bcrypt cost when HashScheme is "bcrypt"
	Routes        RouteRules    // path prefix classification for page gating
}

// RouteRules carries the path-prefix lists consumed by the access-control
// middleware. Admin is expected to be a subset of Protected. Skip names
// prefixes the middleware ignores entirely; API routes enforce their own
// checks in-handler.
type RouteRules struct {
	Protected []string // any authenticated user
	AuthOnly  []string // redirect away when already logged in
	Admin     []string // admin role required
	Skip      []string // never evaluated by the page middleware
}

// Load reads configuration values from environment variables and returns a
// Config. Every value has a workable local default; only the session secret
// logs a warning when it falls back, since shipping the fallback to
// production is a real key-management failure.
func Load() Config {
	secret := envStr("SESSION_SECRET", "")
	if secret == "" {
		log.Printf("SESSION_SECRET not set, using insecure fallback")
		secret = InsecureSecretFallback
	}
	return Config{
		Env:           envStr("APP_ENV", "dev"),
		Port:          envStr("APP_PORT", "8080"),
		DBUser:        envStr("DB_USER", "root"),
		DBPass:        envStr("DB_PASS", ""),
		DBHost:        envStr("DB_HOST", "localhost"),
		DBPort:        envStr("DB_PORT", "3306"),
		DBName:        envStr("DB_NAME", "account_portal"),
		SessionSecret: secret,
		SessionTTL:    envDur("SESSION_TTL", 7*24*time.Hour),
		SecureCookies: envBool("SECURE_COOKIES", false),
		HashScheme:    envStr("HASH_SCHEME", "sha256"),
		BcryptCost:    envInt("BCRYPT_COST", 10),
		Routes: RouteRules{
			Protected: envList("ROUTES_PROTECTED", "/admin,/profile"),
			AuthOnly:  envList("ROUTES_AUTH", "/login,/register"),
			Admin:     envList("ROUTES_ADMIN", "/admin"),
			Skip:      envList("ROUTES_SKIP", "/api,/healthz,/favicon.ico"),
		},
	}
}

// envList splits a comma-separated env value into trimmed, non-empty
// prefixes, falling back to the default list when the variable is unset.
func envList(k, d string) []string {
	raw := envStr(k, d)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
