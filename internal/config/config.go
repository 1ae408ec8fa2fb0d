package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Values are read once at startup and never
// mutated afterwards.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	Debug          bool          // debug mode relaxes host/CORS checks
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	SecretKey      string        // secret used to sign JWTs
	Algorithm      string        // JWT signing algorithm (HS256, HS384 or HS512)
	AccessTokenTTL time.Duration // access token lifetime
	ResetTokenTTL  time.Duration // password reset token lifetime
	BcryptCost     int           // bcrypt cost for password hashing
	CORSOrigins    []string      // origins allowed by the CORS middleware
	TrustedHosts   []string      // Host header values accepted outside debug mode
	AMQPURL        string        // RabbitMQ URL for lifecycle events (empty disables publishing)
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:            envStr("APP_ENV", "dev"),
		Port:           envStr("APP_PORT", "8000"),
		Debug:          envBool("DEBUG", false),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		SecretKey:      must("SECRET_KEY"),
		Algorithm:      envStr("ALGORITHM", "HS256"),
		AccessTokenTTL: time.Duration(envInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		ResetTokenTTL:  time.Duration(envInt("RESET_TOKEN_EXPIRE_MINUTES", 15)) * time.Minute,
		BcryptCost:     envInt("BCRYPT_COST", 12),
		CORSOrigins:    envList("CORS_ORIGINS", "http://localhost:3000"),
		TrustedHosts:   envList("TRUSTED_HOSTS", "localhost,127.0.0.1"),
		AMQPURL:        os.Getenv("AMQP_URL"),
	}
	switch cfg.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		log.Fatalf("unsupported ALGORITHM: %q", cfg.Algorithm)
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

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

// envList splits a comma separated variable into trimmed non-empty parts.
func envList(k, d string) []string {
	v := os.Getenv(k)
	if v == "" {
		v = d
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
