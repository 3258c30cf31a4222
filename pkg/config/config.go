package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	JWTAccessSecret []byte
	AccessTokenTTL  time.Duration

	RedisAddr     string
	RedisPassword string
	CartTTL       time.Duration

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	// VerifyOrderPrices makes the order commit compare caller prices with the catalog.
	VerifyOrderPrices bool

	IdempotencyTTL  time.Duration
	CatalogCacheTTL time.Duration
	CSRFEnabled     bool
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "marketplace"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret: []byte(os.Getenv("JWT_SECRET")),
		AccessTokenTTL:  time.Duration(EnvIntDefault("ACCESS_TOKEN_TTL_HOURS", 30*24)) * time.Hour,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CartTTL:       time.Duration(EnvIntDefault("CART_TTL_HOURS", 30*24)) * time.Hour,

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		VerifyOrderPrices: EnvBoolDefault("ORDER_VERIFY_PRICES", false),

		IdempotencyTTL:  time.Duration(EnvIntDefault("IDEMPOTENCY_TTL_HOURS", 24)) * time.Hour,
		CatalogCacheTTL: time.Duration(EnvIntDefault("CATALOG_CACHE_TTL_SECONDS", 60)) * time.Second,
		CSRFEnabled:     EnvBoolDefault("CSRF_ENABLED", false),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
