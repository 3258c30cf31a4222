package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("ORDER_VERIFY_PRICES", "")
	t.Setenv("ES_INDEX", "")
	t.Setenv("ACCESS_TOKEN_TTL_HOURS", "")
	t.Setenv("IDEMPOTENCY_TTL_HOURS", "")
	t.Setenv("CATALOG_CACHE_TTL_SECONDS", "")
	t.Setenv("CSRF_ENABLED", "")

	cfg := Load()

	assert.Equal(t, "marketplace", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.False(t, cfg.VerifyOrderPrices)
	assert.Equal(t, "products", cfg.ESIndex)
	assert.Equal(t, 30*24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, time.Minute, cfg.CatalogCacheTTL)
	assert.False(t, cfg.CSRFEnabled)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ORDER_VERIFY_PRICES", "true")
	t.Setenv("CART_TTL_HOURS", "2")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []byte("s3cret"), cfg.JWTAccessSecret)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.VerifyOrderPrices)
	assert.Equal(t, 2*time.Hour, cfg.CartTTL)
}

func TestValidate_ReportsMissing(t *testing.T) {
	err := Config{}.Validate()
	assert.EqualError(t, err, "missing required env DATABASE_URL, JWT_SECRET, REDIS_ADDR")

	ok := Config{DatabaseURL: "postgres://x", JWTAccessSecret: []byte("k"), RedisAddr: "localhost:6379"}
	assert.NoError(t, ok.Validate())
}
