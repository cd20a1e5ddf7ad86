package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "10M", cfg.BodyLimit)
	assert.Equal(t, "bookworm", cfg.Mongo.Database)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, "book-covers", cfg.S3.Bucket)
	assert.Equal(t, "covers/", cfg.S3.KeyPrefix)
	assert.Equal(t, 2, cfg.Cleanup.Workers)
	assert.Equal(t, 14*time.Minute, cfg.KeepAlive.Interval)
	assert.False(t, cfg.IsProduction())
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"ENV":                "production",
		"BCRYPT_COST":        "12",
		"S3_ENDPOINT":        "http://minio:9000",
		"KEEPALIVE_URL":      "https://bookworm.example.com/health",
		"KEEPALIVE_INTERVAL": "5m",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "http://minio:9000", cfg.S3.Endpoint)
	assert.Equal(t, 5*time.Minute, cfg.KeepAlive.Interval)
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"cost too low", map[string]string{"JWT_SECRET": "x", "BCRYPT_COST": "3"}},
		{"cost too high", map[string]string{"JWT_SECRET": "x", "BCRYPT_COST": "15"}},
		{"no workers", map[string]string{"JWT_SECRET": "x", "CLEANUP_WORKERS": "0"}},
		{"bad duration", map[string]string{"JWT_SECRET": "x", "IDEMPOTENCY_TTL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.env))
			assert.Error(t, err)
		})
	}
}
