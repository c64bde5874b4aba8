package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tourops", cfg.App.Name)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 1.95583, cfg.Reconcile.ExchangeRate)
	assert.Equal(t, 0.05, cfg.Reconcile.PaidTolerance)
	assert.Equal(t, 50*time.Millisecond, cfg.Reconcile.Debounce)
	assert.False(t, cfg.Redis.Enabled)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("TOUROPS_APP_PORT", "9090")
	t.Setenv("TOUROPS_RECONCILE_PAID_TOLERANCE", "0.1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 0.1, cfg.Reconcile.PaidTolerance)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database:  DatabaseConfig{Driver: "sqlite"},
			Reconcile: ReconcileConfig{ExchangeRate: 1.95583, PaidTolerance: 0.05, Debounce: 50 * time.Millisecond},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("unknown driver fails", func(t *testing.T) {
		cfg := base()
		cfg.Database.Driver = "oracle"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive rate fails", func(t *testing.T) {
		cfg := base()
		cfg.Reconcile.ExchangeRate = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative tolerance fails", func(t *testing.T) {
		cfg := base()
		cfg.Reconcile.PaidTolerance = -0.01
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero debounce fails", func(t *testing.T) {
		cfg := base()
		cfg.Reconcile.Debounce = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "tourops", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=tourops sslmode=disable", cfg.DSN())
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6379}
	assert.Equal(t, "cache:6379", cfg.Addr())
}
