package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.False(t, cfg.Redis.Enabled())
	assert.Empty(t, cfg.Reconcile.Schedule)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("DB_LOCK_TIMEOUT", "750ms")
	t.Setenv("PART_LOCK_WAIT", "2")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RECONCILE_SCHEDULE", "0 3 * * *")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.DB.LockTimeout)
	assert.Equal(t, 2*time.Second, cfg.Lock.Wait)
	assert.Equal(t, 10*time.Second, cfg.Lock.TTL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, "0 3 * * *", cfg.Reconcile.Schedule)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "taller", Password: "p@ss/word", DBName: "taller", SSLMode: "disable"}
	assert.Equal(t, "postgres://taller:p%40ss%2Fword@db:5432/taller?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
