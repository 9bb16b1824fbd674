package database

import (
	"context"
	"testing"
	"time"

	"github.com/koustreak/cursorkit/internal/errs"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("postgres://localhost/db")

	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, int32(25), cfg.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.QueryTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"mysql", func(c *Config) { c.Driver = DriverMySQL }, true},
		{"unknown driver", func(c *Config) { c.Driver = "oracle" }, false},
		{"empty dsn", func(c *Config) { c.DSN = "" }, false},
		{"min above max", func(c *Config) { c.MinConns = 30 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig("dsn")
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errs.IsInvalidInput(err))
		})
	}
}

func TestConfig_QueryContext(t *testing.T) {
	t.Run("positive timeout sets a deadline", func(t *testing.T) {
		cfg := DefaultConfig("postgres://localhost/db")
		ctx, cancel := cfg.QueryContext(context.Background())
		defer cancel()

		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(cfg.QueryTimeout), deadline, time.Second)
	})

	t.Run("zero timeout leaves the query unbounded", func(t *testing.T) {
		cfg := DefaultConfig("postgres://localhost/db")
		cfg.QueryTimeout = 0
		ctx, cancel := cfg.QueryContext(context.Background())

		_, ok := ctx.Deadline()
		assert.False(t, ok)
		assert.NoError(t, ctx.Err())

		cancel()
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	})

	t.Run("negative connect timeout leaves the ping unbounded", func(t *testing.T) {
		cfg := DefaultConfig("postgres://localhost/db")
		cfg.ConnectTimeout = -time.Second
		ctx, cancel := cfg.ConnectContext(context.Background())
		defer cancel()

		_, ok := ctx.Deadline()
		assert.False(t, ok)
	})
}
