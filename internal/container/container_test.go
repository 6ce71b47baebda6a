package container

import (
	"context"
	"testing"

	"github.com/cartwise/backend/config"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLogging(t *testing.T) {
	defer func() {
		log.SetLevel(log.InfoLevel)
		log.SetFormatter(&log.TextFormatter{})
	}()

	t.Run("json format at debug level", func(t *testing.T) {
		require.NoError(t, ConfigureLogging(config.LogConfig{Level: "debug", Format: "json"}))
		assert.Equal(t, log.DebugLevel, log.GetLevel())
		assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)
	})

	t.Run("text format at warn level", func(t *testing.T) {
		require.NoError(t, ConfigureLogging(config.LogConfig{Level: "warn", Format: "text"}))
		assert.Equal(t, log.WarnLevel, log.GetLevel())
		assert.IsType(t, &log.TextFormatter{}, log.StandardLogger().Formatter)
	})

	t.Run("unknown level", func(t *testing.T) {
		assert.Error(t, ConfigureLogging(config.LogConfig{Level: "loud", Format: "text"}))
	})
}

func TestNewRejectsBadDatabaseURL(t *testing.T) {
	cfg := &config.Config{
		Catalog: config.CatalogConfig{DatabaseURL: "::not a url::"},
		Cache:   config.CacheConfig{Type: "memory"},
	}

	c, err := New(context.Background(), cfg)

	assert.Nil(t, c)
	assert.ErrorContains(t, err, "invalid catalog database URL")
}
