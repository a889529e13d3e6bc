package conf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "modelguard", config.APIServer.Name)
	assert.Equal(t, 8090, config.APIServer.Port)
	assert.Equal(t, 30*time.Second, config.APIServer.ReadTimeout)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "memory", config.DB.Dialect)
	assert.True(t, config.Guard.PerObjectControl)
	assert.True(t, config.Guard.EnforceBlocking)
	assert.Empty(t, config.Guard.DenialTemplate)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MODELGUARD_SERVER_PORT", "9999")
	t.Setenv("MODELGUARD_DB_DIALECT", "sqlite")
	t.Setenv("MODELGUARD_GUARD_ENFORCE_BLOCKING", "false")

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, config.APIServer.Port)
	assert.Equal(t, "sqlite", config.DB.Dialect)
	assert.False(t, config.Guard.EnforceBlocking)
}
