package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/numbleroot/lwwset/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Functions

// unsetEnv removes key from the environment for
// the duration of the test.
func unsetEnv(t *testing.T, key string) {

	t.Setenv(key, "")
	os.Unsetenv(key)
}

// TestLoadEnv executes a black-box test on the
// implemented functionalities to load a .env file.
func TestLoadEnv(t *testing.T) {

	unsetEnv(t, "LWW_LOGLEVEL")
	unsetEnv(t, "LWW_PROMETHEUS_ADDR")

	path := filepath.Join(t.TempDir(), ".env")
	err := os.WriteFile(path, []byte("LWW_LOGLEVEL=warn\nLWW_PROMETHEUS_ADDR=:9100\n"), 0600)
	require.NoError(t, err)

	env, err := config.LoadEnv(path)
	require.NoError(t, err)

	// Check for test success.
	if env.LogLevel != "warn" {
		t.Fatalf("[config.TestLoadEnv] Expected '%s' but received '%s'\n", "warn", env.LogLevel)
	}

	assert.Equal(t, ":9100", env.PrometheusAddr)

	conf := &config.Config{LogLevel: "debug", PrometheusAddr: ":9099"}
	env.Apply(conf)
	assert.Equal(t, "warn", conf.LogLevel)
	assert.Equal(t, ":9100", conf.PrometheusAddr)
}

func TestLoadEnvPrecedence(t *testing.T) {

	t.Setenv("LWW_LOGLEVEL", "error")
	unsetEnv(t, "LWW_PROMETHEUS_ADDR")

	path := filepath.Join(t.TempDir(), ".env")
	err := os.WriteFile(path, []byte("LWW_LOGLEVEL=warn\n"), 0600)
	require.NoError(t, err)

	env, err := config.LoadEnv(path)
	require.NoError(t, err)

	// Process environment wins over the file.
	assert.Equal(t, "error", env.LogLevel)

	conf := &config.Config{LogLevel: "debug", PrometheusAddr: ":9099"}
	env.Apply(conf)
	assert.Equal(t, "error", conf.LogLevel)
	assert.Equal(t, ":9099", conf.PrometheusAddr)
}

func TestLoadEnvMissingFile(t *testing.T) {

	unsetEnv(t, "LWW_LOGLEVEL")
	unsetEnv(t, "LWW_PROMETHEUS_ADDR")

	env, err := config.LoadEnv(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, "", env.LogLevel)
	assert.Equal(t, "", env.PrometheusAddr)
}
