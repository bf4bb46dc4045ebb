package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFromMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadFrom(t *testing.T) {

	t.Run("defaults", func(t *testing.T) {
		config, err := LoadFrom("", envFromMap(nil))
		if assert.NoError(t, err) {
			assert.Equal(t, Default(), config)
		}
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		config, err := LoadFrom(filepath.Join(t.TempDir(), CONFIG_FILE_NAME), envFromMap(nil))
		if assert.NoError(t, err) {
			assert.Empty(t, config.ConfigFile)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), CONFIG_FILE_NAME)
		require.NoError(t, os.WriteFile(path, []byte("log-level: debug\njson: true\n"), 0o600))

		config, err := LoadFrom(path, envFromMap(nil))
		if assert.NoError(t, err) {
			assert.Equal(t, zerolog.DebugLevel, config.LogLevel)
			assert.True(t, config.JSONReports)
			assert.Equal(t, path, config.ConfigFile)
		}
	})

	t.Run("environment variables take precedence over the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), CONFIG_FILE_NAME)
		require.NoError(t, os.WriteFile(path, []byte("log-level: debug\njson: true\n"), 0o600))

		config, err := LoadFrom(path, envFromMap(map[string]string{
			LOG_LEVEL_ENV_VAR: "WARN",
			JSON_ENV_VAR:      "0",
		}))
		if assert.NoError(t, err) {
			assert.Equal(t, zerolog.WarnLevel, config.LogLevel)
			assert.False(t, config.JSONReports)
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, err := LoadFrom("", envFromMap(map[string]string{LOG_LEVEL_ENV_VAR: "loud"}))
		assert.Error(t, err)

		path := filepath.Join(t.TempDir(), CONFIG_FILE_NAME)
		require.NoError(t, os.WriteFile(path, []byte("log-level: loud\n"), 0o600))
		_, err = LoadFrom(path, envFromMap(nil))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), CONFIG_FILE_NAME)
		require.NoError(t, os.WriteFile(path, []byte("json: [\n"), 0o600))
		_, err := LoadFrom(path, envFromMap(nil))
		assert.Error(t, err)
	})
}
