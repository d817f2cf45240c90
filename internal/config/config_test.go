package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/lingua/internal/config"
	"github.com/fivetwenty-io/lingua/internal/constants"
)

func TestClientConfig_Defaults(t *testing.T) {
	t.Parallel()

	v := config.NewViper("")

	cfg, err := config.ClientConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "/v1/api", cfg.APIVersionPrefix)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, map[string]string{"Content-Type": "application/json"}, cfg.DefaultHeaders)
}

func TestClientConfig_Environment(t *testing.T) {
	t.Run("host, port and scheme", func(t *testing.T) {
		t.Setenv("LINGUA_BACKEND_HOST", "api.lingua.test")
		t.Setenv("LINGUA_BACKEND_PORT", "8443")
		t.Setenv("LINGUA_BACKEND_SCHEME", "https")
		t.Setenv("LINGUA_API_VERSION", "/v2/api")
		t.Setenv("LINGUA_TIMEOUT", "5s")

		cfg, err := config.ClientConfig(config.NewViper(""))
		require.NoError(t, err)
		assert.Equal(t, "https://api.lingua.test:8443", cfg.BaseURL)
		assert.Equal(t, "/v2/api", cfg.APIVersionPrefix)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("backend url wins", func(t *testing.T) {
		t.Setenv("LINGUA_BACKEND_HOST", "ignored")
		t.Setenv("LINGUA_BACKEND_URL", "https://api.example.com/")

		cfg, err := config.ClientConfig(config.NewViper(""))
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Setenv("LINGUA_BACKEND_PORT", "99999")

		_, err := config.ClientConfig(config.NewViper(""))
		assert.ErrorIs(t, err, constants.ErrInvalidPort)
	})

	t.Run("invalid backend url", func(t *testing.T) {
		t.Setenv("LINGUA_BACKEND_URL", "localhost")

		_, err := config.ClientConfig(config.NewViper(""))
		assert.ErrorIs(t, err, constants.ErrInvalidBackendURL)
	})
}

func TestClientConfig_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	content := `backend_url: https://staging.lingua.test
api_version: /v1/api
timeout: "2500"
headers:
  Accept-Language: es
  content-type: application/vnd.lingua+json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := config.NewViper(path)
	require.NoError(t, config.ReadFile(v))

	cfg, err := config.ClientConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.lingua.test", cfg.BaseURL)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, map[string]string{
		"Accept-Language": "es",
		"Content-Type":    "application/vnd.lingua+json",
	}, cfg.DefaultHeaders)
}

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()

	v := config.NewViper(filepath.Join(t.TempDir(), "absent.yml"))
	assert.NoError(t, config.ReadFile(v))
}

func TestParseTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw      string
		expected time.Duration
		wantErr  bool
	}{
		{raw: "", expected: 0},
		{raw: "10s", expected: 10 * time.Second},
		{raw: "1500", expected: 1500 * time.Millisecond},
		{raw: "0", wantErr: true},
		{raw: "-1s", wantErr: true},
		{raw: "soon", wantErr: true},
	}

	for _, testCase := range tests {
		got, err := config.ParseTimeout(testCase.raw)
		if testCase.wantErr {
			assert.ErrorIs(t, err, constants.ErrInvalidTimeout, testCase.raw)

			continue
		}

		require.NoError(t, err, testCase.raw)
		assert.Equal(t, testCase.expected, got, testCase.raw)
	}
}

func TestSettings_SaveLoadAndSet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	settings, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, &config.Settings{}, settings)

	require.NoError(t, settings.Set(config.KeyBackendURL, "https://api.lingua.test"))
	require.NoError(t, settings.Set(config.KeyTimeout, "15s"))
	require.ErrorIs(t, settings.Set(config.KeyBackendPort, "http"), constants.ErrInvalidPort)
	require.ErrorIs(t, settings.Set("colour", "blue"), constants.ErrUnknownConfigKey)
	require.ErrorIs(t, settings.Set(config.KeyTimeout, "never"), constants.ErrInvalidTimeout)

	require.NoError(t, config.SaveSettings(path, settings))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.lingua.test", loaded.BackendURL)
	assert.Equal(t, "15s", loaded.Timeout)
}

func TestFilePersister_UpdateToken(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, config.SaveSettings(path, &config.Settings{Output: "json"}))

	expiresAt := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	persister := config.NewFilePersister(path)
	require.NoError(t, persister.UpdateToken("http://localhost:8080", "access", expiresAt, "refresh"))

	loaded, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "json", loaded.Output)
	assert.Equal(t, "http://localhost:8080", loaded.BackendURL)
	assert.Equal(t, "access", loaded.Token)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	require.NotNil(t, loaded.TokenExpiresAt)
	assert.True(t, expiresAt.Equal(*loaded.TokenExpiresAt))

	loaded.ClearToken()
	assert.Empty(t, loaded.Token)
	assert.Nil(t, loaded.TokenExpiresAt)
}
