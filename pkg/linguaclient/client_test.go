package linguaclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/lingua/pkg/lingua"
	"github.com/fivetwenty-io/lingua/pkg/linguaclient"
)

func TestNewRequestClient_Defaults(t *testing.T) {
	t.Parallel()

	requests := linguaclient.NewRequestClient(lingua.Config{})

	assert.Equal(t, lingua.DefaultConfig(), requests.Config())
	assert.Nil(t, requests.TokenProvider())
	assert.Equal(t, "http://localhost:8080/v1/api/videos", requests.BuildURL("/videos", nil, nil))
}

func TestNew_WithAccessToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		assert.Equal(t, "lingua-test", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(lingua.Profile{ID: "u1", DisplayName: "Ana"})
	}))
	defer server.Close()

	cli := linguaclient.New(lingua.Config{BaseURL: server.URL},
		linguaclient.WithAccessToken("abc"),
		linguaclient.WithUserAgent("lingua-test"),
	)

	profile, err := cli.Profile().Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.DisplayName)
}

func TestNew_WithClientCredentials(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "cc-token",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v1/api/videos/v1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer cc-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(lingua.Video{ID: "v1"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	cli := linguaclient.New(lingua.Config{BaseURL: server.URL},
		linguaclient.WithClientCredentials(server.URL+"/oauth/token", "id", "secret"))

	for range 2 {
		video, err := cli.Videos().Get(context.Background(), "v1")
		require.NoError(t, err)
		assert.Equal(t, "v1", video.ID)
	}

	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestNew_WithRetries(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)

			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	requests := linguaclient.NewRequestClient(lingua.Config{BaseURL: server.URL},
		linguaclient.WithRetries(2, time.Millisecond, 5*time.Millisecond))

	_, err := requests.Get(context.Background(), "videos", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestNewFromEnvironment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/api/user/profile", r.URL.Path)
		assert.Equal(t, "Bearer env-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(lingua.Profile{ID: "u1"})
	}))
	defer server.Close()

	t.Setenv("LINGUA_BACKEND_URL", server.URL)
	t.Setenv("LINGUA_API_VERSION", "/v2/api")
	t.Setenv("LINGUA_TIMEOUT", "2s")
	t.Setenv("LINGUA_TOKEN", "env-token")

	cli, err := linguaclient.NewFromEnvironment()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cli.Requests().Config().Timeout)

	profile, err := cli.Profile().Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.ID)
}

func TestNewFromEnvironment_Invalid(t *testing.T) {
	t.Setenv("LINGUA_TIMEOUT", "-5s")

	_, err := linguaclient.NewFromEnvironment()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading configuration from environment")
}
