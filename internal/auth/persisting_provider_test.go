package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/lingua/internal/auth"
)

var errDiskFull = errors.New("disk full")

type mockPersister struct {
	mu      sync.Mutex
	saved   []string
	baseURL string
	err     error
}

func (m *mockPersister) UpdateToken(baseURL, accessToken string, _ time.Time, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.baseURL = baseURL
	m.saved = append(m.saved, accessToken)

	return m.err
}

type warnLogger struct {
	mu    sync.Mutex
	warns int
}

func (l *warnLogger) Debug(string, map[string]interface{}) {}
func (l *warnLogger) Info(string, map[string]interface{})  {}
func (l *warnLogger) Error(string, map[string]interface{}) {}

func (l *warnLogger) Warn(string, map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.warns++
}

func TestPersistingProvider(t *testing.T) {
	t.Parallel()

	t.Run("persists only changed tokens", func(t *testing.T) {
		t.Parallel()

		expiresAt := time.Now().Add(time.Hour)
		store := auth.NewTokenStore()
		store.Set(&auth.Token{AccessToken: "initial", ExpiresAt: expiresAt})

		persister := &mockPersister{}
		provider := auth.NewPersistingProvider(auth.NewRefreshingProvider(store, nil), persister,
			"http://localhost:8080", "initial", expiresAt, nil)

		token, err := provider.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "initial", token)
		assert.Empty(t, persister.saved)

		store.Set(&auth.Token{AccessToken: "rotated", ExpiresAt: expiresAt.Add(time.Hour)})

		for range 2 {
			token, err = provider.Token(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "rotated", token)
		}

		assert.Equal(t, []string{"rotated"}, persister.saved)
		assert.Equal(t, "http://localhost:8080", persister.baseURL)
	})

	t.Run("persistence failure is logged, not returned", func(t *testing.T) {
		t.Parallel()

		logger := &warnLogger{}
		provider := auth.NewPersistingProvider(auth.NewStaticProvider("opaque"),
			&mockPersister{err: errDiskFull}, "http://localhost:8080", "", time.Time{}, logger)

		token, err := provider.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "opaque", token)
		assert.Equal(t, 1, logger.warns)
	})

	t.Run("missing persister is logged", func(t *testing.T) {
		t.Parallel()

		logger := &warnLogger{}
		provider := auth.NewPersistingProvider(auth.NewStaticProvider("opaque"), nil, "", "", time.Time{}, logger)

		token, err := provider.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "opaque", token)
		assert.Equal(t, 1, logger.warns)
	})

	t.Run("empty token is not persisted", func(t *testing.T) {
		t.Parallel()

		persister := &mockPersister{}
		provider := auth.NewPersistingProvider(auth.NewStaticProvider(""), persister, "", "", time.Time{}, nil)

		token, err := provider.Token(context.Background())
		require.NoError(t, err)
		assert.Empty(t, token)
		assert.Empty(t, persister.saved)
	})
}
