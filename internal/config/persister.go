package config

import (
	"fmt"
	"sync"
	"time"
)

// FilePersister stores refreshed tokens in the settings file.
type FilePersister struct {
	path string
	mu   sync.Mutex
}

// NewFilePersister creates a persister writing to path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// UpdateToken implements auth.TokenPersister. The settings file holds one
// backend, so baseURL is recorded only when none is configured yet.
func (p *FilePersister) UpdateToken(baseURL, accessToken string, expiresAt time.Time, refreshToken string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	settings, err := LoadSettings(p.path)
	if err != nil {
		return fmt.Errorf("loading config for token update: %w", err)
	}

	if settings.BackendURL == "" && settings.BackendHost == "" {
		settings.BackendURL = baseURL
	}

	settings.Token = accessToken
	settings.TokenExpiresAt = nil

	if !expiresAt.IsZero() {
		expiry := expiresAt.UTC()
		settings.TokenExpiresAt = &expiry
	}

	if refreshToken != "" {
		settings.RefreshToken = refreshToken
	}

	return SaveSettings(p.path, settings)
}
