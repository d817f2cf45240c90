package constants

import "errors"

// Configuration errors.
var (
	ErrInvalidBackendURL = errors.New("invalid backend URL")
	ErrInvalidPort       = errors.New("backend port must be between 1 and 65535")
	ErrInvalidTimeout    = errors.New("timeout must be positive")
	ErrUnknownConfigKey  = errors.New("unknown configuration key")
)

// Authentication errors.
var (
	ErrInvalidJWTFormat  = errors.New("invalid JWT format")
	ErrNoExpirationClaim = errors.New("no expiration claim found")
	ErrNoRefreshFunc     = errors.New("no refresh function configured")
	ErrNoTokenPersister  = errors.New("no token persister configured")
)

// CLI errors.
var (
	ErrInvalidKeyValue = errors.New("expected key=value")
	ErrInvalidMethod   = errors.New("unsupported HTTP method")
	ErrEmptyToken      = errors.New("token must not be empty")
)
