// Package config loads client settings from the environment and the config file.
package config

import (
	"errors"
	"fmt"
	"maps"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/lingua/internal/constants"
	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

// EnvPrefix is prepended to every environment variable, e.g. LINGUA_BACKEND_URL.
const EnvPrefix = "LINGUA"

// Setting keys, shared by the config file, the environment and CLI flags.
const (
	KeyBackendURL       = "backend_url"
	KeyBackendHost      = "backend_host"
	KeyBackendPort      = "backend_port"
	KeyBackendScheme    = "backend_scheme"
	KeyAPIVersion       = "api_version"
	KeyTimeout          = "timeout"
	KeyHeaders          = "headers"
	KeyToken            = "token"
	KeyTokenExpiresAt   = "token_expires_at"
	KeyRefreshToken     = "refresh_token"
	KeyTokenURL         = "token_url"
	KeyClientID         = "client_id"
	KeyOutput           = "output"
	KeyNATSURL          = "nats_url"
	KeyTelemetrySubject = "telemetry_subject"
)

// Settings is the persisted configuration file.
type Settings struct {
	BackendURL       string            `json:"backend_url,omitempty"       yaml:"backend_url,omitempty"`
	BackendHost      string            `json:"backend_host,omitempty"      yaml:"backend_host,omitempty"`
	BackendPort      int               `json:"backend_port,omitempty"      yaml:"backend_port,omitempty"`
	BackendScheme    string            `json:"backend_scheme,omitempty"    yaml:"backend_scheme,omitempty"`
	APIVersion       string            `json:"api_version,omitempty"       yaml:"api_version,omitempty"`
	Timeout          string            `json:"timeout,omitempty"           yaml:"timeout,omitempty"`
	Headers          map[string]string `json:"headers,omitempty"           yaml:"headers,omitempty"`
	Token            string            `json:"token,omitempty"             yaml:"token,omitempty"`
	TokenExpiresAt   *time.Time        `json:"token_expires_at,omitempty"  yaml:"token_expires_at,omitempty"`
	RefreshToken     string            `json:"refresh_token,omitempty"     yaml:"refresh_token,omitempty"`
	TokenURL         string            `json:"token_url,omitempty"         yaml:"token_url,omitempty"`
	ClientID         string            `json:"client_id,omitempty"         yaml:"client_id,omitempty"`
	Output           string            `json:"output,omitempty"            yaml:"output,omitempty"`
	NATSURL          string            `json:"nats_url,omitempty"          yaml:"nats_url,omitempty"`
	TelemetrySubject string            `json:"telemetry_subject,omitempty" yaml:"telemetry_subject,omitempty"`
}

// NewViper returns a viper instance reading LINGUA_* variables and, when path
// is non-empty, the given config file.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyBackendHost, constants.DefaultBackendHost)
	v.SetDefault(KeyBackendPort, constants.DefaultBackendPort)
	v.SetDefault(KeyBackendScheme, constants.DefaultBackendScheme)
	v.SetDefault(KeyAPIVersion, constants.DefaultAPIVersionPrefix)
	v.SetDefault(KeyOutput, constants.FormatTable)
	v.SetDefault(KeyTelemetrySubject, constants.DefaultTelemetrySubject)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
	}

	return v
}

// ReadFile reads the config file configured on v. A missing file is not an error.
func ReadFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("reading config file: %w", err)
}

// ClientConfig resolves the settings in v into a validated lingua.Config.
//
// LINGUA_BACKEND_URL wins over the host/port/scheme triple.
func ClientConfig(v *viper.Viper) (lingua.Config, error) {
	baseURL, err := resolveBaseURL(v)
	if err != nil {
		return lingua.Config{}, err
	}

	timeout, err := ParseTimeout(v.GetString(KeyTimeout))
	if err != nil {
		return lingua.Config{}, err
	}

	config := lingua.Config{
		BaseURL:          baseURL,
		APIVersionPrefix: v.GetString(KeyAPIVersion),
		Timeout:          timeout,
	}

	if headers := v.GetStringMapString(KeyHeaders); len(headers) > 0 {
		config.DefaultHeaders = lingua.DefaultConfig().DefaultHeaders
		// viper lower-cases map keys.
		maps.Copy(config.DefaultHeaders, lingua.CanonicalHeaders(headers))
	}

	return config.WithDefaults(), nil
}

func resolveBaseURL(v *viper.Viper) (string, error) {
	if raw := strings.TrimSpace(v.GetString(KeyBackendURL)); raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return "", fmt.Errorf("%w: %q", constants.ErrInvalidBackendURL, raw)
		}

		return strings.TrimSuffix(raw, "/"), nil
	}

	port := v.GetInt(KeyBackendPort)
	if port < 1 || port > 65535 {
		return "", fmt.Errorf("%w: %s", constants.ErrInvalidPort, v.GetString(KeyBackendPort))
	}

	scheme := v.GetString(KeyBackendScheme)
	host := v.GetString(KeyBackendHost)

	if scheme == "" || host == "" {
		return "", fmt.Errorf("%w: %s://%s", constants.ErrInvalidBackendURL, scheme, host)
	}

	return scheme + "://" + net.JoinHostPort(host, strconv.Itoa(port)), nil
}

// ParseTimeout accepts a Go duration ("10s") or a bare number of milliseconds.
// An empty value means the default.
func ParseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	if millis, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if millis <= 0 {
			return 0, fmt.Errorf("%w: %s", constants.ErrInvalidTimeout, raw)
		}

		return time.Duration(millis) * time.Millisecond, nil
	}

	timeout, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", constants.ErrInvalidTimeout, err)
	}

	if timeout <= 0 {
		return 0, fmt.Errorf("%w: %s", constants.ErrInvalidTimeout, raw)
	}

	return timeout, nil
}

// DefaultPath returns ~/.lingua/config.yml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	return filepath.Join(home, ".lingua", "config.yml"), nil
}

// LoadSettings reads the settings file at path. A missing file yields empty settings.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}

		return nil, fmt.Errorf("reading config file: %w", err)
	}

	settings := &Settings{}

	err = yaml.Unmarshal(data, settings)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return settings, nil
}

// SaveSettings writes settings to path, creating the directory if needed.
func SaveSettings(path string, settings *Settings) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Set assigns one setting by key, validating the value.
func (s *Settings) Set(key, value string) error {
	switch key {
	case KeyBackendURL:
		s.BackendURL = value
	case KeyBackendHost:
		s.BackendHost = value
	case KeyBackendPort:
		port, err := strconv.Atoi(value)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("%w: %s", constants.ErrInvalidPort, value)
		}

		s.BackendPort = port
	case KeyBackendScheme:
		s.BackendScheme = value
	case KeyAPIVersion:
		s.APIVersion = value
	case KeyTimeout:
		_, err := ParseTimeout(value)
		if err != nil {
			return err
		}

		s.Timeout = value
	case KeyTokenURL:
		s.TokenURL = value
	case KeyClientID:
		s.ClientID = value
	case KeyOutput:
		s.Output = value
	case KeyNATSURL:
		s.NATSURL = value
	case KeyTelemetrySubject:
		s.TelemetrySubject = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

// ClearToken forgets the stored credentials.
func (s *Settings) ClearToken() {
	s.Token = ""
	s.TokenExpiresAt = nil
	s.RefreshToken = ""
}
