package lingua

import (
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/fivetwenty-io/lingua/internal/constants"
)

// Config is the immutable configuration of a RequestClient.
//
// Zero-valued fields fall back to defaults when a client is built:
// BaseURL to the locally configured backend address, APIVersionPrefix to
// "/v1/api", DefaultHeaders to a JSON Content-Type and Timeout to 30s.
type Config struct {
	// BaseURL is the backend address, e.g. "http://localhost:8080".
	// A trailing slash is trimmed.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	// APIVersionPrefix is inserted between BaseURL and the endpoint path.
	APIVersionPrefix string `json:"api_version" yaml:"api_version" mapstructure:"api_version"`
	// DefaultHeaders are sent with every request. Per-request headers win on collision.
	DefaultHeaders map[string]string `json:"headers,omitempty" yaml:"headers,omitempty" mapstructure:"headers"`
	// Timeout bounds every request unless the request sets its own.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ConfigOverride carries the fields to change when deriving a client.
// Nil pointers, a nil map and a zero Timeout keep the parent's value.
type ConfigOverride struct {
	BaseURL          *string
	APIVersionPrefix *string
	// DefaultHeaders are merged into the parent's headers by canonical name, not substituted.
	DefaultHeaders map[string]string
	Timeout        time.Duration
}

// DefaultConfig returns the configuration a client uses when given an empty Config.
func DefaultConfig() Config {
	return Config{
		BaseURL:          constants.DefaultBaseURL,
		APIVersionPrefix: constants.DefaultAPIVersionPrefix,
		DefaultHeaders:   map[string]string{constants.HeaderContentType: constants.ContentTypeJSON},
		Timeout:          constants.DefaultHTTPTimeout,
	}
}

// WithDefaults returns a copy of c with unset fields filled in.
func (c Config) WithDefaults() Config {
	defaults := DefaultConfig()
	out := c.Clone()

	if out.BaseURL == "" {
		out.BaseURL = defaults.BaseURL
	}

	out.BaseURL = strings.TrimSuffix(out.BaseURL, "/")

	if out.APIVersionPrefix == "" {
		out.APIVersionPrefix = defaults.APIVersionPrefix
	}

	if out.DefaultHeaders == nil {
		out.DefaultHeaders = defaults.DefaultHeaders
	} else {
		out.DefaultHeaders = CanonicalHeaders(out.DefaultHeaders)
	}

	if out.Timeout <= 0 {
		out.Timeout = defaults.Timeout
	}

	return out
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	if c.DefaultHeaders != nil {
		out.DefaultHeaders = maps.Clone(c.DefaultHeaders)
	}

	return out
}

// Merge returns a copy of c with the override applied.
func (c Config) Merge(o ConfigOverride) Config {
	out := c.Clone()

	if o.BaseURL != nil {
		out.BaseURL = strings.TrimSuffix(*o.BaseURL, "/")
	}

	if o.APIVersionPrefix != nil {
		out.APIVersionPrefix = *o.APIVersionPrefix
	}

	if len(o.DefaultHeaders) > 0 {
		merged := CanonicalHeaders(out.DefaultHeaders)
		maps.Copy(merged, CanonicalHeaders(o.DefaultHeaders))
		out.DefaultHeaders = merged
	}

	if o.Timeout > 0 {
		out.Timeout = o.Timeout
	}

	return out
}

// CanonicalHeaders returns a copy of headers keyed by canonical header name,
// so "content-type" and "Content-Type" name the same entry. When keys collide
// after canonicalization the one sorting last wins.
func CanonicalHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))

	for _, key := range slices.Sorted(maps.Keys(headers)) {
		out[http.CanonicalHeaderKey(key)] = headers[key]
	}

	return out
}

// String returns a pointer to s, for ConfigOverride and RequestSpec fields.
func String(s string) *string {
	return &s
}
