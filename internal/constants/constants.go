package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Backend defaults.
const (
	// DefaultBackendScheme is used when the environment names only a host and port.
	DefaultBackendScheme = "http"

	// DefaultBackendHost is the backend host used when nothing is configured.
	DefaultBackendHost = "localhost"

	// DefaultBackendPort is the backend port used when nothing is configured.
	DefaultBackendPort = 8080

	// DefaultBaseURL is DefaultBackendScheme://DefaultBackendHost:DefaultBackendPort.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultAPIVersionPrefix selects the backend API generation.
	DefaultAPIVersionPrefix = "/v1/api"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as token exchange.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits. Retries are disabled unless explicitly configured.
const (
	// DefaultRetryMax is the retry count the CLI uses with --retry.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Authentication.
const (
	// TokenExpirationBuffer treats tokens expiring within this window as expired.
	TokenExpirationBuffer = 30 * time.Second

	// BearerScheme prefixes the Authorization header value.
	BearerScheme = "Bearer"
)

// Header names and values.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderUserAgent     = "User-Agent"
	HeaderRequestID     = "X-Request-ID"

	// ContentTypeJSON is the default request content type.
	ContentTypeJSON = "application/json"

	// DefaultAccept is sent unless a caller sets Accept.
	DefaultAccept = "application/json, text/plain, */*"

	// DefaultUserAgent identifies this client.
	DefaultUserAgent = "lingua-client"
)

// Format constants.
const (
	// FormatJSON selects JSON output.
	FormatJSON = "json"

	// FormatYAML selects YAML output.
	FormatYAML = "yaml"

	// FormatTable selects table output.
	FormatTable = "table"
)

// Telemetry.
const (
	// DefaultTelemetrySubject is the NATS subject request events are published on.
	DefaultTelemetrySubject = "lingua.requests"

	// TelemetryConnectTimeout bounds the initial NATS connection.
	TelemetryConnectTimeout = 5 * time.Second
)

// Pagination.
const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 20

	// MaxBodyLogBytes limits how much of a body debug logging prints.
	MaxBodyLogBytes = 512
)

// CLI.
const (
	// MinimumArgumentCount is the argument count for KEY VALUE style commands.
	MinimumArgumentCount = 2

	// MaskedSecret replaces secrets in output.
	MaskedSecret = "***"

	// DateLayout is used for date-only query values such as calendar ranges.
	DateLayout = "2006-01-02"
)
