package lingua

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RequestSpec describes a single call. It is built per call and discarded afterwards.
type RequestSpec struct {
	// Path is the endpoint path relative to the version prefix, e.g. "videos".
	// One leading slash is ignored.
	Path string
	// Method is one of GET, POST, PUT, PATCH or DELETE. Empty means GET.
	Method string
	// APIVersion overrides the client's APIVersionPrefix when non-nil.
	APIVersion *string
	// Query parameters, encoded in the order given.
	Query Query
	// Headers override the client's default headers on key collision.
	Headers map[string]string
	// Body is sent for non-GET requests. Strings and byte slices are sent as-is,
	// anything else is JSON encoded.
	Body any
	// RequiresAuth makes the request fail unless a bearer token is available.
	RequiresAuth bool
	// Timeout overrides the client's Timeout when positive.
	Timeout time.Duration
}

// QueryParam is one key/value pair of a Query.
type QueryParam struct {
	Key   string
	Value any
}

// Query is an ordered list of query parameters.
type Query []QueryParam

// NewQuery builds a Query from alternating keys and values.
// A trailing key without a value is dropped.
func NewQuery(pairs ...any) Query {
	query := make(Query, 0, len(pairs)/2)

	for i := 0; i+1 < len(pairs); i += 2 {
		query = append(query, QueryParam{Key: fmt.Sprint(pairs[i]), Value: pairs[i+1]})
	}

	return query
}

// Add appends a parameter and returns the extended query.
func (q Query) Add(key string, value any) Query {
	return append(q, QueryParam{Key: key, Value: value})
}

// Encode renders the query as "k=v&k2=v2" in insertion order, without a leading "?".
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}

	var builder strings.Builder

	for i, param := range q {
		if i > 0 {
			builder.WriteByte('&')
		}

		builder.WriteString(url.QueryEscape(param.Key))
		builder.WriteByte('=')
		builder.WriteString(url.QueryEscape(stringify(param.Value)))
	}

	return builder.String()
}

// Values converts the query to url.Values. Order is lost.
func (q Query) Values() url.Values {
	values := make(url.Values, len(q))
	for _, param := range q {
		values.Add(param.Key, stringify(param.Value))
	}

	return values
}

func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case time.Time:
		return typed.Format(time.RFC3339)
	default:
		return fmt.Sprint(typed)
	}
}

// RequestOption adjusts a RequestSpec built by the convenience methods.
type RequestOption func(*RequestSpec)

// Apply runs the options against spec.
func (s *RequestSpec) Apply(opts ...RequestOption) {
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
}

// EffectiveMethod returns the upper-cased method, defaulting to GET.
func (s *RequestSpec) EffectiveMethod() string {
	if s.Method == "" {
		return http.MethodGet
	}

	return strings.ToUpper(s.Method)
}

// WithAuth marks the request as requiring a bearer token.
func WithAuth() RequestOption {
	return func(s *RequestSpec) {
		s.RequiresAuth = true
	}
}

// WithHeader sets one per-request header.
func WithHeader(key, value string) RequestOption {
	return func(s *RequestSpec) {
		if s.Headers == nil {
			s.Headers = make(map[string]string)
		}

		s.Headers[key] = value
	}
}

// WithHeaders sets several per-request headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(s *RequestSpec) {
		for key, value := range headers {
			WithHeader(key, value)(s)
		}
	}
}

// WithAPIVersion overrides the version prefix for one request.
func WithAPIVersion(prefix string) RequestOption {
	return func(s *RequestSpec) {
		s.APIVersion = &prefix
	}
}

// WithTimeout overrides the timeout for one request.
func WithTimeout(timeout time.Duration) RequestOption {
	return func(s *RequestSpec) {
		s.Timeout = timeout
	}
}

// WithQuery appends query parameters.
func WithQuery(query Query) RequestOption {
	return func(s *RequestSpec) {
		s.Query = append(s.Query, query...)
	}
}
