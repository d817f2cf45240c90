// Package http implements lingua.RequestClient on top of go-retryablehttp.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/lingua/internal/constants"
	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

// errDeadline is the cause attached to a request context whose own timer fired.
var errDeadline = errors.New("request deadline elapsed")

// Option configures a Client.
type Option func(*Client)

// Client implements lingua.RequestClient.
//
// Its configuration never changes after construction; the With* methods and
// Clone return new clients sharing the transport and the token provider.
type Client struct {
	config       lingua.Config
	httpClient   *retryablehttp.Client
	provider     atomic.Pointer[providerRef]
	logger       lingua.Logger
	debug        bool
	userAgent    string
	interceptors *lingua.InterceptorChain
}

type providerRef struct {
	provider lingua.TokenProvider
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger lingua.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables retries on connection errors, 429 and 5xx responses.
// Clients retry nothing unless this option is given.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithHTTPClient replaces the underlying *http.Client, e.g. to swap the transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient.HTTPClient = httpClient
		}
	}
}

// WithInterceptors installs request/response interceptors.
func WithInterceptors(chain *lingua.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithTokenProvider attaches a token provider at construction time.
func WithTokenProvider(provider lingua.TokenProvider) Option {
	return func(c *Client) {
		c.provider.Store(&providerRef{provider: provider})
	}
}

// NewClient creates a client. Unset configuration fields take their defaults;
// construction performs no I/O and cannot fail.
func NewClient(config lingua.Config, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		config:     config.WithDefaults(),
		httpClient: retryClient,
		logger:     lingua.NopLogger{},
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient.RetryMax > 0 && client.debug {
		client.httpClient.Logger = &leveledLogger{logger: client.logger}
	}

	return client
}

// Config implements lingua.RequestClient.
func (c *Client) Config() lingua.Config {
	return c.config.Clone()
}

// SetTokenProvider implements lingua.RequestClient. The last call wins.
func (c *Client) SetTokenProvider(provider lingua.TokenProvider) lingua.RequestClient {
	c.provider.Store(&providerRef{provider: provider})

	return c
}

// TokenProvider implements lingua.RequestClient.
func (c *Client) TokenProvider() lingua.TokenProvider {
	ref := c.provider.Load()
	if ref == nil {
		return nil
	}

	return ref.provider
}

// Clone implements lingua.RequestClient.
func (c *Client) Clone(override lingua.ConfigOverride) lingua.RequestClient {
	return c.derive(c.config.Merge(override))
}

// WithVersion implements lingua.RequestClient.
func (c *Client) WithVersion(prefix string) lingua.RequestClient {
	return c.Clone(lingua.ConfigOverride{APIVersionPrefix: &prefix})
}

// WithHeaders implements lingua.RequestClient.
func (c *Client) WithHeaders(headers map[string]string) lingua.RequestClient {
	return c.Clone(lingua.ConfigOverride{DefaultHeaders: headers})
}

func (c *Client) derive(config lingua.Config) *Client {
	derived := &Client{
		config:       config,
		httpClient:   c.httpClient,
		logger:       c.logger,
		debug:        c.debug,
		userAgent:    c.userAgent,
		interceptors: c.interceptors,
	}
	derived.provider.Store(c.provider.Load())

	return derived
}

// BuildURL implements lingua.RequestClient.
func (c *Client) BuildURL(path string, version *string, query lingua.Query) string {
	prefix := c.config.APIVersionPrefix
	if version != nil {
		prefix = *version
	}

	fullURL := c.config.BaseURL + prefix + "/" + strings.TrimPrefix(path, "/")

	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	return fullURL
}

// Get implements lingua.RequestClient.
func (c *Client) Get(ctx context.Context, path string, query lingua.Query, opts ...lingua.RequestOption) (*lingua.Response, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, opts)
}

// Post implements lingua.RequestClient.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...lingua.RequestOption) (*lingua.Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, opts)
}

// Put implements lingua.RequestClient.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...lingua.RequestOption) (*lingua.Response, error) {
	return c.do(ctx, http.MethodPut, path, nil, body, opts)
}

// Patch implements lingua.RequestClient.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...lingua.RequestOption) (*lingua.Response, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body, opts)
}

// Delete implements lingua.RequestClient.
func (c *Client) Delete(ctx context.Context, path string, opts ...lingua.RequestOption) (*lingua.Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil, opts)
}

func (c *Client) do(ctx context.Context, method, path string, query lingua.Query, body any, opts []lingua.RequestOption) (*lingua.Response, error) {
	spec := &lingua.RequestSpec{
		Path:   path,
		Method: method,
		Query:  query,
		Body:   body,
	}
	spec.Apply(opts...)

	return c.Request(ctx, spec)
}

// Request implements lingua.RequestClient.
func (c *Client) Request(ctx context.Context, spec *lingua.RequestSpec) (*lingua.Response, error) {
	if spec == nil {
		spec = &lingua.RequestSpec{}
	}

	method := spec.EffectiveMethod()
	fullURL := c.BuildURL(spec.Path, spec.APIVersion, spec.Query)

	fail := func(kind lingua.ErrorKind, err error) *lingua.RequestError {
		return &lingua.RequestError{Kind: kind, Method: method, URL: fullURL, Err: err}
	}

	headers := c.buildHeaders(spec.Headers)

	if spec.RequiresAuth {
		token, err := c.resolveToken(ctx)
		if err != nil {
			return nil, fail(lingua.KindAuthenticationRequired, err)
		}

		headers.Set(constants.HeaderAuthorization, constants.BearerScheme+" "+token)
	}

	body, err := encodeBody(method, spec.Body)
	if err != nil {
		return nil, fail(lingua.KindUnknown, err)
	}

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = c.config.Timeout
	}

	reqCtx, cancel := context.WithTimeoutCause(ctx, timeout, errDeadline)
	defer cancel()

	intercepted := &lingua.InterceptedRequest{
		Method:   method,
		URL:      fullURL,
		Headers:  headers,
		Body:     body,
		Metadata: make(map[string]interface{}),
	}

	err = c.interceptors.ExecuteRequestInterceptors(reqCtx, intercepted)
	if err != nil {
		return nil, fail(lingua.KindUnknown, err)
	}

	c.logRequest(intercepted)

	start := time.Now()
	resp, outcome, err := c.execute(reqCtx, intercepted, timeout)
	outcome.Duration = time.Since(start)
	outcome.Err = err

	c.logResponse(intercepted, outcome)

	interceptErr := c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, outcome)
	if err != nil {
		return nil, err
	}

	if interceptErr != nil {
		return nil, fail(lingua.KindUnknown, interceptErr)
	}

	return resp, nil
}

// resolveToken returns a non-empty token or the reason there is none.
func (c *Client) resolveToken(ctx context.Context) (string, error) {
	provider := c.TokenProvider()
	if provider == nil {
		return "", lingua.ErrNoTokenProvider
	}

	token, err := provider.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("getting token: %w", err)
	}

	if token == "" {
		return "", lingua.ErrEmptyToken
	}

	return token, nil
}

func (c *Client) buildHeaders(extra map[string]string) http.Header {
	headers := make(http.Header, len(c.config.DefaultHeaders)+len(extra)+2)

	for key, value := range c.config.DefaultHeaders {
		headers.Set(key, value)
	}

	for key, value := range lingua.CanonicalHeaders(extra) {
		headers.Set(key, value)
	}

	if headers.Get(constants.HeaderAccept) == "" {
		headers.Set(constants.HeaderAccept, constants.DefaultAccept)
	}

	if c.userAgent != "" && headers.Get(constants.HeaderUserAgent) == "" {
		headers.Set(constants.HeaderUserAgent, c.userAgent)
	}

	return headers
}

// execute sends the request and parses the response. The returned outcome is
// never nil.
func (c *Client) execute(ctx context.Context, req *lingua.InterceptedRequest, timeout time.Duration) (*lingua.Response, *lingua.InterceptedResponse, error) {
	outcome := &lingua.InterceptedResponse{}

	var rawBody interface{}
	if len(req.Body) > 0 {
		rawBody = req.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, rawBody)
	if err != nil {
		return nil, outcome, c.newError(lingua.KindUnknown, req, fmt.Errorf("creating request: %w", err))
	}

	httpReq.Header = req.Headers.Clone()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if httpResp != nil {
			_ = httpResp.Body.Close()
		}

		return nil, outcome, c.transportError(ctx, req, timeout, err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	outcome.StatusCode = httpResp.StatusCode
	outcome.Headers = httpResp.Header

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, outcome, c.transportError(ctx, req, timeout, fmt.Errorf("reading response body: %w", err))
	}

	outcome.Body = body

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		return nil, outcome, &lingua.RequestError{
			Kind:       lingua.KindHTTP,
			Method:     req.Method,
			URL:        req.URL,
			StatusCode: httpResp.StatusCode,
			Body:       string(body),
		}
	}

	resp, err := parseResponse(httpResp, body)
	if err != nil {
		return nil, outcome, c.newError(lingua.KindUnknown, req, err)
	}

	return resp, outcome, nil
}

// transportError tells the request's own deadline apart from every other
// transport failure, including cancellation of the caller's context.
func (c *Client) transportError(ctx context.Context, req *lingua.InterceptedRequest, timeout time.Duration, err error) error {
	if errors.Is(context.Cause(ctx), errDeadline) {
		return &lingua.RequestError{
			Kind:    lingua.KindTimeout,
			Method:  req.Method,
			URL:     req.URL,
			Timeout: timeout,
			Err:     err,
		}
	}

	return c.newError(lingua.KindTransport, req, err)
}

func (c *Client) newError(kind lingua.ErrorKind, req *lingua.InterceptedRequest, err error) *lingua.RequestError {
	return &lingua.RequestError{Kind: kind, Method: req.Method, URL: req.URL, Err: err}
}

func parseResponse(httpResp *http.Response, body []byte) (*lingua.Response, error) {
	contentType := httpResp.Header.Get(constants.HeaderContentType)

	resp := &lingua.Response{
		StatusCode:  httpResp.StatusCode,
		Header:      httpResp.Header,
		ContentType: contentType,
		Body:        body,
	}

	if !lingua.IsJSONContentType(contentType) {
		resp.Data = string(body)

		return resp, nil
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return resp, nil
	}

	var data any

	err := json.Unmarshal(body, &data)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON response: %w", err)
	}

	resp.Data = data

	return resp, nil
}

// encodeBody serialises body for non-GET methods. Strings and byte slices
// are sent verbatim.
func encodeBody(method string, body any) ([]byte, error) {
	if method == http.MethodGet || body == nil {
		return nil, nil
	}

	switch typed := body.(type) {
	case string:
		return []byte(typed), nil
	case []byte:
		return typed, nil
	case json.RawMessage:
		return typed, nil
	case io.Reader:
		data, err := io.ReadAll(typed)
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}

		return data, nil
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		return data, nil
	}
}

func (c *Client) logRequest(req *lingua.InterceptedRequest) {
	if !c.debug {
		return
	}

	fields := map[string]interface{}{
		"method": req.Method,
		"url":    req.URL,
	}

	if len(req.Body) > 0 {
		fields["body"] = truncate(req.Body)
	}

	c.logger.Debug("HTTP Request", fields)
}

func (c *Client) logResponse(req *lingua.InterceptedRequest, resp *lingua.InterceptedResponse) {
	if !c.debug {
		return
	}

	fields := map[string]interface{}{
		"method":      req.Method,
		"url":         req.URL,
		"status_code": resp.StatusCode,
		"duration_ms": resp.Duration.Milliseconds(),
	}

	if resp.Err != nil {
		fields["error"] = resp.Err.Error()
	}

	c.logger.Debug("HTTP Response", fields)
}

func truncate(body []byte) string {
	if len(body) <= constants.MaxBodyLogBytes {
		return string(body)
	}

	return string(body[:constants.MaxBodyLogBytes]) + "..."
}

// leveledLogger bridges retryablehttp's leveled logging to lingua.Logger.
type leveledLogger struct {
	logger lingua.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}

var _ lingua.RequestClient = (*Client)(nil)
