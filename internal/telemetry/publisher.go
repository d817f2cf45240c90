// Package telemetry publishes one event per request to NATS.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/lingua/internal/constants"
	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

// Publisher is the subset of *nats.Conn the reporter needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Event describes one finished request. It never carries headers or bodies.
type Event struct {
	ID         string    `json:"id"`
	Method     string    `json:"method"`
	Endpoint   string    `json:"endpoint"`
	StatusCode int       `json:"status_code,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Reporter turns request outcomes into events.
type Reporter struct {
	publisher Publisher
	subject   string
	logger    lingua.Logger
	now       func() time.Time
}

// NewReporter creates a reporter publishing to subject. An empty subject uses
// constants.DefaultTelemetrySubject.
func NewReporter(publisher Publisher, subject string, logger lingua.Logger) *Reporter {
	if subject == "" {
		subject = constants.DefaultTelemetrySubject
	}

	if logger == nil {
		logger = lingua.NopLogger{}
	}

	return &Reporter{
		publisher: publisher,
		subject:   subject,
		logger:    logger,
		now:       time.Now,
	}
}

// Interceptor returns a response interceptor that reports every request.
// Publish failures are logged; they never fail the request.
func (r *Reporter) Interceptor() lingua.ResponseInterceptor {
	return func(ctx context.Context, req *lingua.InterceptedRequest, resp *lingua.InterceptedResponse) error {
		err := r.Report(req, resp)
		if err != nil {
			r.logger.Warn("failed to publish request event", map[string]interface{}{
				"subject": r.subject,
				"error":   err.Error(),
			})
		}

		return nil
	}
}

// Report publishes the event for one request.
func (r *Reporter) Report(req *lingua.InterceptedRequest, resp *lingua.InterceptedResponse) error {
	data, err := json.Marshal(r.event(req, resp))
	if err != nil {
		return fmt.Errorf("encoding request event: %w", err)
	}

	err = r.publisher.Publish(r.subject, data)
	if err != nil {
		return fmt.Errorf("publishing request event: %w", err)
	}

	return nil
}

func (r *Reporter) event(req *lingua.InterceptedRequest, resp *lingua.InterceptedResponse) Event {
	event := Event{
		Method:     req.Method,
		Endpoint:   lingua.EndpointKey(req.Method, req.URL),
		StatusCode: resp.StatusCode,
		DurationMS: resp.Duration.Milliseconds(),
		Timestamp:  r.now().UTC(),
	}

	if req.Headers != nil {
		event.ID = req.Headers.Get(constants.HeaderRequestID)
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	if resp.Err != nil {
		event.Error = resp.Err.Error()
		event.ErrorKind = lingua.KindUnknown.String()

		if reqErr, ok := lingua.AsRequestError(resp.Err); ok {
			event.ErrorKind = reqErr.Kind.String()
		}
	}

	return event
}

// Connect dials the NATS server at url.
func Connect(url string, opts ...nats.Option) (*nats.Conn, error) {
	options := append([]nats.Option{
		nats.Name(constants.DefaultUserAgent),
		nats.Timeout(constants.TelemetryConnectTimeout),
	}, opts...)

	conn, err := nats.Connect(url, options...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	return conn, nil
}

// Close flushes pending events and closes the connection.
func Close(conn *nats.Conn) {
	if conn == nil {
		return
	}

	_ = conn.Drain()
}

var _ Publisher = (*nats.Conn)(nil)
