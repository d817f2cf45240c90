package telemetry_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	linguahttp "github.com/fivetwenty-io/lingua/internal/http"
	"github.com/fivetwenty-io/lingua/internal/telemetry"
	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

var errNoResponders = errors.New("nats: no responders available for request")

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
	events   []telemetry.Event
	err      error
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	var event telemetry.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}

	p.subjects = append(p.subjects, subject)
	p.events = append(p.events, event)

	return nil
}

type countingLogger struct {
	mu    sync.Mutex
	warns int
}

func (l *countingLogger) Debug(string, map[string]interface{}) {}
func (l *countingLogger) Info(string, map[string]interface{})  {}
func (l *countingLogger) Error(string, map[string]interface{}) {}

func (l *countingLogger) Warn(string, map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.warns++
}

func TestReporter_Interceptor(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/api/videos/missing" {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := &fakePublisher{}
	reporter := telemetry.NewReporter(publisher, "", nil)

	chain := lingua.NewInterceptorChain().
		AddRequestInterceptor(lingua.RequestIDInterceptor()).
		AddResponseInterceptor(reporter.Interceptor())
	client := linguahttp.NewClient(lingua.Config{BaseURL: server.URL}, linguahttp.WithInterceptors(chain))

	_, err := client.Get(context.Background(), "videos", lingua.NewQuery("page", 1))
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "videos/missing", nil)
	require.Error(t, err)

	_, err = client.Get(context.Background(), "user/profile", nil, lingua.WithAuth())
	require.Error(t, err)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, []string{"lingua.requests", "lingua.requests"}, publisher.subjects)

	first := publisher.events[0]
	assert.Equal(t, "GET /v1/api/videos", first.Endpoint)
	assert.Equal(t, 200, first.StatusCode)
	assert.Len(t, first.ID, 36)
	assert.Empty(t, first.ErrorKind)
	assert.WithinDuration(t, time.Now(), first.Timestamp, time.Minute)

	second := publisher.events[1]
	assert.Equal(t, 404, second.StatusCode)
	assert.Equal(t, "http", second.ErrorKind)
	assert.Equal(t, "HTTP 404: Not Found", second.Error)
}

func TestReporter_PublishFailureIsLogged(t *testing.T) {
	t.Parallel()

	logger := &countingLogger{}
	reporter := telemetry.NewReporter(&fakePublisher{err: errNoResponders}, "lingua.test", logger)

	err := reporter.Interceptor()(context.Background(),
		&lingua.InterceptedRequest{Method: "GET", URL: "http://localhost:8080/v1/api/videos"},
		&lingua.InterceptedResponse{Err: &lingua.RequestError{Kind: lingua.KindTimeout, Timeout: time.Second}},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, logger.warns)

	err = reporter.Report(&lingua.InterceptedRequest{Method: "GET"}, &lingua.InterceptedResponse{})
	assert.ErrorIs(t, err, errNoResponders)
}

func TestReporter_ErrorKinds(t *testing.T) {
	t.Parallel()

	publisher := &fakePublisher{}
	reporter := telemetry.NewReporter(publisher, "lingua.test", nil)
	req := &lingua.InterceptedRequest{Method: "POST", URL: "http://localhost:8080/v1/api/phrases", Headers: http.Header{"X-Request-Id": {"req-1"}}}

	require.NoError(t, reporter.Report(req, &lingua.InterceptedResponse{Err: &lingua.RequestError{Kind: lingua.KindTimeout, Timeout: time.Second}}))
	require.NoError(t, reporter.Report(req, &lingua.InterceptedResponse{Err: errNoResponders}))

	require.Len(t, publisher.events, 2)
	assert.Equal(t, "req-1", publisher.events[0].ID)
	assert.Equal(t, "timeout", publisher.events[0].ErrorKind)
	assert.Equal(t, "unknown", publisher.events[1].ErrorKind)
}
