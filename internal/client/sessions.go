package client

import (
	"context"
	"fmt"
	"time"

	"github.com/fivetwenty-io/lingua/internal/constants"
	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

const (
	sessionsPath = "practice/sessions"
	progressPath = "practice/progress"
)

// SessionsClient implements lingua.SessionsClient.
type SessionsClient struct {
	requests lingua.RequestClient
}

// NewSessionsClient creates a new practice sessions client.
func NewSessionsClient(requests lingua.RequestClient) *SessionsClient {
	return &SessionsClient{
		requests: requests,
	}
}

// List implements lingua.SessionsClient.List.
func (c *SessionsClient) List(ctx context.Context, filter *lingua.SessionFilter) (*lingua.ListResponse[lingua.PracticeSession], error) {
	resp, err := c.requests.Get(ctx, sessionsPath, filter.ToQuery(), lingua.WithAuth())
	if err != nil {
		return nil, fmt.Errorf("listing practice sessions: %w", err)
	}

	return decode[lingua.ListResponse[lingua.PracticeSession]](resp, "practice sessions list")
}

// Create implements lingua.SessionsClient.Create.
func (c *SessionsClient) Create(ctx context.Context, session *lingua.PracticeSessionCreate) (*lingua.PracticeSession, error) {
	resp, err := c.requests.Post(ctx, sessionsPath, session, lingua.WithAuth())
	if err != nil {
		return nil, fmt.Errorf("creating practice session: %w", err)
	}

	return decode[lingua.PracticeSession](resp, "practice session")
}

// Complete implements lingua.SessionsClient.Complete.
func (c *SessionsClient) Complete(ctx context.Context, id string, result *lingua.SessionResult) (*lingua.PracticeSession, error) {
	resp, err := c.requests.Put(ctx, resourcePath(sessionsPath, id), result, lingua.WithAuth())
	if err != nil {
		return nil, fmt.Errorf("completing practice session: %w", err)
	}

	return decode[lingua.PracticeSession](resp, "practice session")
}

// Progress implements lingua.SessionsClient.Progress. Both bounds are
// inclusive calendar days.
func (c *SessionsClient) Progress(ctx context.Context, from, to time.Time) (*lingua.Progress, error) {
	query := lingua.NewQuery(
		"from", from.Format(constants.DateLayout),
		"to", to.Format(constants.DateLayout),
	)

	resp, err := c.requests.Get(ctx, progressPath, query, lingua.WithAuth())
	if err != nil {
		return nil, fmt.Errorf("getting practice progress: %w", err)
	}

	return decode[lingua.Progress](resp, "practice progress")
}
