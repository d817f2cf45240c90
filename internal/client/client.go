// Package client implements the typed resource clients on top of a
// lingua.RequestClient.
package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

// Client implements the lingua.Client interface.
type Client struct {
	requests lingua.RequestClient

	// Resource clients
	videos   lingua.VideosClient
	profile  lingua.ProfileClient
	sessions lingua.SessionsClient
	phrases  lingua.PhrasesClient
}

// New creates a client whose resource clients all share requests, and with it
// the token provider.
func New(requests lingua.RequestClient) *Client {
	return &Client{
		requests: requests,
		videos:   NewVideosClient(requests),
		profile:  NewProfileClient(requests),
		sessions: NewSessionsClient(requests),
		phrases:  NewPhrasesClient(requests),
	}
}

// Requests implements lingua.Client.
func (c *Client) Requests() lingua.RequestClient {
	return c.requests
}

// Videos implements lingua.Client.
func (c *Client) Videos() lingua.VideosClient {
	return c.videos
}

// Profile implements lingua.Client.
func (c *Client) Profile() lingua.ProfileClient {
	return c.profile
}

// Sessions implements lingua.Client.
func (c *Client) Sessions() lingua.SessionsClient {
	return c.sessions
}

// Phrases implements lingua.Client.
func (c *Client) Phrases() lingua.PhrasesClient {
	return c.phrases
}

// decode unmarshals the raw body of resp into a new T.
func decode[T any](resp *lingua.Response, what string) (*T, error) {
	var value T

	err := json.Unmarshal(resp.Body, &value)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", what, err)
	}

	return &value, nil
}

func resourcePath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}

var _ lingua.Client = (*Client)(nil)
