package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

const profilePath = "user/profile"

// ProfileClient implements lingua.ProfileClient.
type ProfileClient struct {
	requests lingua.RequestClient
}

// NewProfileClient creates a new profile client.
func NewProfileClient(requests lingua.RequestClient) *ProfileClient {
	return &ProfileClient{
		requests: requests,
	}
}

// Get implements lingua.ProfileClient.Get.
func (c *ProfileClient) Get(ctx context.Context) (*lingua.Profile, error) {
	resp, err := c.requests.Get(ctx, profilePath, nil, lingua.WithAuth())
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}

	return decode[lingua.Profile](resp, "profile")
}

// Update implements lingua.ProfileClient.Update. Only the non-nil fields of
// update are sent.
func (c *ProfileClient) Update(ctx context.Context, update *lingua.ProfileUpdate) (*lingua.Profile, error) {
	resp, err := c.requests.Patch(ctx, profilePath, update, lingua.WithAuth())
	if err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	return decode[lingua.Profile](resp, "profile")
}
