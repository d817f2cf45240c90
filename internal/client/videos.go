package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

const videosPath = "videos"

// VideosClient implements lingua.VideosClient.
type VideosClient struct {
	requests lingua.RequestClient
}

// NewVideosClient creates a new videos client.
func NewVideosClient(requests lingua.RequestClient) *VideosClient {
	return &VideosClient{
		requests: requests,
	}
}

// List implements lingua.VideosClient.List.
func (c *VideosClient) List(ctx context.Context, params *lingua.ListParams) (*lingua.ListResponse[lingua.Video], error) {
	resp, err := c.requests.Get(ctx, videosPath, params.ToQuery(), lingua.WithAuth())
	if err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}

	return decode[lingua.ListResponse[lingua.Video]](resp, "videos list")
}

// Get implements lingua.VideosClient.Get.
func (c *VideosClient) Get(ctx context.Context, id string) (*lingua.Video, error) {
	resp, err := c.requests.Get(ctx, resourcePath(videosPath, id), nil, lingua.WithAuth())
	if err != nil {
		return nil, fmt.Errorf("getting video: %w", err)
	}

	return decode[lingua.Video](resp, "video")
}
