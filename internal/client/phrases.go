package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

const (
	phrasesPath     = "phrases"
	phrasesBulkPath = "phrases/bulk"
)

// PhrasesClient implements lingua.PhrasesClient.
type PhrasesClient struct {
	requests lingua.RequestClient
}

// NewPhrasesClient creates a new phrases client.
func NewPhrasesClient(requests lingua.RequestClient) *PhrasesClient {
	return &PhrasesClient{
		requests: requests,
	}
}

// List implements lingua.PhrasesClient.List.
func (c *PhrasesClient) List(ctx context.Context, params *lingua.ListParams) (*lingua.ListResponse[lingua.Phrase], error) {
	resp, err := c.requests.Get(ctx, phrasesPath, params.ToQuery(), lingua.WithAuth())
	if err != nil {
		return nil, fmt.Errorf("listing phrases: %w", err)
	}

	return decode[lingua.ListResponse[lingua.Phrase]](resp, "phrases list")
}

// Create implements lingua.PhrasesClient.Create.
func (c *PhrasesClient) Create(ctx context.Context, phrase *lingua.PhraseCreate) (*lingua.Phrase, error) {
	resp, err := c.requests.Post(ctx, phrasesPath, phrase, lingua.WithAuth())
	if err != nil {
		return nil, fmt.Errorf("creating phrase: %w", err)
	}

	return decode[lingua.Phrase](resp, "phrase")
}

// BulkCreate implements lingua.PhrasesClient.BulkCreate. The phrases are sent
// as one JSON array; an empty slice sends nothing.
func (c *PhrasesClient) BulkCreate(ctx context.Context, phrases []lingua.PhraseCreate) (*lingua.BulkResult, error) {
	if len(phrases) == 0 {
		return &lingua.BulkResult{}, nil
	}

	resp, err := c.requests.Post(ctx, phrasesBulkPath, phrases, lingua.WithAuth())
	if err != nil {
		return nil, fmt.Errorf("uploading phrases: %w", err)
	}

	return decode[lingua.BulkResult](resp, "bulk upload result")
}

// Delete implements lingua.PhrasesClient.Delete.
func (c *PhrasesClient) Delete(ctx context.Context, id string) error {
	_, err := c.requests.Delete(ctx, resourcePath(phrasesPath, id), lingua.WithAuth())
	if err != nil {
		return fmt.Errorf("deleting phrase: %w", err)
	}

	return nil
}
