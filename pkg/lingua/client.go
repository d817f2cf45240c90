package lingua

import (
	"context"
	"time"
)

// RequestClient builds and executes versioned, optionally authenticated
// requests against the backend. Implementations are safe for concurrent use.
type RequestClient interface {
	// Request is the sole execution path; the verb methods wrap it.
	Request(ctx context.Context, spec *RequestSpec) (*Response, error)
	Get(ctx context.Context, path string, query Query, opts ...RequestOption) (*Response, error)
	Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error)
	Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error)
	Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error)
	Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error)

	// BuildURL composes the full URL for path. A nil version uses the default prefix.
	BuildURL(path string, version *string, query Query) string

	// Clone derives a new client; headers in the override are merged.
	Clone(override ConfigOverride) RequestClient
	// WithVersion derives a client with another default version prefix.
	WithVersion(prefix string) RequestClient
	// WithHeaders derives a client whose default headers include headers.
	WithHeaders(headers map[string]string) RequestClient

	// SetTokenProvider attaches the provider used for authenticated requests.
	SetTokenProvider(provider TokenProvider) RequestClient
	// TokenProvider returns the attached provider, or nil.
	TokenProvider() TokenProvider
	// Config returns a copy of the client's configuration.
	Config() Config
}

// VideosClient reads the practice video catalogue.
type VideosClient interface {
	List(ctx context.Context, params *ListParams) (*ListResponse[Video], error)
	Get(ctx context.Context, id string) (*Video, error)
}

// ProfileClient reads and updates the signed-in user's profile.
type ProfileClient interface {
	Get(ctx context.Context) (*Profile, error)
	Update(ctx context.Context, update *ProfileUpdate) (*Profile, error)
}

// SessionsClient records practice sessions and reads progress for calendar views.
type SessionsClient interface {
	List(ctx context.Context, filter *SessionFilter) (*ListResponse[PracticeSession], error)
	Create(ctx context.Context, session *PracticeSessionCreate) (*PracticeSession, error)
	Complete(ctx context.Context, id string, result *SessionResult) (*PracticeSession, error)
	Progress(ctx context.Context, from, to time.Time) (*Progress, error)
}

// PhrasesClient manages the user's practice phrases.
type PhrasesClient interface {
	List(ctx context.Context, params *ListParams) (*ListResponse[Phrase], error)
	Create(ctx context.Context, phrase *PhraseCreate) (*Phrase, error)
	BulkCreate(ctx context.Context, phrases []PhraseCreate) (*BulkResult, error)
	Delete(ctx context.Context, id string) error
}

// Client groups the resource clients over one RequestClient.
type Client interface {
	Requests() RequestClient
	Videos() VideosClient
	Profile() ProfileClient
	Sessions() SessionsClient
	Phrases() PhrasesClient
}
