package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/lingua/internal/auth"
	"github.com/fivetwenty-io/lingua/internal/client"
	linguahttp "github.com/fivetwenty-io/lingua/internal/http"
	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

const testToken = "test-token"

// mockBackend is an in-memory stand-in for the language-learning API.
type mockBackend struct {
	mu       sync.Mutex
	phrases  map[string]lingua.Phrase
	sessions map[string]lingua.PracticeSession
	profile  lingua.Profile
	queries  []string
	bodies   []string
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		phrases: map[string]lingua.Phrase{
			"p1": {ID: "p1", Text: "¿Cómo estás?", Translation: "How are you?", Language: "es"},
		},
		sessions: map[string]lingua.PracticeSession{
			"s1": {ID: "s1", Mode: lingua.ModeShadowing, VideoID: "v1"},
		},
		profile: lingua.Profile{ID: "u1", Email: "ana@example.com", DisplayName: "Ana", DailyGoalMinutes: 15},
	}
}

func (b *mockBackend) recordedQueries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.queries...)
}

func (b *mockBackend) recordedBodies() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.bodies...)
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "missing token"})

			return
		}

		next.ServeHTTP(w, r)
	})
}

//nolint:funlen // Routing table for the whole mock API
func (b *mockBackend) router() http.Handler {
	router := chi.NewRouter()
	router.Use(requireBearer)

	router.Route("/v1/api", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				b.mu.Lock()
				b.queries = append(b.queries, req.URL.RawQuery)
				b.mu.Unlock()
				next.ServeHTTP(w, req)
			})
		})

		r.Get("/videos", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, lingua.ListResponse[lingua.Video]{
				Items:   []lingua.Video{{ID: "v1", Title: "En el mercado", Language: "es", DurationSeconds: 95}},
				Total:   1,
				Page:    1,
				PerPage: 20,
			})
		})

		r.Get("/videos/{id}", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "id")
			if id != "v1" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte("not found"))

				return
			}

			writeJSON(w, http.StatusOK, lingua.Video{ID: id, Title: "En el mercado", Language: "es"})
		})

		r.Get("/user/profile", func(w http.ResponseWriter, req *http.Request) {
			b.mu.Lock()
			defer b.mu.Unlock()

			writeJSON(w, http.StatusOK, b.profile)
		})

		r.Patch("/user/profile", func(w http.ResponseWriter, req *http.Request) {
			var update map[string]json.RawMessage

			_ = json.NewDecoder(req.Body).Decode(&update)

			b.mu.Lock()
			defer b.mu.Unlock()

			for key := range update {
				b.bodies = append(b.bodies, key)
			}

			if raw, ok := update["display_name"]; ok {
				_ = json.Unmarshal(raw, &b.profile.DisplayName)
			}

			writeJSON(w, http.StatusOK, b.profile)
		})

		r.Get("/practice/sessions", func(w http.ResponseWriter, req *http.Request) {
			b.mu.Lock()
			defer b.mu.Unlock()

			list := lingua.ListResponse[lingua.PracticeSession]{Page: 1, PerPage: 20}
			for _, session := range b.sessions {
				list.Items = append(list.Items, session)
			}

			list.Total = len(list.Items)
			writeJSON(w, http.StatusOK, list)
		})

		r.Post("/practice/sessions", func(w http.ResponseWriter, req *http.Request) {
			var create lingua.PracticeSessionCreate

			err := json.NewDecoder(req.Body).Decode(&create)
			if err != nil || create.Mode == "" {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "mode is required"})

				return
			}

			session := lingua.PracticeSession{ID: "s2", Mode: create.Mode, VideoID: create.VideoID}

			b.mu.Lock()
			b.sessions[session.ID] = session
			b.mu.Unlock()

			writeJSON(w, http.StatusCreated, session)
		})

		r.Put("/practice/sessions/{id}", func(w http.ResponseWriter, req *http.Request) {
			var result lingua.SessionResult

			_ = json.NewDecoder(req.Body).Decode(&result)

			b.mu.Lock()
			defer b.mu.Unlock()

			session, ok := b.sessions[chi.URLParam(req, "id")]
			if !ok {
				w.WriteHeader(http.StatusNotFound)

				return
			}

			completed := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
			session.CompletedAt = &completed
			session.DurationSeconds = result.DurationSeconds
			session.RepetitionCount = result.RepetitionCount
			session.Score = result.Score
			b.sessions[session.ID] = session

			writeJSON(w, http.StatusOK, session)
		})

		r.Get("/practice/progress", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, lingua.Progress{
				From:         req.URL.Query().Get("from"),
				To:           req.URL.Query().Get("to"),
				Days:         []lingua.DayProgress{{Date: req.URL.Query().Get("from"), Minutes: 20, Sessions: 2, GoalMet: true}},
				StreakDays:   3,
				TotalMinutes: 20,
			})
		})

		r.Get("/phrases", func(w http.ResponseWriter, req *http.Request) {
			b.mu.Lock()
			defer b.mu.Unlock()

			list := lingua.ListResponse[lingua.Phrase]{Page: 1, PerPage: 20}
			for _, phrase := range b.phrases {
				list.Items = append(list.Items, phrase)
			}

			list.Total = len(list.Items)
			writeJSON(w, http.StatusOK, list)
		})

		r.Post("/phrases", func(w http.ResponseWriter, req *http.Request) {
			var create lingua.PhraseCreate

			_ = json.NewDecoder(req.Body).Decode(&create)
			phrase := lingua.Phrase{ID: "p2", Text: create.Text, Translation: create.Translation, Language: create.Language}

			b.mu.Lock()
			b.phrases[phrase.ID] = phrase
			b.mu.Unlock()

			writeJSON(w, http.StatusCreated, phrase)
		})

		r.Post("/phrases/bulk", func(w http.ResponseWriter, req *http.Request) {
			var batch []lingua.PhraseCreate

			err := json.NewDecoder(req.Body).Decode(&batch)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "expected a JSON array"})

				return
			}

			result := lingua.BulkResult{}

			for i, phrase := range batch {
				if phrase.Text == "" {
					result.Failed = append(result.Failed, lingua.BulkFailure{Index: i, Error: "text is required"})

					continue
				}

				result.Created++
			}

			writeJSON(w, http.StatusOK, result)
		})

		r.Delete("/phrases/{id}", func(w http.ResponseWriter, req *http.Request) {
			b.mu.Lock()
			defer b.mu.Unlock()

			if _, ok := b.phrases[chi.URLParam(req, "id")]; !ok {
				w.WriteHeader(http.StatusNotFound)

				return
			}

			delete(b.phrases, chi.URLParam(req, "id"))
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return router
}

func newTestClient(t *testing.T) (*client.Client, *mockBackend) {
	t.Helper()

	backend := newMockBackend()
	server := httptest.NewServer(backend.router())
	t.Cleanup(server.Close)

	requests := linguahttp.NewClient(lingua.Config{BaseURL: server.URL},
		linguahttp.WithTokenProvider(auth.NewStaticProvider(testToken)))

	return client.New(requests), backend
}

func TestClient_Accessors(t *testing.T) {
	t.Parallel()

	requests := linguahttp.NewClient(lingua.Config{})
	c := client.New(requests)

	assert.Same(t, requests, c.Requests())
	assert.NotNil(t, c.Videos())
	assert.NotNil(t, c.Profile())
	assert.NotNil(t, c.Sessions())
	assert.NotNil(t, c.Phrases())
}

func TestClient_RequiresToken(t *testing.T) {
	t.Parallel()

	backend := newMockBackend()
	server := httptest.NewServer(backend.router())
	defer server.Close()

	c := client.New(linguahttp.NewClient(lingua.Config{BaseURL: server.URL}))

	_, err := c.Videos().List(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, lingua.IsAuthenticationRequired(err))
	assert.Contains(t, err.Error(), "listing videos")
	assert.Empty(t, backend.recordedQueries())
}

func TestClient_SharesProviderAcrossResources(t *testing.T) {
	t.Parallel()

	backend := newMockBackend()
	server := httptest.NewServer(backend.router())
	defer server.Close()

	requests := linguahttp.NewClient(lingua.Config{BaseURL: server.URL})
	c := client.New(requests)

	_, err := c.Profile().Get(context.Background())
	require.Error(t, err)

	requests.SetTokenProvider(auth.NewStaticProvider(testToken))

	profile, err := c.Profile().Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.DisplayName)
}
