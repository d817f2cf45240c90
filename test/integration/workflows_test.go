//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/lingua/pkg/lingua"
	"github.com/fivetwenty-io/lingua/pkg/linguaclient"
)

var addedPhraseID = regexp.MustCompile(`Added phrase (\S+)`)

// TestWorkflow_PhraseJourney adds, finds and deletes a phrase through the CLI.
func TestWorkflow_PhraseJourney(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)
	require.NoError(t, runner.Login())

	text := GenerateTestName("integration phrase")

	stdout, stderr, err := runner.Run("phrases", "add", text, "integration translation", "--language", "es", "--tag", "integration")
	require.NoError(t, err, "Failed to add phrase: %s", stderr)

	match := addedPhraseID.FindStringSubmatch(stdout)
	require.Len(t, match, 2, "unexpected output: %s", stdout)

	id := match[1]
	defer runner.CleanupPhrase(id)

	stdout, stderr, err = runner.Run("phrases", "list", "--search", text, "--output", "json")
	require.NoError(t, err, "Failed to list phrases: %s", stderr)
	AssertJSONOutput(t, stdout)

	var phrases lingua.ListResponse[lingua.Phrase]
	require.NoError(t, json.Unmarshal([]byte(stdout), &phrases))
	assert.NotEmpty(t, phrases.Items)

	stdout, stderr, err = runner.Run("get", "phrases", "--auth", "-q", "search="+text, "--output", "yaml")
	require.NoError(t, err, "Failed raw request: %s", stderr)
	AssertYAMLOutput(t, stdout)

	_, stderr, err = runner.Run("phrases", "delete", id)
	require.NoError(t, err, "Failed to delete phrase: %s", stderr)
}

// TestWorkflow_ProfileAndProgress reads the profile and a week of progress.
func TestWorkflow_ProfileAndProgress(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)
	require.NoError(t, runner.Login())

	stdout, stderr, err := runner.Run("profile", "show", "--output", "json")
	require.NoError(t, err, "Failed to show profile: %s", stderr)
	AssertJSONOutput(t, stdout)

	_, stderr, err = runner.Run("sessions", "progress")
	require.NoError(t, err, "Failed to show progress: %s", stderr)

	_, _, err = runner.Run("logout")
	require.NoError(t, err)

	_, _, err = runner.Run("profile", "show")
	require.Error(t, err, "profile must require a token after logout")
}

// TestClient_PracticeSession drives a session through the library.
func TestClient_PracticeSession(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := linguaclient.New(lingua.Config{BaseURL: config.BackendURL}, linguaclient.WithAccessToken(config.Token))

	videos, err := client.Videos().List(ctx, &lingua.ListParams{PerPage: 1})
	require.NoError(t, err)

	if len(videos.Items) == 0 {
		t.Skip("backend has no videos")
	}

	session, err := client.Sessions().Create(ctx, &lingua.PracticeSessionCreate{
		Mode:    lingua.ModeVideoRepeat,
		VideoID: videos.Items[0].ID,
	})
	require.NoError(t, err)

	score := 87.5
	completed, err := client.Sessions().Complete(ctx, session.ID, &lingua.SessionResult{
		DurationSeconds: 60,
		RepetitionCount: 3,
		Score:           &score,
	})
	require.NoError(t, err)
	assert.NotNil(t, completed.CompletedAt)

	now := time.Now()
	progress, err := client.Sessions().Progress(ctx, now.AddDate(0, 0, -1), now)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, progress.TotalMinutes, 1)
}

// TestClient_TimeoutIsReported checks that a tiny timeout surfaces as a timeout error.
func TestClient_TimeoutIsReported(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	requests := linguaclient.NewRequestClient(lingua.Config{BaseURL: config.BackendURL, Timeout: time.Nanosecond})

	_, err := requests.Get(context.Background(), "videos", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, lingua.ErrTimeout)
}
