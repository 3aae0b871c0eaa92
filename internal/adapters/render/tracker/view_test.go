package tracker

import (
	"fmt"
	"testing"
	"time"

	"github.com/bnema/shelf/internal/application"
	"github.com/bnema/shelf/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRenderPagePrompt(t *testing.T) {
	items := []domain.TrackedItem{
		{ID: "1", Title: "Solo Leveling", Owner: "U", Progress: 10},
		{ID: "2", Title: "Tower of God", Owner: "U", Progress: 5},
	}

	output, err := Prompt(application.Prompt{
		Kind:      application.PromptPage,
		Handle:    "m1",
		Owner:     "U",
		Page:      domain.ComposePage(items, domain.DefaultPageSize, 0),
		ExpiresAt: now.Add(3 * time.Minute),
	}, RenderOptions{Now: now, ControlPrefix: "!"})

	require.NoError(t, err)
	assert.Contains(t, output, "Series of U")
	assert.Contains(t, output, "page 1/1 · 2 total")
	assert.Contains(t, output, " 1. Solo Leveling chapter 10")
	assert.Contains(t, output, " 2. Tower of God chapter 5")
	assert.Contains(t, output, "!pick m1 <n>")
	assert.NotContains(t, output, "!next")
	assert.NotContains(t, output, "!prev")
	assert.Contains(t, output, "expires in 3 minutes")
}

func TestRenderPageControlsFollowPosition(t *testing.T) {
	items := make([]domain.TrackedItem, 60)
	for i := range items {
		items[i] = domain.TrackedItem{Title: fmt.Sprintf("Series %d", i+1)}
	}

	output, err := Prompt(application.Prompt{
		Kind:   application.PromptPage,
		Handle: "m2",
		Page:   domain.ComposePage(items, domain.DefaultPageSize, 1),
	}, RenderOptions{ControlPrefix: "!"})

	require.NoError(t, err)
	assert.Contains(t, output, "page 2/3 · 60 total")
	assert.Contains(t, output, " 1. Series 26")
	assert.Contains(t, output, "!prev m2")
	assert.Contains(t, output, "!next m2")
	assert.NotContains(t, output, "expires")
}

func TestRenderPageWithoutControlPrefixHidesControls(t *testing.T) {
	output, err := Prompt(application.Prompt{
		Kind: application.PromptPage,
		Page: domain.ComposePage([]domain.TrackedItem{{Title: "A"}}, 0, 0),
	}, RenderOptions{})

	require.NoError(t, err)
	assert.NotContains(t, output, "pick")
}

func TestRenderDetailPrompt(t *testing.T) {
	output, err := Prompt(application.Prompt{
		Kind:         application.PromptDetail,
		Handle:       "m3",
		Item:         domain.TrackedItem{Title: "Tower of God", Progress: 5, Link: "https://x.test/tog", SavedAt: now.Add(-2 * time.Hour)},
		OtherMatches: 2,
	}, RenderOptions{Now: now, ControlPrefix: "!"})

	require.NoError(t, err)
	assert.Contains(t, output, "Tower of God")
	assert.Contains(t, output, "chapter 5")
	assert.Contains(t, output, "https://x.test/tog")
	assert.Contains(t, output, "saved 2 hours ago")
	assert.Contains(t, output, "2 other series match this search.")
	assert.Contains(t, output, "!update m3")
}

func TestRenderCapturePrompt(t *testing.T) {
	output, err := Prompt(application.Prompt{
		Kind:      application.PromptCapture,
		Handle:    "m4",
		Item:      domain.TrackedItem{Title: "Solo Leveling", Progress: 10},
		ExpiresAt: now.Add(15 * time.Second),
	}, RenderOptions{Now: now, ControlPrefix: "!"})

	require.NoError(t, err)
	assert.Contains(t, output, "Send the new chapter for Solo Leveling (currently 10).")
	assert.Contains(t, output, "expires in 15 seconds")
	assert.Contains(t, output, "!cancel m4")
}

func TestRenderOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		outcome application.CaptureOutcome
		want    string
	}{
		{
			name:    "applied",
			outcome: application.CaptureOutcome{Result: domain.CaptureApplied, Item: domain.TrackedItem{Title: "Solo Leveling", Progress: 12}},
			want:    "Solo Leveling updated to chapter 12.",
		},
		{
			name:    "timed out",
			outcome: application.CaptureOutcome{Result: domain.CaptureTimedOut, Item: domain.TrackedItem{Title: "Solo Leveling"}},
			want:    "Time is up for Solo Leveling.",
		},
		{
			name:    "invalid input",
			outcome: application.CaptureOutcome{Result: domain.CaptureInvalidInput, Err: domain.ErrMalformedInput},
			want:    "whole number",
		},
		{
			name:    "apply failed without error",
			outcome: application.CaptureOutcome{Result: domain.CaptureApplyFailed},
			want:    "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := Outcome(tt.outcome)
			require.NoError(t, err)
			assert.Contains(t, output, tt.want)
		})
	}
}

func TestRenderRefusalWithSuggestions(t *testing.T) {
	output, err := Refusal(&application.NotFoundError{Owner: "U", Query: "towr", Suggestions: []string{"Tower of God", "Tower"}})

	require.NoError(t, err)
	assert.Contains(t, output, "No series found.")
	assert.Contains(t, output, "Did you mean: Tower of God, Tower?")
}

func TestRenderInfoSavedGranted(t *testing.T) {
	output, err := Info(application.Info{
		Name:     "shelf",
		Summary:  "tracker",
		Commands: []application.CommandHelp{{Usage: "listar", Description: "Browse"}, {Usage: "info", Description: "Help"}},
	})
	require.NoError(t, err)
	assert.Contains(t, output, "shelf")
	assert.Contains(t, output, "listar  Browse")
	assert.Contains(t, output, "info    Help")

	output, err = Saved(domain.TrackedItem{Title: "Solo Leveling", Progress: 10})
	require.NoError(t, err)
	assert.Contains(t, output, "Saved Solo Leveling at chapter 10.")

	output, err = Granted(domain.PermissionGrant{User: "friend"})
	require.NoError(t, err)
	assert.Contains(t, output, "friend can now use the tracker.")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 500 * time.Millisecond, want: "1 second"},
		{d: 15 * time.Second, want: "15 seconds"},
		{d: 3 * time.Minute, want: "3 minutes"},
		{d: time.Hour, want: "1 hour"},
		{d: 49 * time.Hour, want: "2 days"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}

func TestInlineMatchesProgramRender(t *testing.T) {
	outcome := application.CaptureOutcome{
		Result: domain.CaptureApplied,
		Item:   domain.TrackedItem{Title: "Solo Leveling", Progress: 11},
	}

	rendered, err := Outcome(outcome)
	require.NoError(t, err)
	assert.Equal(t, rendered, NewInline().Outcome(outcome))
	assert.Contains(t, NewInline().Refusal(domain.ErrPermissionDenied), "not allowed")
}

func TestRenderReaders(t *testing.T) {
	output, err := Readers([]domain.PermissionGrant{
		{User: "admin", GrantedBy: "admin"},
		{User: "alice", GrantedBy: "admin"},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Readers")
	assert.Contains(t, output, "alice (added by admin)")
	assert.NotContains(t, output, "admin (added by admin)")
}
