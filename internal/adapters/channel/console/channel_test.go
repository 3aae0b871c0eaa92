package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tomlrepo "github.com/bnema/shelf/internal/adapters/repo/toml"
	"github.com/bnema/shelf/internal/application"
	"github.com/bnema/shelf/internal/domain"
	"github.com/bnema/shelf/internal/ports"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	deadline time.Time
	f        func()
	done     bool
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &fakeTimer{deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, timer)
	return stopFunc(func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		wasPending := !timer.done
		timer.done = true
		return wasPending
	})
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	for _, timer := range c.timers {
		if !timer.done && !timer.deadline.After(c.now) {
			timer.done = true
			due = append(due, timer.f)
		}
	}
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

type stopFunc func() bool

func (f stopFunc) Stop() bool { return f() }

type channelHarness struct {
	channel *Channel
	out     *bytes.Buffer
	clock   *fakeClock
	repo    *tomlrepo.Repository
}

func newChannelHarness(t *testing.T) *channelHarness {
	t.Helper()

	config := viper.New()
	config.Set(tomlrepo.PathKey, filepath.Join(t.TempDir(), "items.toml"))
	repo, err := tomlrepo.NewRepository(config)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	handles := &MessageHandles{}
	gate := application.NewGrantGate(repo)

	registry := application.NewSessionRegistry(clock, logger)
	capture := application.NewCaptureFlow(registry, repo, handles, clock, application.WithCaptureLogger(logger))
	coordinator := application.NewCoordinator(repo, registry, capture, gate, handles, application.CoordinatorConfig{}, logger)
	svc := application.NewTrackerService(repo, repo, gate, clock, logger)
	require.NoError(t, svc.SeedAdmins(context.Background(), []domain.UserID{"admin"}))

	out := &bytes.Buffer{}
	return &channelHarness{
		channel: NewChannel(svc, coordinator, capture, out, clock, logger),
		out:     out,
		clock:   clock,
		repo:    repo,
	}
}

// run feeds a script and returns what was written for it.
func (h *channelHarness) run(t *testing.T, lines ...string) string {
	t.Helper()

	h.out.Reset()
	require.NoError(t, h.channel.Run(context.Background(), strings.NewReader(strings.Join(lines, "\n"))))
	return h.out.String()
}

func TestChannelListAndPickThenSubmit(t *testing.T) {
	h := newChannelHarness(t)

	h.run(t,
		"# setup",
		"admin: !lector alice",
		"alice: !guardar Solo Leveling,10",
		"alice: !guardar Tower of God,5,https://x.test",
	)

	out := h.run(t, "alice: !listar")
	assert.Contains(t, out, "@alice")
	assert.Contains(t, out, "page 1/1 · 2 total")
	assert.Contains(t, out, "1. Solo Leveling chapter 10")
	assert.Contains(t, out, "2. Tower of God chapter 5")
	assert.Contains(t, out, "!pick m1 <n>")

	out = h.run(t, "alice: !pick m1 2")
	assert.Contains(t, out, "Send the new chapter for Tower of God (currently 5).")
	assert.Contains(t, out, "!cancel m2")

	// Someone else's text never reaches alice's capture.
	assert.Empty(t, h.run(t, "bob: 99"))

	out = h.run(t, "alice: 12")
	assert.Contains(t, out, "Tower of God updated to chapter 12.")

	item, err := h.repo.FindOneByTitleExact(context.Background(), "alice", "Tower of God")
	require.NoError(t, err)
	assert.Equal(t, 12, item.Progress)
}

func TestChannelRefusesWithoutPermission(t *testing.T) {
	h := newChannelHarness(t)

	out := h.run(t, "mallory: !guardar Foo,1")
	assert.Contains(t, out, "@mallory")
	assert.Contains(t, out, "not allowed")

	out = h.run(t, "mallory: !listar")
	assert.Contains(t, out, "not allowed")
}

func TestChannelMalformedSaveInsertsNothing(t *testing.T) {
	h := newChannelHarness(t)

	out := h.run(t, "admin: !guardar Foo,abc")
	assert.Contains(t, out, "whole number")

	items, err := h.repo.FindByOwner(context.Background(), "admin", "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestChannelNavigationIsOwnerOnly(t *testing.T) {
	h := newChannelHarness(t)
	h.run(t, "admin: !guardar Solo Leveling,10")
	h.run(t, "admin: !listar")

	out := h.run(t, "carol: !next m1")
	assert.Contains(t, out, "@carol")
	assert.Contains(t, out, "not allowed")

	h.run(t, "admin: !lector bob")
	out = h.run(t, "bob: !next m1")
	assert.Contains(t, out, "@bob")
	assert.Contains(t, out, "Only the person who opened this prompt")

	out = h.run(t, "admin: !next m1")
	assert.Contains(t, out, "page 1/1")
}

func TestChannelDetailUpdateAndTimeout(t *testing.T) {
	h := newChannelHarness(t)
	h.run(t, "admin: !guardar Solo Leveling,10")

	out := h.run(t, "admin: !listar solo")
	assert.Contains(t, out, "Solo Leveling")
	assert.Contains(t, out, "!update m1")

	out = h.run(t, "bob: !update m1")
	assert.Contains(t, out, "Only the person who opened this prompt")

	out = h.run(t, "admin: !update m1")
	assert.Contains(t, out, "Send the new chapter for Solo Leveling")

	h.out.Reset()
	h.clock.Advance(application.DefaultCaptureTTL)
	assert.Contains(t, h.out.String(), "Time is up for Solo Leveling.")

	assert.Empty(t, h.run(t, "admin: 12"))

	item, err := h.repo.FindOneByTitleExact(context.Background(), "admin", "Solo Leveling")
	require.NoError(t, err)
	assert.Equal(t, 10, item.Progress)
}

func TestChannelNotFoundSuggests(t *testing.T) {
	h := newChannelHarness(t)
	h.run(t, "admin: !guardar Tower of God,5")

	out := h.run(t, "admin: !listar towr of god")
	assert.Contains(t, out, "No series found.")
	assert.Contains(t, out, "Did you mean: Tower of God?")
}

func TestChannelCancelAndInvalidInput(t *testing.T) {
	h := newChannelHarness(t)
	h.run(t, "admin: !guardar Solo Leveling,10", "admin: !listar")

	out := h.run(t, "admin: !cancel m1")
	assert.Contains(t, out, "Closed.")

	out = h.run(t, "admin: !next m1")
	assert.Contains(t, out, "expired")

	h.run(t, "admin: !listar", "admin: !pick m2 1")
	out = h.run(t, "admin: -3")
	assert.Contains(t, out, "whole number")

	// Single attempt: the capture is gone.
	assert.Empty(t, h.run(t, "admin: 3"))
}

func TestChannelIgnoresNoiseAndUnknownCommands(t *testing.T) {
	h := newChannelHarness(t)

	assert.Empty(t, h.run(t, "", "   ", "# comment", "no colon here", "two words: hi"))

	out := h.run(t, "admin: !frobnicate")
	assert.Contains(t, out, `unknown command "frobnicate"`)

	out = h.run(t, "admin: !pick m1")
	assert.Contains(t, out, "whole number")

	out = h.run(t, "admin: !info")
	assert.Contains(t, out, "guardar <title>,<chapter>[,<link>]")
}

func TestMessageHandlesAreSequential(t *testing.T) {
	handles := &MessageHandles{}
	assert.Equal(t, domain.Handle("m1"), handles.NewHandle())
	assert.Equal(t, domain.Handle("m2"), handles.NewHandle())
}

func TestChannelListsReaders(t *testing.T) {
	h := newChannelHarness(t)

	h.run(t, "admin: !lector alice")

	out := h.run(t, "alice: !lector")
	assert.Contains(t, out, "Readers")
	assert.Contains(t, out, "alice (added by admin)")

	out = h.run(t, "mallory: !lector")
	assert.Contains(t, out, "not allowed")
}

func TestChannelDetailControlsAreBoundedAndExpire(t *testing.T) {
	h := newChannelHarness(t)
	h.run(t, "admin: !guardar Solo Leveling,10")

	lines := make([]string, 0, 50)
	for range 50 {
		lines = append(lines, "admin: !listar solo")
	}
	h.run(t, lines...)

	h.channel.mu.Lock()
	assert.Len(t, h.channel.details, 1)
	h.channel.mu.Unlock()

	out := h.run(t, "admin: !update m1")
	assert.Contains(t, out, "expired")

	out = h.run(t, "admin: !listar solo")
	assert.Contains(t, out, "!update m51")

	h.clock.Advance(application.DefaultPageTTL)
	out = h.run(t, "admin: !update m51")
	assert.Contains(t, out, "expired")
	assert.NotContains(t, out, "Send the new chapter")

	h.channel.mu.Lock()
	assert.Empty(t, h.channel.details)
	h.channel.mu.Unlock()
}
