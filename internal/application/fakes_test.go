package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/shelf/internal/domain"
	"github.com/bnema/shelf/internal/ports"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock    *fakeClock
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer := &fakeTimer{clock: c, deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, timer)
	return timer
}

// Advance moves time forward and runs due callbacks outside the clock lock.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	pending := c.timers[:0]
	for _, timer := range c.timers {
		switch {
		case timer.stopped || timer.fired:
		case !timer.deadline.After(c.now):
			timer.fired = true
			due = append(due, timer)
		default:
			pending = append(pending, timer)
		}
	}
	c.timers = pending
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	for _, timer := range due {
		timer.f()
	}
}

// skip moves time forward without running callbacks, as if a timer were
// late.
func (c *fakeClock) skip(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) pendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, timer := range c.timers {
		if !timer.stopped && !timer.fired {
			count++
		}
	}
	return count
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type sequentialHandles struct {
	mu   sync.Mutex
	next int
}

func (h *sequentialHandles) NewHandle() domain.Handle {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.next++
	return domain.Handle(fmt.Sprintf("h%d", h.next))
}

type memItems struct {
	mu     sync.Mutex
	items  []domain.TrackedItem
	nextID int
}

var _ ports.ItemRepository = (*memItems)(nil)

func (r *memItems) Insert(_ context.Context, item domain.TrackedItem) (domain.ItemID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	item.ID = domain.ItemID(strconv.Itoa(r.nextID))
	r.items = append(r.items, item)
	return item.ID, nil
}

func (r *memItems) FindByOwner(_ context.Context, owner domain.UserID, titleFilter string) ([]domain.TrackedItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.TrackedItem
	for _, item := range r.items {
		if item.Owner != owner {
			continue
		}
		if titleFilter != "" && !item.TitleContains(titleFilter) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *memItems) FindOneByTitleExact(_ context.Context, owner domain.UserID, title string) (domain.TrackedItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []domain.TrackedItem
	for _, item := range r.items {
		if item.Owner == owner && item.TitleMatches(title) {
			matches = append(matches, item)
		}
	}
	item, ok := domain.MostRecent(matches)
	if !ok {
		return domain.TrackedItem{}, domain.ErrItemNotFound
	}
	return item, nil
}

func (r *memItems) GetByID(_ context.Context, id domain.ItemID) (domain.TrackedItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.TrackedItem{}, domain.ErrItemNotFound
}

func (r *memItems) UpdateProgress(_ context.Context, id domain.ItemID, progress int, savedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Progress = progress
			r.items[i].SavedAt = savedAt
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (r *memItems) mustAdd(title string, owner domain.UserID, progress int) domain.TrackedItem {
	id, _ := r.Insert(context.Background(), domain.TrackedItem{Title: title, Owner: owner, Progress: progress, SavedAt: testNow})
	item, _ := r.GetByID(context.Background(), id)
	return item
}

type memGrants struct {
	mu     sync.Mutex
	grants []domain.PermissionGrant
}

var _ ports.GrantRepository = (*memGrants)(nil)

func (r *memGrants) Grant(_ context.Context, grant domain.PermissionGrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.grants {
		if existing.User == grant.User {
			return nil
		}
	}
	r.grants = append(r.grants, grant)
	return nil
}

func (r *memGrants) HasGrant(_ context.Context, user domain.UserID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.grants {
		if existing.User == user {
			return true, nil
		}
	}
	return false, nil
}

func (r *memGrants) ListGrants(_ context.Context) ([]domain.PermissionGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]domain.PermissionGrant(nil), r.grants...), nil
}

func allowAll() Gate {
	return GateFunc(func(context.Context, domain.UserID) error { return nil })
}
