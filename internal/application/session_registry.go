package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/shelf/internal/domain"
	"github.com/bnema/shelf/internal/ports"
)

// SessionRegistry owns every open interactive session. Each owner has at
// most one open session; opening another replaces it. All transitions are
// serialized on a single mutex and callers only ever receive copies.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[domain.Handle]*registryEntry
	byOwner  map[domain.UserID]domain.Handle
	clock    ports.Clock
	logger   *slog.Logger
}

type registryEntry struct {
	session domain.InteractionSession
	// release stops whatever timer is bound to the session.
	release func()
}

func NewSessionRegistry(clock ports.Clock, logger *slog.Logger) *SessionRegistry {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &SessionRegistry{
		sessions: map[domain.Handle]*registryEntry{},
		byOwner:  map[domain.UserID]domain.Handle{},
		clock:    clock,
		logger:   logger,
	}
}

func (r *SessionRegistry) Open(handle domain.Handle, owner domain.UserID, state domain.SessionState, ttl time.Duration) (domain.InteractionSession, error) {
	if handle == "" {
		return domain.InteractionSession{}, errors.New("session handle is empty")
	}
	if owner == "" {
		return domain.InteractionSession{}, errors.New("session owner is empty")
	}
	if state == nil {
		return domain.InteractionSession{}, errors.New("session state is nil")
	}
	if ttl <= 0 {
		return domain.InteractionSession{}, errors.New("session ttl must be positive")
	}

	now := r.clock.Now()
	session := domain.InteractionSession{
		Handle:    handle,
		Owner:     owner,
		State:     state,
		OpenedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, ok := r.byOwner[owner]; ok {
		r.removeLocked(previous)
		r.logger.Debug("session replaced", "owner", owner, "previous", previous, "handle", handle)
	}
	// A reused handle belongs to the newest prompt.
	r.removeLocked(handle)

	r.sessions[handle] = &registryEntry{session: session}
	r.byOwner[owner] = handle
	r.logger.Debug("session opened", "handle", handle, "owner", owner, "kind", state.Kind(), "expires_at", session.ExpiresAt)

	return session, nil
}

// BindTimer attaches stop to the session so it runs when the session is
// removed. If the session is already gone, stop runs immediately.
func (r *SessionRegistry) BindTimer(handle domain.Handle, stop func()) {
	if stop == nil {
		return
	}

	r.mu.Lock()
	entry, ok := r.sessions[handle]
	if ok {
		entry.release = stop
	}
	r.mu.Unlock()

	if !ok {
		stop()
	}
}

func (r *SessionRegistry) Resolve(handle domain.Handle, actor domain.UserID) (domain.InteractionSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.lookupLocked(handle, actor)
	if err != nil {
		return domain.InteractionSession{}, err
	}

	return entry.session, nil
}

// Advance resolves the session and lets fn mutate it while the registry lock
// is held. fn must not call back into the registry.
func (r *SessionRegistry) Advance(handle domain.Handle, actor domain.UserID, fn func(*domain.InteractionSession) error) (domain.InteractionSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.lookupLocked(handle, actor)
	if err != nil {
		return domain.InteractionSession{}, err
	}

	updated := entry.session
	if err := fn(&updated); err != nil {
		return domain.InteractionSession{}, err
	}
	// Identity fields are owned by the registry.
	updated.Handle = entry.session.Handle
	updated.Owner = entry.session.Owner
	entry.session = updated

	return updated, nil
}

// Consume resolves a session of the given kind and removes it in the same
// critical section, so only the first of several concurrent callers
// receives it. A session of another kind is left in place.
func (r *SessionRegistry) Consume(handle domain.Handle, actor domain.UserID, kind domain.SessionKind) (domain.InteractionSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.lookupLocked(handle, actor)
	if err != nil {
		return domain.InteractionSession{}, err
	}
	if entry.session.Kind() != kind {
		return domain.InteractionSession{}, domain.ErrWrongSessionKind
	}
	r.removeLocked(handle)

	return entry.session, nil
}

// CaptureFor returns the actor's open capture session, if any.
func (r *SessionRegistry) CaptureFor(actor domain.UserID) (domain.InteractionSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle, ok := r.byOwner[actor]
	if !ok {
		return domain.InteractionSession{}, false
	}
	entry, err := r.lookupLocked(handle, actor)
	if err != nil || entry.session.Kind() != domain.SessionKindCapture {
		return domain.InteractionSession{}, false
	}

	return entry.session, true
}

func (r *SessionRegistry) Close(handle domain.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(handle)
}

// Expire removes the session on behalf of its timeout. The boolean is false
// when the session was already resolved, closed or replaced.
func (r *SessionRegistry) Expire(handle domain.Handle) (domain.InteractionSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[handle]
	if !ok {
		return domain.InteractionSession{}, false
	}
	entry.release = nil
	r.removeLocked(handle)
	r.logger.Debug("session expired", "handle", handle, "owner", entry.session.Owner)

	return entry.session, true
}

// Sweep drops every expired session and reports how many were removed.
// Sessions with a bound timer are left for that timer.
func (r *SessionRegistry) Sweep() int {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for handle, entry := range r.sessions {
		if entry.session.Expired(now) && entry.release == nil {
			r.removeLocked(handle)
			removed++
		}
	}

	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (r *SessionRegistry) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := r.Sweep(); removed > 0 {
				r.logger.Debug("swept expired sessions", "count", removed)
			}
		}
	}
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

func (r *SessionRegistry) lookupLocked(handle domain.Handle, actor domain.UserID) (*registryEntry, error) {
	entry, ok := r.sessions[handle]
	if !ok {
		return nil, domain.ErrNoSuchSession
	}
	if entry.session.Expired(r.clock.Now()) {
		// A bound timer removes its own session and reports the timeout.
		if entry.release == nil {
			r.removeLocked(handle)
		}
		return nil, domain.ErrNoSuchSession
	}
	if entry.session.Owner != actor {
		return nil, domain.ErrNotSessionOwner
	}

	return entry, nil
}

func (r *SessionRegistry) removeLocked(handle domain.Handle) {
	entry, ok := r.sessions[handle]
	if !ok {
		return
	}

	delete(r.sessions, handle)
	if r.byOwner[entry.session.Owner] == handle {
		delete(r.byOwner, entry.session.Owner)
	}
	if entry.release != nil {
		entry.release()
	}
}
