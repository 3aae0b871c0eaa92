package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bnema/shelf/internal/domain"
	"github.com/bnema/shelf/internal/ports"
)

const DefaultCaptureTTL = 15 * time.Second

// CaptureOutcome reports where a capture session ended up.
type CaptureOutcome struct {
	Handle domain.Handle
	Owner  domain.UserID
	Stage  domain.CaptureStage
	Result domain.CaptureResult
	Item   domain.TrackedItem
	Value  int
	Err    error
}

// CaptureNotifier receives outcomes nobody asked for, such as timeouts.
type CaptureNotifier func(CaptureOutcome)

type CaptureFlow struct {
	registry *SessionRegistry
	items    ports.ItemRepository
	clock    ports.Clock
	handles  ports.HandleSource
	ttl      time.Duration
	notify   CaptureNotifier
	logger   *slog.Logger
}

type CaptureFlowOption func(*CaptureFlow)

func WithCaptureTTL(ttl time.Duration) CaptureFlowOption {
	return func(f *CaptureFlow) {
		if ttl > 0 {
			f.ttl = ttl
		}
	}
}

func WithCaptureNotifier(notify CaptureNotifier) CaptureFlowOption {
	return func(f *CaptureFlow) {
		f.notify = notify
	}
}

func WithCaptureLogger(logger *slog.Logger) CaptureFlowOption {
	return func(f *CaptureFlow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func NewCaptureFlow(registry *SessionRegistry, items ports.ItemRepository, handles ports.HandleSource, clock ports.Clock, opts ...CaptureFlowOption) *CaptureFlow {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if handles == nil {
		handles = UUIDHandles{}
	}

	flow := &CaptureFlow{
		registry: registry,
		items:    items,
		clock:    clock,
		handles:  handles,
		ttl:      DefaultCaptureTTL,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(flow)
		}
	}

	return flow
}

// SetNotifier replaces the timeout notifier. Transports call it once they
// know where to post.
func (f *CaptureFlow) SetNotifier(notify CaptureNotifier) {
	f.notify = notify
}

// Open moves a capture from Idle to AwaitingInput for an item the owner owns.
func (f *CaptureFlow) Open(ctx context.Context, owner domain.UserID, target domain.ItemID) (domain.InteractionSession, error) {
	item, err := f.items.GetByID(ctx, target)
	if err != nil {
		return domain.InteractionSession{}, fmt.Errorf("get item by id: %w", err)
	}
	if item.Owner != owner {
		return domain.InteractionSession{}, fmt.Errorf("item %s: %w", target, domain.ErrItemNotFound)
	}

	handle := f.handles.NewHandle()
	session, err := f.registry.Open(handle, owner, domain.CaptureState{
		Target:          item.ID,
		Title:           item.Title,
		CurrentProgress: item.Progress,
	}, f.ttl)
	if err != nil {
		return domain.InteractionSession{}, fmt.Errorf("open capture session: %w", err)
	}

	timer := f.clock.AfterFunc(f.ttl, func() { f.timeout(handle) })
	f.registry.BindTimer(handle, func() { timer.Stop() })

	f.logger.Info("capture opened", "handle", handle, "owner", owner, "item", item.ID, "ttl", f.ttl)
	return session, nil
}

// Submit drives the session from AwaitingInput to Closed. A non-owner gets
// ErrNotSessionOwner and leaves the session untouched. Any other submission
// consumes the session, so later ones observe ErrNoSuchSession.
func (f *CaptureFlow) Submit(ctx context.Context, handle domain.Handle, actor domain.UserID, raw string) (CaptureOutcome, error) {
	outcome := CaptureOutcome{Handle: handle, Owner: actor, Stage: domain.CaptureAwaitingInput}

	session, err := f.registry.Consume(handle, actor, domain.SessionKindCapture)
	if err != nil {
		outcome.Err = err
		return outcome, err
	}
	state, _ := session.Capture()
	outcome.Item = domain.TrackedItem{ID: state.Target, Title: state.Title, Owner: session.Owner, Progress: state.CurrentProgress}

	value, err := domain.ParseProgress(raw)
	if err != nil {
		return f.close(outcome, domain.CaptureInvalidInput, err)
	}
	outcome.Value = value
	outcome.Stage = domain.CaptureValidating

	item, err := f.items.GetByID(ctx, state.Target)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return f.close(outcome, domain.CaptureTargetNotFound, err)
		}
		return f.close(outcome, domain.CaptureApplyFailed, fmt.Errorf("%w: %w", domain.ErrApplyFailed, err))
	}
	outcome.Item = item
	outcome.Stage = domain.CaptureApplying

	savedAt := f.clock.Now()
	if err := f.items.UpdateProgress(ctx, item.ID, value, savedAt); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return f.close(outcome, domain.CaptureTargetNotFound, err)
		}
		if errors.Is(err, domain.ErrStorageUnavailable) {
			f.logger.Error("capture apply failed: storage unavailable", "handle", handle, "item", item.ID, "error", err)
		}
		return f.close(outcome, domain.CaptureApplyFailed, fmt.Errorf("%w: %w", domain.ErrApplyFailed, err))
	}

	outcome.Item.Progress = value
	outcome.Item.SavedAt = savedAt
	return f.close(outcome, domain.CaptureApplied, nil)
}

func (f *CaptureFlow) timeout(handle domain.Handle) {
	session, ok := f.registry.Expire(handle)
	if !ok {
		return
	}

	outcome := CaptureOutcome{
		Handle: handle,
		Owner:  session.Owner,
		Stage:  domain.CaptureClosed,
		Result: domain.CaptureTimedOut,
		Err:    domain.ErrCaptureTimedOut,
	}
	if state, ok := session.Capture(); ok {
		outcome.Item = domain.TrackedItem{ID: state.Target, Title: state.Title, Owner: session.Owner, Progress: state.CurrentProgress}
	}

	f.logger.Info("capture timed out", "handle", handle, "owner", session.Owner)
	if f.notify != nil {
		f.notify(outcome)
	}
}

func (f *CaptureFlow) close(outcome CaptureOutcome, result domain.CaptureResult, err error) (CaptureOutcome, error) {
	outcome.Stage = domain.CaptureClosed
	outcome.Result = result
	outcome.Err = err

	f.logger.Info("capture closed", "handle", outcome.Handle, "owner", outcome.Owner, "result", result)
	return outcome, err
}
