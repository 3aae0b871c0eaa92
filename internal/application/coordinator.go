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

const DefaultPageTTL = 3 * time.Minute

type PromptKind string

const (
	PromptPage    PromptKind = "page"
	PromptDetail  PromptKind = "detail"
	PromptCapture PromptKind = "capture"
)

// Prompt is what a transport renders after an event. Page prompts and
// capture prompts are backed by a session under Handle; detail prompts only
// carry an update control for Item.
type Prompt struct {
	Kind         PromptKind
	Handle       domain.Handle
	Owner        domain.UserID
	Page         domain.PageView
	Item         domain.TrackedItem
	OtherMatches int
	ExpiresAt    time.Time
}

// Reply is the result of Dispatch: either a prompt to render or the outcome
// of a capture.
type Reply struct {
	Prompt  *Prompt
	Outcome *CaptureOutcome
	Closed  bool
}

type CoordinatorConfig struct {
	PageSize int
	PageTTL  time.Duration
}

// Coordinator routes user actions to page composition or to the capture
// flow.
type Coordinator struct {
	items    ports.ItemRepository
	registry *SessionRegistry
	capture  *CaptureFlow
	gate     Gate
	handles  ports.HandleSource
	pageSize int
	pageTTL  time.Duration
	logger   *slog.Logger
}

func NewCoordinator(items ports.ItemRepository, registry *SessionRegistry, capture *CaptureFlow, gate Gate, handles ports.HandleSource, cfg CoordinatorConfig, logger *slog.Logger) *Coordinator {
	if handles == nil {
		handles = UUIDHandles{}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = domain.DefaultPageSize
	}
	if cfg.PageTTL <= 0 {
		cfg.PageTTL = DefaultPageTTL
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Coordinator{
		items:    items,
		registry: registry,
		capture:  capture,
		gate:     gate,
		handles:  handles,
		pageSize: cfg.PageSize,
		pageTTL:  cfg.PageTTL,
		logger:   logger,
	}
}

func (c *Coordinator) Dispatch(ctx context.Context, event Event) (Reply, error) {
	c.logger.Debug("dispatch", "event", event.eventName())

	switch ev := event.(type) {
	case ListCommand:
		prompt, err := c.List(ctx, ev)
		return promptReply(prompt, err)
	case NavigatePageCommand:
		prompt, err := c.Navigate(ctx, ev)
		return promptReply(prompt, err)
	case SelectForUpdateCommand:
		prompt, err := c.SelectForUpdate(ctx, ev)
		return promptReply(prompt, err)
	case SelectFromPageCommand:
		prompt, err := c.SelectFromPage(ctx, ev)
		return promptReply(prompt, err)
	case SubmitValueCommand:
		outcome, err := c.SubmitValue(ctx, ev)
		return Reply{Outcome: &outcome}, err
	case CancelCommand:
		if err := c.Cancel(ev); err != nil {
			return Reply{}, err
		}
		return Reply{Closed: true}, nil
	default:
		return Reply{}, fmt.Errorf("%w: unsupported event %T", domain.ErrMalformedInput, event)
	}
}

func promptReply(prompt Prompt, err error) (Reply, error) {
	if err != nil {
		return Reply{}, err
	}
	return Reply{Prompt: &prompt}, nil
}

// List shows every item of the owner as a paged prompt, or the best match
// for a title filter as a detail prompt.
func (c *Coordinator) List(ctx context.Context, cmd ListCommand) (Prompt, error) {
	if err := c.gate.Require(ctx, cmd.Owner); err != nil {
		return Prompt{}, err
	}

	if cmd.TitleFilter == "" {
		return c.listAll(ctx, cmd.Owner)
	}

	return c.findOne(ctx, cmd.Owner, cmd.TitleFilter)
}

func (c *Coordinator) listAll(ctx context.Context, owner domain.UserID) (Prompt, error) {
	items, err := c.items.FindByOwner(ctx, owner, "")
	if err != nil {
		return Prompt{}, fmt.Errorf("find items by owner: %w", err)
	}
	if len(items) == 0 {
		return Prompt{}, &NotFoundError{Owner: owner}
	}

	handle := c.handles.NewHandle()
	state := domain.PaginationState{Snapshot: items, PageIndex: 0, PageSize: c.pageSize}
	session, err := c.registry.Open(handle, owner, state, c.pageTTL)
	if err != nil {
		return Prompt{}, fmt.Errorf("open pagination session: %w", err)
	}

	return Prompt{
		Kind:      PromptPage,
		Handle:    handle,
		Owner:     owner,
		Page:      state.View(),
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (c *Coordinator) findOne(ctx context.Context, owner domain.UserID, filter string) (Prompt, error) {
	matches, err := c.items.FindByOwner(ctx, owner, filter)
	if err != nil {
		return Prompt{}, fmt.Errorf("find items by title: %w", err)
	}

	item, err := c.items.FindOneByTitleExact(ctx, owner, filter)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrItemNotFound):
		if len(matches) == 0 {
			return Prompt{}, c.notFound(ctx, owner, filter)
		}
		item = matches[0]
	default:
		return Prompt{}, fmt.Errorf("find item by exact title: %w", err)
	}

	others := len(matches) - 1
	if others < 0 {
		others = 0
	}

	// No session backs a detail prompt, but its update control lives as
	// long as a page would.
	return Prompt{
		Kind:         PromptDetail,
		Handle:       c.handles.NewHandle(),
		Owner:        owner,
		Item:         item,
		OtherMatches: others,
		ExpiresAt:    c.registry.clock.Now().Add(c.pageTTL),
	}, nil
}

func (c *Coordinator) notFound(ctx context.Context, owner domain.UserID, query string) error {
	all, err := c.items.FindByOwner(ctx, owner, "")
	if err != nil {
		// Suggestions are best effort.
		c.logger.Warn("load titles for suggestions", "owner", owner, "error", err)
		return &NotFoundError{Owner: owner, Query: query}
	}

	return &NotFoundError{Owner: owner, Query: query, Suggestions: suggestTitles(query, all, maxSuggestions)}
}

// Navigate moves a page session one page in the requested direction.
// Moving past either end re-renders the same page.
func (c *Coordinator) Navigate(ctx context.Context, cmd NavigatePageCommand) (Prompt, error) {
	if err := c.gate.Require(ctx, cmd.Actor); err != nil {
		return Prompt{}, err
	}
	if !cmd.Direction.Valid() {
		return Prompt{}, fmt.Errorf("%w: unknown direction %q", domain.ErrMalformedInput, cmd.Direction)
	}

	session, err := c.registry.Advance(cmd.Handle, cmd.Actor, func(s *domain.InteractionSession) error {
		state, ok := s.Pagination()
		if !ok {
			return domain.ErrWrongSessionKind
		}
		state.PageIndex = state.View().Step(cmd.Direction)
		s.State = state
		return nil
	})
	if err != nil {
		return Prompt{}, err
	}

	state, _ := session.Pagination()
	return Prompt{
		Kind:      PromptPage,
		Handle:    session.Handle,
		Owner:     session.Owner,
		Page:      state.View(),
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (c *Coordinator) SelectForUpdate(ctx context.Context, cmd SelectForUpdateCommand) (Prompt, error) {
	if err := c.gate.Require(ctx, cmd.Actor); err != nil {
		return Prompt{}, err
	}

	session, err := c.capture.Open(ctx, cmd.Actor, cmd.Target)
	if err != nil {
		return Prompt{}, err
	}

	return capturePrompt(session), nil
}

// SelectFromPage opens a capture for the item at a position of the current
// page. The capture replaces the page session.
func (c *Coordinator) SelectFromPage(ctx context.Context, cmd SelectFromPageCommand) (Prompt, error) {
	session, err := c.registry.Resolve(cmd.Handle, cmd.Actor)
	if err != nil {
		return Prompt{}, err
	}
	state, ok := session.Pagination()
	if !ok {
		return Prompt{}, domain.ErrWrongSessionKind
	}

	item, ok := state.View().At(cmd.Position)
	if !ok {
		return Prompt{}, fmt.Errorf("%w: no item at position %d", domain.ErrMalformedInput, cmd.Position)
	}

	return c.SelectForUpdate(ctx, SelectForUpdateCommand{Actor: cmd.Actor, Target: item.ID})
}

func (c *Coordinator) SubmitValue(ctx context.Context, cmd SubmitValueCommand) (CaptureOutcome, error) {
	if err := c.gate.Require(ctx, cmd.Actor); err != nil {
		return CaptureOutcome{Handle: cmd.Handle, Owner: cmd.Actor, Err: err}, err
	}
	return c.capture.Submit(ctx, cmd.Handle, cmd.Actor, cmd.Raw)
}

// SubmitText matches free text against the actor's open capture. handled is
// false when the actor has none.
func (c *Coordinator) SubmitText(ctx context.Context, actor domain.UserID, raw string) (outcome CaptureOutcome, handled bool, err error) {
	session, ok := c.registry.CaptureFor(actor)
	if !ok {
		return CaptureOutcome{}, false, nil
	}
	if err := c.gate.Require(ctx, actor); err != nil {
		return CaptureOutcome{Handle: session.Handle, Owner: actor, Err: err}, true, err
	}

	outcome, err = c.capture.Submit(ctx, session.Handle, actor, raw)
	return outcome, true, err
}

// Cancel closes a session early. Only its owner may do so.
func (c *Coordinator) Cancel(cmd CancelCommand) error {
	if _, err := c.registry.Resolve(cmd.Handle, cmd.Actor); err != nil {
		return err
	}
	c.registry.Close(cmd.Handle)
	return nil
}

func capturePrompt(session domain.InteractionSession) Prompt {
	state, _ := session.Capture()
	return Prompt{
		Kind:   PromptCapture,
		Handle: session.Handle,
		Owner:  session.Owner,
		Item: domain.TrackedItem{
			ID:       state.Target,
			Title:    state.Title,
			Owner:    session.Owner,
			Progress: state.CurrentProgress,
		},
		ExpiresAt: session.ExpiresAt,
	}
}
