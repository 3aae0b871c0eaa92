package domain

import "time"

// Handle identifies one rendered interactive prompt.
type Handle string

type SessionKind string

const (
	SessionKindPagination SessionKind = "pagination"
	SessionKindCapture    SessionKind = "capture"
)

// SessionState is the kind-specific payload of an InteractionSession.
type SessionState interface {
	Kind() SessionKind
}

// PaginationState is a frozen view over the item set as of the listing.
type PaginationState struct {
	Snapshot  []TrackedItem
	PageIndex int
	PageSize  int
}

func (PaginationState) Kind() SessionKind { return SessionKindPagination }

func (s PaginationState) View() PageView {
	return ComposePage(s.Snapshot, s.PageSize, s.PageIndex)
}

// CaptureState names the item whose progress is being solicited.
type CaptureState struct {
	Target          ItemID
	Title           string
	CurrentProgress int
}

func (CaptureState) Kind() SessionKind { return SessionKindCapture }

type InteractionSession struct {
	Handle    Handle
	Owner     UserID
	State     SessionState
	OpenedAt  time.Time
	ExpiresAt time.Time
}

func (s InteractionSession) Kind() SessionKind {
	if s.State == nil {
		return ""
	}
	return s.State.Kind()
}

func (s InteractionSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s InteractionSession) Pagination() (PaginationState, bool) {
	state, ok := s.State.(PaginationState)
	return state, ok
}

func (s InteractionSession) Capture() (CaptureState, bool) {
	state, ok := s.State.(CaptureState)
	return state, ok
}

// CaptureStage is a state of the capture state machine.
type CaptureStage string

const (
	CaptureIdle          CaptureStage = "idle"
	CaptureAwaitingInput CaptureStage = "awaiting_input"
	CaptureValidating    CaptureStage = "validating"
	CaptureApplying      CaptureStage = "applying"
	CaptureClosed        CaptureStage = "closed"
)

// CaptureResult is how a capture session reached CaptureClosed.
type CaptureResult string

const (
	CaptureApplied        CaptureResult = "applied"
	CaptureInvalidInput   CaptureResult = "invalid_input"
	CaptureTargetNotFound CaptureResult = "target_not_found"
	CaptureApplyFailed    CaptureResult = "apply_failed"
	CaptureTimedOut       CaptureResult = "timed_out"
)
