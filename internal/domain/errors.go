package domain

import "errors"

var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrMalformedInput     = errors.New("malformed input")
	ErrItemNotFound       = errors.New("item not found")
	ErrNoSuchSession      = errors.New("no such session")
	ErrNotSessionOwner    = errors.New("not the session owner")
	ErrWrongSessionKind   = errors.New("wrong session kind")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrApplyFailed        = errors.New("apply failed")
	ErrCaptureTimedOut    = errors.New("capture timed out")
)
