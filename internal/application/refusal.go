package application

import (
	"errors"

	"github.com/bnema/shelf/internal/domain"
)

// RefusalMessage turns an error into the sentence shown to the acting user.
func RefusalMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrPermissionDenied):
		return "You are not allowed to use this command. Ask a reader to run `lector` for you."
	case errors.Is(err, domain.ErrNotSessionOwner):
		return "Only the person who opened this prompt can use it."
	case errors.Is(err, domain.ErrNoSuchSession):
		return "This prompt has expired. Run the command again."
	case errors.Is(err, domain.ErrCaptureTimedOut):
		return "Time is up. No chapter was received, nothing was changed."
	case errors.Is(err, domain.ErrWrongSessionKind):
		return "That action does not apply to this prompt."
	case errors.Is(err, domain.ErrMalformedInput):
		return "The chapter must be a whole number of 0 or more. Format: <title>,<chapter>[,<link>]."
	case errors.Is(err, domain.ErrItemNotFound):
		return "No series found."
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "Storage is unavailable right now. Try again later."
	case errors.Is(err, domain.ErrApplyFailed):
		return "The chapter could not be updated."
	default:
		return "Something went wrong while handling the command."
	}
}
