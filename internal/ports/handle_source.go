package ports

import "github.com/bnema/shelf/internal/domain"

// HandleSource mints identities for rendered interactive prompts.
type HandleSource interface {
	NewHandle() domain.Handle
}
