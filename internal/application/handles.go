package application

import (
	"github.com/bnema/shelf/internal/domain"
	"github.com/bnema/shelf/internal/ports"
	"github.com/google/uuid"
)

// UUIDHandles mints random prompt handles for transports that have no
// message identity of their own.
type UUIDHandles struct{}

var _ ports.HandleSource = UUIDHandles{}

func (UUIDHandles) NewHandle() domain.Handle {
	return domain.Handle(uuid.NewString())
}
