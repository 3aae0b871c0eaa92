package console

import (
	"fmt"
	"sync/atomic"

	"github.com/bnema/shelf/internal/domain"
	"github.com/bnema/shelf/internal/ports"
)

// MessageHandles numbers prompts the way a chat names its messages.
type MessageHandles struct {
	next atomic.Int64
}

var _ ports.HandleSource = (*MessageHandles)(nil)

func (h *MessageHandles) NewHandle() domain.Handle {
	return domain.Handle(fmt.Sprintf("m%d", h.next.Add(1)))
}
