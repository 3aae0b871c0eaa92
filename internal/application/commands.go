package application

import (
	"fmt"
	"strings"

	"github.com/bnema/shelf/internal/domain"
)

// Event is anything the coordinator can dispatch.
type Event interface {
	eventName() string
}

type ListCommand struct {
	Owner domain.UserID
	// TitleFilter is optional; empty lists everything.
	TitleFilter string
}

type NavigatePageCommand struct {
	Handle    domain.Handle
	Actor     domain.UserID
	Direction domain.PageDirection
}

type SelectForUpdateCommand struct {
	Actor  domain.UserID
	Target domain.ItemID
}

type SelectFromPageCommand struct {
	Handle domain.Handle
	Actor  domain.UserID
	// Position is 1-based on the current page.
	Position int
}

type SubmitValueCommand struct {
	Handle domain.Handle
	Actor  domain.UserID
	Raw    string
}

type CancelCommand struct {
	Handle domain.Handle
	Actor  domain.UserID
}

type SaveItemCommand struct {
	Owner domain.UserID
	// Raw is "<title>,<progress>[,<link>]".
	Raw string
}

type GrantReaderCommand struct {
	Actor domain.UserID
	User  domain.UserID
}

func (ListCommand) eventName() string            { return "list" }
func (NavigatePageCommand) eventName() string    { return "navigate" }
func (SelectForUpdateCommand) eventName() string { return "select" }
func (SelectFromPageCommand) eventName() string  { return "select_from_page" }
func (SubmitValueCommand) eventName() string     { return "submit" }
func (CancelCommand) eventName() string          { return "cancel" }

type saveArgs struct {
	Title    string
	Progress int
	Link     string
}

func parseSaveArgs(raw string) (saveArgs, error) {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) < 2 {
		return saveArgs{}, fmt.Errorf("%w: expected <title>,<progress>[,<link>]", domain.ErrMalformedInput)
	}
	if parts[0] == "" {
		return saveArgs{}, fmt.Errorf("%w: title is required", domain.ErrMalformedInput)
	}

	progress, err := domain.ParseProgress(parts[1])
	if err != nil {
		return saveArgs{}, err
	}

	return saveArgs{
		Title:    parts[0],
		Progress: progress,
		Link:     strings.TrimSpace(strings.Join(parts[2:], ",")),
	}, nil
}
