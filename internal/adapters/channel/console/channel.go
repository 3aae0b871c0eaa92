package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bnema/shelf/internal/adapters/render/tracker"
	"github.com/bnema/shelf/internal/application"
	"github.com/bnema/shelf/internal/domain"
	"github.com/bnema/shelf/internal/ports"
)

const commandPrefix = "!"

var errUnknownCommand = errors.New("unknown command")

// Channel is a line based chat transport. Each input line reads
// "<user>: <text>"; replies are written to out addressed to the user.
type Channel struct {
	tracker     *application.TrackerService
	coordinator *application.Coordinator
	clock       ports.Clock
	logger      *slog.Logger

	mu  sync.Mutex
	out io.Writer
	// Detail prompts carry an update control but no session. Only the
	// latest unexpired control of each owner is kept.
	details map[domain.Handle]detailControl
}

type detailControl struct {
	owner     domain.UserID
	item      domain.ItemID
	expiresAt time.Time
}

func NewChannel(svc *application.TrackerService, coordinator *application.Coordinator, capture *application.CaptureFlow, out io.Writer, clock ports.Clock, logger *slog.Logger) *Channel {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Channel{
		tracker:     svc,
		coordinator: coordinator,
		clock:       clock,
		logger:      logger,
		out:         out,
		details:     map[domain.Handle]detailControl{},
	}
	if capture != nil {
		capture.SetNotifier(c.notify)
	}

	return c
}

// Run reads lines until r is exhausted or ctx is done.
func (c *Channel) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.HandleLine(ctx, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read channel input: %w", err)
	}

	return nil
}

// HandleLine processes one input line. Only output failures are returned;
// refusals are written to the acting user.
func (c *Channel) HandleLine(ctx context.Context, line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	user, text, ok := strings.Cut(trimmed, ":")
	user = strings.TrimSpace(user)
	text = strings.TrimSpace(text)
	if !ok || user == "" || strings.ContainsAny(user, " \t") {
		c.logger.Warn("ignoring malformed channel line", "line", trimmed)
		return nil
	}
	actor := domain.UserID(user)

	if !strings.HasPrefix(text, commandPrefix) {
		return c.handleText(ctx, actor, text)
	}

	name, args, _ := strings.Cut(strings.TrimPrefix(text, commandPrefix), " ")
	args = strings.TrimSpace(args)
	c.logger.Debug("channel command", "user", actor, "command", name)

	switch strings.ToLower(name) {
	case "info":
		rendered, err := tracker.Info(c.tracker.Info())
		return c.reply(actor, rendered, err)
	case "guardar":
		item, err := c.tracker.Save(ctx, application.SaveItemCommand{Owner: actor, Raw: args})
		if err != nil {
			return c.refuse(actor, err)
		}
		rendered, err := tracker.Saved(item)
		return c.reply(actor, rendered, err)
	case "lector":
		if args == "" {
			readers, err := c.tracker.Readers(ctx, actor)
			if err != nil {
				return c.refuse(actor, err)
			}
			rendered, err := tracker.Readers(readers)
			return c.reply(actor, rendered, err)
		}
		grant, err := c.tracker.GrantReader(ctx, application.GrantReaderCommand{Actor: actor, User: domain.UserID(args)})
		if err != nil {
			return c.refuse(actor, err)
		}
		rendered, err := tracker.Granted(grant)
		return c.reply(actor, rendered, err)
	case "listar":
		return c.dispatch(ctx, actor, application.ListCommand{Owner: actor, TitleFilter: args})
	case "prev", "next":
		return c.dispatch(ctx, actor, application.NavigatePageCommand{
			Handle:    domain.Handle(args),
			Actor:     actor,
			Direction: domain.PageDirection(strings.ToLower(name)),
		})
	case "pick":
		handle, position, err := parsePick(args)
		if err != nil {
			return c.refuse(actor, err)
		}
		return c.dispatch(ctx, actor, application.SelectFromPageCommand{Handle: handle, Actor: actor, Position: position})
	case "update":
		target, err := c.detailTarget(domain.Handle(args), actor)
		if err != nil {
			return c.refuse(actor, err)
		}
		return c.dispatch(ctx, actor, application.SelectForUpdateCommand{Actor: actor, Target: target})
	case "cancel":
		return c.dispatch(ctx, actor, application.CancelCommand{Handle: domain.Handle(args), Actor: actor})
	default:
		return c.refuse(actor, fmt.Errorf("%w %q: try %sinfo", errUnknownCommand, name, commandPrefix))
	}
}

func (c *Channel) handleText(ctx context.Context, actor domain.UserID, text string) error {
	outcome, handled, err := c.coordinator.SubmitText(ctx, actor, text)
	if !handled {
		return nil
	}
	if err != nil && outcome.Result == "" {
		return c.refuse(actor, err)
	}

	rendered, err := tracker.Outcome(outcome)
	return c.reply(actor, rendered, err)
}

func (c *Channel) dispatch(ctx context.Context, actor domain.UserID, event application.Event) error {
	reply, err := c.coordinator.Dispatch(ctx, event)
	if err != nil {
		if reply.Outcome != nil && reply.Outcome.Result != "" {
			rendered, err := tracker.Outcome(*reply.Outcome)
			return c.reply(actor, rendered, err)
		}
		return c.refuse(actor, err)
	}

	switch {
	case reply.Prompt != nil:
		prompt := *reply.Prompt
		if prompt.Kind == application.PromptDetail {
			c.rememberDetail(prompt)
		}
		rendered, err := tracker.Prompt(prompt, tracker.RenderOptions{Now: c.clock.Now(), ControlPrefix: commandPrefix})
		return c.reply(actor, rendered, err)
	case reply.Outcome != nil:
		rendered, err := tracker.Outcome(*reply.Outcome)
		return c.reply(actor, rendered, err)
	case reply.Closed:
		return c.write(actor, "Closed.")
	default:
		return nil
	}
}

func (c *Channel) rememberDetail(prompt application.Prompt) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneDetailsLocked(c.clock.Now())
	for handle, control := range c.details {
		if control.owner == prompt.Owner {
			delete(c.details, handle)
		}
	}
	c.details[prompt.Handle] = detailControl{owner: prompt.Owner, item: prompt.Item.ID, expiresAt: prompt.ExpiresAt}
}

func (c *Channel) detailTarget(handle domain.Handle, actor domain.UserID) (domain.ItemID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneDetailsLocked(c.clock.Now())
	control, ok := c.details[handle]
	if !ok {
		return "", domain.ErrNoSuchSession
	}
	if control.owner != actor {
		return "", domain.ErrNotSessionOwner
	}

	return control.item, nil
}

func (c *Channel) pruneDetailsLocked(now time.Time) {
	for handle, control := range c.details {
		if !now.Before(control.expiresAt) {
			delete(c.details, handle)
		}
	}
}

// notify posts capture outcomes nobody waited for, such as timeouts.
func (c *Channel) notify(outcome application.CaptureOutcome) {
	rendered, renderErr := tracker.Outcome(outcome)
	if err := c.reply(outcome.Owner, rendered, renderErr); err != nil {
		c.logger.Error("post capture outcome", "handle", outcome.Handle, "error", err)
	}
}

func (c *Channel) refuse(actor domain.UserID, err error) error {
	c.logger.Info("refused", "user", actor, "error", err)
	if errors.Is(err, errUnknownCommand) {
		return c.write(actor, err.Error())
	}
	rendered, err := tracker.Refusal(err)
	return c.reply(actor, rendered, err)
}

func (c *Channel) reply(actor domain.UserID, rendered string, err error) error {
	if err != nil {
		return fmt.Errorf("render reply: %w", err)
	}
	return c.write(actor, rendered)
}

func (c *Channel) write(actor domain.UserID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "@%s\n", actor)
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(c.out, b.String()); err != nil {
		return fmt.Errorf("write reply: %w", err)
	}
	return nil
}

func parsePick(args string) (domain.Handle, int, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("%w: expected <handle> <position>", domain.ErrMalformedInput)
	}

	position, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, fmt.Errorf("%w: position %q", domain.ErrMalformedInput, fields[1])
	}

	return domain.Handle(fields[0]), position, nil
}
