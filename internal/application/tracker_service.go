package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bnema/shelf/internal/domain"
	"github.com/bnema/shelf/internal/ports"
)

type CommandHelp struct {
	Usage       string
	Description string
}

type Info struct {
	Name     string
	Summary  string
	Commands []CommandHelp
}

// TrackerService handles the plain commands that do not open interactive
// sessions.
type TrackerService struct {
	items  ports.ItemRepository
	grants ports.GrantRepository
	gate   Gate
	clock  ports.Clock
	logger *slog.Logger
}

func NewTrackerService(items ports.ItemRepository, grants ports.GrantRepository, gate Gate, clock ports.Clock, logger *slog.Logger) *TrackerService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if gate == nil {
		gate = NewGrantGate(grants)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &TrackerService{items: items, grants: grants, gate: gate, clock: clock, logger: logger}
}

func (s *TrackerService) Save(ctx context.Context, cmd SaveItemCommand) (domain.TrackedItem, error) {
	if err := s.gate.Require(ctx, cmd.Owner); err != nil {
		return domain.TrackedItem{}, err
	}

	args, err := parseSaveArgs(cmd.Raw)
	if err != nil {
		return domain.TrackedItem{}, err
	}

	item := domain.TrackedItem{
		Title:    args.Title,
		Owner:    cmd.Owner,
		Progress: args.Progress,
		Link:     args.Link,
		SavedAt:  s.clock.Now(),
	}
	if err := item.Validate(); err != nil {
		return domain.TrackedItem{}, err
	}

	id, err := s.items.Insert(ctx, item)
	if err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) {
			s.logger.Error("save item: storage unavailable", "owner", cmd.Owner, "error", err)
		}
		return domain.TrackedItem{}, fmt.Errorf("insert item: %w", err)
	}
	item.ID = id

	s.logger.Info("item saved", "owner", cmd.Owner, "item", id, "progress", item.Progress)
	return item, nil
}

// GrantReader lets an authorized actor authorize another user.
func (s *TrackerService) GrantReader(ctx context.Context, cmd GrantReaderCommand) (domain.PermissionGrant, error) {
	if err := s.gate.Require(ctx, cmd.Actor); err != nil {
		return domain.PermissionGrant{}, err
	}

	user := domain.UserID(strings.TrimSpace(string(cmd.User)))
	if user == "" {
		return domain.PermissionGrant{}, fmt.Errorf("%w: user is required", domain.ErrMalformedInput)
	}

	grant := domain.PermissionGrant{User: user, GrantedBy: cmd.Actor, GrantedAt: s.clock.Now()}
	if err := s.grants.Grant(ctx, grant); err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) {
			s.logger.Error("grant reader: storage unavailable", "actor", cmd.Actor, "user", user, "error", err)
		}
		return domain.PermissionGrant{}, fmt.Errorf("save grant: %w", err)
	}

	s.logger.Info("reader granted", "actor", cmd.Actor, "user", user)
	return grant, nil
}

// Readers lists everyone allowed to use the tracker. Only readers may ask.
func (s *TrackerService) Readers(ctx context.Context, actor domain.UserID) ([]domain.PermissionGrant, error) {
	if err := s.gate.Require(ctx, actor); err != nil {
		return nil, err
	}

	grants, err := s.grants.ListGrants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	return grants, nil
}

// SeedAdmins grants every configured admin so the first grant has an issuer.
func (s *TrackerService) SeedAdmins(ctx context.Context, admins []domain.UserID) error {
	for _, admin := range admins {
		admin = domain.UserID(strings.TrimSpace(string(admin)))
		if admin == "" {
			continue
		}

		ok, err := s.grants.HasGrant(ctx, admin)
		if err != nil {
			return fmt.Errorf("check admin grant: %w", err)
		}
		if ok {
			continue
		}

		if err := s.grants.Grant(ctx, domain.PermissionGrant{User: admin, GrantedBy: admin, GrantedAt: s.clock.Now()}); err != nil {
			return fmt.Errorf("seed admin grant: %w", err)
		}
	}

	return nil
}

func (s *TrackerService) Info() Info {
	return Info{
		Name:    "shelf",
		Summary: "Keeps track of the chapter you are on for every series you read.",
		Commands: []CommandHelp{
			{Usage: "guardar <title>,<chapter>[,<link>]", Description: "Save a series to your list"},
			{Usage: "listar", Description: "Browse every series you saved"},
			{Usage: "listar <title>", Description: "Find a series in your list and update its chapter"},
			{Usage: "lector <user>", Description: "Allow another user to use the tracker"},
			{Usage: "lector", Description: "Show who can use the tracker"},
			{Usage: "info", Description: "Show this help"},
		},
	}
}
