package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	mongorepo "github.com/bnema/shelf/internal/adapters/repo/mongo"
	sqliterepo "github.com/bnema/shelf/internal/adapters/repo/sqlite"
	tomlrepo "github.com/bnema/shelf/internal/adapters/repo/toml"
	filestore "github.com/bnema/shelf/internal/adapters/secrets/file"
	"github.com/bnema/shelf/internal/application"
	"github.com/bnema/shelf/internal/config"
	"github.com/bnema/shelf/internal/domain"
	"github.com/bnema/shelf/internal/ports"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errNoIdentity = errors.New("no user identity: pass --user or set identity.user")

type app struct {
	cfg         config.Config
	viper       *viper.Viper
	logger      *slog.Logger
	secretStore ports.SecretStore
	clock       ports.Clock
	user        string
}

type trackerStore interface {
	ports.ItemRepository
	ports.GrantRepository
}

// tracker is the per command object graph. Stores are opened lazily so that
// commands like version never touch the database.
type tracker struct {
	store       trackerStore
	registry    *application.SessionRegistry
	capture     *application.CaptureFlow
	coordinator *application.Coordinator
	service     *application.TrackerService
	close       func() error
}

func wireApp() (*app, error) {
	cfg, v, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	return &app{
		cfg:         cfg,
		viper:       v,
		logger:      newLogger(os.Stderr, cfg.Log),
		secretStore: filestore.NewStore(filepath.Join(homeDir, ".shelf", "secrets")),
		clock:       ports.SystemClock{},
	}, nil
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (a *app) actor() (domain.UserID, error) {
	for _, candidate := range []string{a.user, a.cfg.Identity.User, os.Getenv("USER")} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return domain.UserID(trimmed), nil
		}
	}
	return "", errNoIdentity
}

// start opens the configured store and builds the session machinery on top
// of it. Callers must invoke close.
func (a *app) start(cmd *cobra.Command, handles ports.HandleSource) (*tracker, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		store   trackerStore
		closeFn func() error
		err     error
	)
	if a.cfg.Storage.Driver == config.DriverMongo {
		target := fmt.Sprintf("MongoDB (%s)", a.cfg.Storage.Mongo.Database)
		store, closeFn, err = openWithSpinner(ctx, cmd.ErrOrStderr(), target, a.openStore)
	} else {
		store, closeFn, err = a.openStore(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Storage.Driver, err)
	}

	if handles == nil {
		handles = application.UUIDHandles{}
	}

	sessions := a.cfg.Sessions
	registry := application.NewSessionRegistry(a.clock, a.logger)
	capture := application.NewCaptureFlow(registry, store, handles, a.clock,
		application.WithCaptureTTL(sessions.CaptureTTL),
		application.WithCaptureLogger(a.logger),
	)
	gate := application.NewGrantGate(store)
	t := &tracker{
		store:    store,
		registry: registry,
		capture:  capture,
		coordinator: application.NewCoordinator(store, registry, capture, gate, handles, application.CoordinatorConfig{
			PageSize: sessions.PageSize,
			PageTTL:  sessions.PageTTL,
		}, a.logger),
		service: application.NewTrackerService(store, store, gate, a.clock, a.logger),
		close:   closeFn,
	}

	admins := make([]domain.UserID, 0, len(a.cfg.Auth.Admins))
	for _, admin := range a.cfg.Auth.Admins {
		admins = append(admins, domain.UserID(admin))
	}
	if err := t.service.SeedAdmins(ctx, admins); err != nil {
		_ = t.close()
		return nil, err
	}

	return t, nil
}

func (a *app) openStore(ctx context.Context) (trackerStore, func() error, error) {
	switch a.cfg.Storage.Driver {
	case config.DriverSQLite:
		repo, err := sqliterepo.NewRepository(a.viper)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	case config.DriverMongo:
		uri, err := a.mongoURI(ctx)
		if err != nil {
			return nil, nil, err
		}
		repo, err := mongorepo.NewRepository(ctx, a.viper, uri)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() error { return repo.Close(context.Background()) }, nil
	default:
		repo, err := tomlrepo.NewRepository(a.viper)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() error { return nil }, nil
	}
}

func (a *app) mongoURI(ctx context.Context) (string, error) {
	mongoCfg := a.cfg.Storage.Mongo
	if mongoCfg.URI != "" {
		return mongoCfg.URI, nil
	}
	if mongoCfg.URISecret == "" {
		return "", errors.New("mongo uri is not configured: set storage.mongo.uri or storage.mongo.uri_secret")
	}

	uri, err := a.secretStore.Get(ctx, mongoCfg.URISecret)
	if err != nil {
		return "", fmt.Errorf("resolve mongo uri: %w", err)
	}
	return uri, nil
}
