package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/shelf/internal/domain"
	"github.com/bnema/shelf/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	PathKey         = "storage.toml.path"
	shelfFileMode   = 0o600
	shelfDirMode    = 0o700
	shelfConfigDir  = ".shelf"
	shelfDataFile   = "items.toml"
	tempFilePattern = ".items-*.toml.tmp"
)

// Repository keeps items and grants in a single TOML file. Every write
// rewrites the file atomically.
type Repository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var (
	_ ports.ItemRepository  = (*Repository)(nil)
	_ ports.GrantRepository = (*Repository)(nil)
)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(PathKey)
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, shelfConfigDir, shelfDataFile)
	}

	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, mu: lockForPath(path)}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Insert(ctx context.Context, item domain.TrackedItem) (domain.ItemID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return "", err
	}

	file.NextID++
	item.ID = domain.ItemID(strconv.FormatInt(file.NextID, 10))
	file.Items = append(file.Items, toItemSchema(item))

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := writeTOMLFile(r.path, file); err != nil {
		return "", err
	}

	return item.ID, nil
}

func (r *Repository) FindByOwner(ctx context.Context, owner domain.UserID, titleFilter string) ([]domain.TrackedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	items := make([]domain.TrackedItem, 0, len(file.Items))
	for _, entry := range file.Items {
		if entry.Owner != string(owner) {
			continue
		}
		item := fromItemSchema(entry)
		if titleFilter != "" && !item.TitleContains(titleFilter) {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func (r *Repository) FindOneByTitleExact(ctx context.Context, owner domain.UserID, title string) (domain.TrackedItem, error) {
	if err := ctx.Err(); err != nil {
		return domain.TrackedItem{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.TrackedItem{}, err
	}

	var matches []domain.TrackedItem
	for _, entry := range file.Items {
		item := fromItemSchema(entry)
		if entry.Owner == string(owner) && item.TitleMatches(title) {
			matches = append(matches, item)
		}
	}

	item, ok := domain.MostRecent(matches)
	if !ok {
		return domain.TrackedItem{}, domain.ErrItemNotFound
	}

	return item, nil
}

func (r *Repository) GetByID(ctx context.Context, id domain.ItemID) (domain.TrackedItem, error) {
	if err := ctx.Err(); err != nil {
		return domain.TrackedItem{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.TrackedItem{}, err
	}

	for _, entry := range file.Items {
		if entry.ID == string(id) {
			return fromItemSchema(entry), nil
		}
	}

	return domain.TrackedItem{}, domain.ErrItemNotFound
}

func (r *Repository) UpdateProgress(ctx context.Context, id domain.ItemID, progress int, savedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	updated := false
	for i := range file.Items {
		if file.Items[i].ID == string(id) {
			file.Items[i].Progress = progress
			file.Items[i].SavedAt = formatTime(savedAt)
			updated = true
			break
		}
	}
	if !updated {
		return domain.ErrItemNotFound
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return writeTOMLFile(r.path, file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("%w: read shelf file: %w", domain.ErrStorageUnavailable, err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("%w: decode shelf file: %w", domain.ErrStorageUnavailable, err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	file.applyDefaults()

	return file, nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve shelf path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toItemSchema(item domain.TrackedItem) itemSchema {
	return itemSchema{
		ID:       string(item.ID),
		Title:    item.Title,
		Owner:    string(item.Owner),
		Progress: item.Progress,
		Link:     item.Link,
		SavedAt:  formatTime(item.SavedAt),
	}
}

func fromItemSchema(entry itemSchema) domain.TrackedItem {
	return domain.TrackedItem{
		ID:       domain.ItemID(entry.ID),
		Title:    entry.Title,
		Owner:    domain.UserID(entry.Owner),
		Progress: entry.Progress,
		Link:     entry.Link,
		SavedAt:  parseTime(entry.SavedAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed.UTC()
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
