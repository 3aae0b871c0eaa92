package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/shelf/internal/domain"
	"github.com/bnema/shelf/internal/ports"
	"github.com/spf13/viper"
)

const (
	PathKey = "storage.sqlite.path"
	// Fixed width keeps lexical order equal to time order.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

type Repository struct {
	db *sql.DB
}

var (
	_ ports.ItemRepository  = (*Repository)(nil)
	_ ports.GrantRepository = (*Repository)(nil)
)

// NewRepository migrates and opens the database named by storage.sqlite.path.
func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(PathKey)
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: create sqlite directory: %w", domain.ErrStorageUnavailable, err)
	}

	if err := RunMigrations(path); err != nil {
		return nil, err
	}

	db, err := Open(path)
	if err != nil {
		return nil, err
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Insert(ctx context.Context, item domain.TrackedItem) (domain.ItemID, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO items(title, owner, progress, link, saved_at) VALUES (?, ?, ?, ?, ?);
	`, item.Title, string(item.Owner), item.Progress, nullString(item.Link), formatTime(item.SavedAt))
	if err != nil {
		return "", classify("insert item", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", classify("read item id", err)
	}

	return domain.ItemID(strconv.FormatInt(id, 10)), nil
}

func (r *Repository) FindByOwner(ctx context.Context, owner domain.UserID, titleFilter string) ([]domain.TrackedItem, error) {
	query := `SELECT id, title, owner, progress, link, saved_at FROM items WHERE owner = ?`
	args := []any{string(owner)}
	if filter := strings.TrimSpace(titleFilter); filter != "" {
		query += ` AND instr(lower(title), lower(?)) > 0`
		args = append(args, filter)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("find items by owner", err)
	}
	defer rows.Close()

	var out []domain.TrackedItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, classify("scan item", err)
		}
		out = append(out, item)
	}

	return out, classify("iterate items", rows.Err())
}

func (r *Repository) FindOneByTitleExact(ctx context.Context, owner domain.UserID, title string) (domain.TrackedItem, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, title, owner, progress, link, saved_at FROM items
	WHERE owner = ? AND lower(trim(title)) = lower(?)
	ORDER BY saved_at DESC, id DESC
	LIMIT 1;
	`, string(owner), strings.TrimSpace(title))

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TrackedItem{}, domain.ErrItemNotFound
		}
		return domain.TrackedItem{}, classify("find item by title", err)
	}

	return item, nil
}

func (r *Repository) GetByID(ctx context.Context, id domain.ItemID) (domain.TrackedItem, error) {
	rowID, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return domain.TrackedItem{}, domain.ErrItemNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT id, title, owner, progress, link, saved_at FROM items WHERE id = ?`, rowID)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TrackedItem{}, domain.ErrItemNotFound
		}
		return domain.TrackedItem{}, classify("get item", err)
	}

	return item, nil
}

func (r *Repository) UpdateProgress(ctx context.Context, id domain.ItemID, progress int, savedAt time.Time) error {
	rowID, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return domain.ErrItemNotFound
	}

	res, err := r.db.ExecContext(ctx, `UPDATE items SET progress = ?, saved_at = ? WHERE id = ?`, progress, formatTime(savedAt), rowID)
	if err != nil {
		return classify("update progress", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return classify("update progress", err)
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

func (r *Repository) Grant(ctx context.Context, grant domain.PermissionGrant) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO grants(user_id, granted_by, granted_at) VALUES (?, ?, ?)
	ON CONFLICT(user_id) DO NOTHING;
	`, string(grant.User), string(grant.GrantedBy), formatTime(grant.GrantedAt))
	return classify("insert grant", err)
}

func (r *Repository) HasGrant(ctx context.Context, user domain.UserID) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM grants WHERE user_id = ?`, string(user)).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, classify("check grant", err)
	}

	return true, nil
}

func (r *Repository) ListGrants(ctx context.Context) ([]domain.PermissionGrant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, granted_by, granted_at FROM grants ORDER BY rowid`)
	if err != nil {
		return nil, classify("list grants", err)
	}
	defer rows.Close()

	var out []domain.PermissionGrant
	for rows.Next() {
		var user, grantedBy, grantedAt string
		if err := rows.Scan(&user, &grantedBy, &grantedAt); err != nil {
			return nil, classify("scan grant", err)
		}
		out = append(out, domain.PermissionGrant{
			User:      domain.UserID(user),
			GrantedBy: domain.UserID(grantedBy),
			GrantedAt: parseTime(grantedAt),
		})
	}

	return out, classify("iterate grants", rows.Err())
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (domain.TrackedItem, error) {
	var (
		id       int64
		title    string
		owner    string
		progress int
		link     sql.NullString
		savedAt  string
	)
	if err := row.Scan(&id, &title, &owner, &progress, &link, &savedAt); err != nil {
		return domain.TrackedItem{}, err
	}

	return domain.TrackedItem{
		ID:       domain.ItemID(strconv.FormatInt(id, 10)),
		Title:    title,
		Owner:    domain.UserID(owner),
		Progress: progress,
		Link:     link.String,
		SavedAt:  parseTime(savedAt),
	}, nil
}

func nullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	parsed, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}
