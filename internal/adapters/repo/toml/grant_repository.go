package toml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/shelf/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

// Grant records a grant once; granting the same user again is a no-op.
func (r *Repository) Grant(ctx context.Context, grant domain.PermissionGrant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	for _, entry := range file.Grants {
		if entry.User == string(grant.User) {
			return nil
		}
	}
	file.Grants = append(file.Grants, grantSchema{
		User:      string(grant.User),
		GrantedBy: string(grant.GrantedBy),
		GrantedAt: formatTime(grant.GrantedAt),
	})

	return writeTOMLFile(r.path, file)
}

func (r *Repository) HasGrant(ctx context.Context, user domain.UserID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return false, err
	}

	for _, entry := range file.Grants {
		if entry.User == string(user) {
			return true, nil
		}
	}

	return false, nil
}

func (r *Repository) ListGrants(ctx context.Context) ([]domain.PermissionGrant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	grants := make([]domain.PermissionGrant, 0, len(file.Grants))
	for _, entry := range file.Grants {
		grants = append(grants, domain.PermissionGrant{
			User:      domain.UserID(entry.User),
			GrantedBy: domain.UserID(entry.GrantedBy),
			GrantedAt: parseTime(entry.GrantedAt),
		})
	}

	return grants, nil
}

func writeTOMLFile(path string, file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(path), shelfDirMode); err != nil {
		return fmt.Errorf("%w: create shelf directory: %w", domain.ErrStorageUnavailable, err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode shelf file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("%w: create temp shelf file: %w", domain.ErrStorageUnavailable, err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("%w: write temp shelf file: %w", domain.ErrStorageUnavailable, err)
	}

	if err := tempFile.Chmod(shelfFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("%w: chmod temp shelf file: %w", domain.ErrStorageUnavailable, err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("%w: close temp shelf file: %w", domain.ErrStorageUnavailable, err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("%w: replace shelf file: %w", domain.ErrStorageUnavailable, err)
	}

	cleanup = false

	if err := os.Chmod(path, shelfFileMode); err != nil {
		return fmt.Errorf("%w: chmod shelf file: %w", domain.ErrStorageUnavailable, err)
	}

	return nil
}
