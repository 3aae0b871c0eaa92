package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int           `toml:"version"`
	NextID  int64         `toml:"next_id"`
	Items   []itemSchema  `toml:"items"`
	Grants  []grantSchema `toml:"grants"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported shelf schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type itemSchema struct {
	ID       string `toml:"id"`
	Title    string `toml:"title"`
	Owner    string `toml:"owner"`
	Progress int    `toml:"progress"`
	Link     string `toml:"link,omitempty"`
	SavedAt  string `toml:"saved_at"`
}

type grantSchema struct {
	User      string `toml:"user"`
	GrantedBy string `toml:"granted_by"`
	GrantedAt string `toml:"granted_at"`
}
