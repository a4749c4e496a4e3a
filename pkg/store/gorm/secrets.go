package gorm

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/store"
)

// Ensure SecretsStore implements store.SecretsStore
var _ store.SecretsStore = (*SecretsStore)(nil)

// SecretsStore implements store.SecretsStore using GORM
type SecretsStore struct {
	db *gorm.DB
}

// NewSecretsStore creates a new SecretsStore
func NewSecretsStore(db *gorm.DB) *SecretsStore {
	return &SecretsStore{db: db}
}

// Upsert writes a secret value, replacing any existing value at the path
func (s *SecretsStore) Upsert(secret *model.Secret) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant"}, {Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(secret).Error
}

// Fetch retrieves a secret by (tenant, path)
func (s *SecretsStore) Fetch(tenant, path string) (*model.Secret, error) {
	var secret model.Secret
	err := s.db.Where("tenant = ? AND path = ?", tenant, path).First(&secret).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrSecretNotFound
	}
	if err != nil {
		return nil, err
	}
	return &secret, nil
}

// Delete removes a secret
func (s *SecretsStore) Delete(tenant, path string) (int64, error) {
	tx := s.db.Exec(`DELETE FROM secrets WHERE tenant = ? AND path = ?`, tenant, path)
	return tx.RowsAffected, tx.Error
}

// ListPaths returns the secret paths under prefix in alphabetic order
func (s *SecretsStore) ListPaths(tenant, prefix string) ([]string, error) {
	type pathRow struct {
		Path string `gorm:"column:path"`
	}
	var rows []pathRow
	err := s.db.Raw(`
		SELECT path FROM secrets WHERE tenant = ? AND path LIKE ? ORDER BY path
	`, tenant, likePrefix(prefix)).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(rows))
	for _, row := range rows {
		paths = append(paths, row.Path)
	}
	return paths, nil
}

// likePrefix escapes LIKE metacharacters in prefix and appends the
// trailing wildcard.
func likePrefix(prefix string) string {
	escaped := make([]byte, 0, len(prefix)+1)
	for i := 0; i < len(prefix); i++ {
		switch prefix[i] {
		case '%', '_', '\\':
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, prefix[i])
	}
	return string(escaped) + "%"
}
