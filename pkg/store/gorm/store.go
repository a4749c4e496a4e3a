package gorm

import (
	"gorm.io/gorm"

	"github.com/wardenhq/warden/pkg/store"
)

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// Store bundles the GORM stores behind one transactional boundary.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Roles() store.RolesStore             { return &RolesStore{db: s.db} }
func (s *Store) Edges() store.EdgesStore             { return &EdgesStore{db: s.db} }
func (s *Store) Permissions() store.PermissionsStore { return &PermissionsStore{db: s.db} }
func (s *Store) UserRoles() store.UserRolesStore     { return &UserRolesStore{db: s.db} }
func (s *Store) Shares() store.SharesStore           { return &SharesStore{db: s.db} }
func (s *Store) Secrets() store.SecretsStore         { return &SecretsStore{db: s.db} }

// Transaction runs fn inside a database transaction. The Store passed to fn
// executes every statement on that transaction; any error rolls it back.
func (s *Store) Transaction(fn func(store.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
