package store

// Store bundles the individual stores behind a single transactional
// boundary. Engines hold a Store and use Transaction for multi-statement
// mutations; inside the callback the nested Store runs every statement on
// the same transaction, and any returned error rolls the whole unit back.
type Store interface {
	Roles() RolesStore
	Edges() EdgesStore
	Permissions() PermissionsStore
	UserRoles() UserRolesStore
	Shares() SharesStore
	Secrets() SecretsStore

	Transaction(fn func(Store) error) error
}
