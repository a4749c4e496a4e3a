package store

import (
	"errors"

	"github.com/wardenhq/warden/pkg/model"
)

// ErrSecretNotFound is returned when no secret exists at the given path.
var ErrSecretNotFound = errors.New("secret not found")

// SecretsStore abstracts encrypted secret storage. Values are encrypted by
// the vault before they reach this interface.
type SecretsStore interface {
	// Upsert writes a secret value, replacing any existing value at the path.
	Upsert(secret *model.Secret) error

	// Fetch retrieves a secret. Returns ErrSecretNotFound when absent.
	Fetch(tenant, path string) (*model.Secret, error)

	// Delete removes a secret. Missing rows report 0 rows.
	Delete(tenant, path string) (int64, error)

	// ListPaths returns the paths under prefix in alphabetic order.
	ListPaths(tenant, prefix string) ([]string, error)
}
