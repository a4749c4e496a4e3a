package vault

import (
	"github.com/sirupsen/logrus"

	"github.com/wardenhq/warden/pkg/identity"
	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/store"
)

// Vault stores path-addressed secret values, encrypting them before they
// reach the store. The ciphertext is bound to its tenant and path, so a
// row moved between paths fails to decrypt.
type Vault struct {
	store  store.Store
	cipher Cipher
}

// ErrNotFound is re-exported so callers need not import the store package.
var ErrNotFound = store.ErrSecretNotFound

// New creates a vault over the store with the given cipher.
func New(st store.Store, cipher Cipher) *Vault {
	return &Vault{store: st, cipher: cipher}
}

// WriteOptions carries optional write parameters. CAS is accepted for
// compatibility with check-and-set clients but not enforced; writes always
// replace the current value.
type WriteOptions struct {
	CAS *int
}

func aad(tenant, path string) []byte {
	return []byte(tenant + ":" + path)
}

// Put writes a secret value at path, replacing any existing value.
func (v *Vault) Put(tenant, path string, value []byte, opts WriteOptions, by identity.Identity) error {
	if opts.CAS != nil {
		logrus.WithFields(logrus.Fields{"tenant": tenant, "path": path}).Debug("cas parameter accepted but not enforced")
	}

	sealed, err := v.cipher.Encrypt(aad(tenant, path), value)
	if err != nil {
		return err
	}

	return v.store.Secrets().Upsert(&model.Secret{
		Tenant:    tenant,
		Path:      path,
		Value:     sealed,
		CreatedBy: by.User,
		UpdatedBy: by.User,
	})
}

// Get retrieves and decrypts the secret at path. Returns ErrNotFound when
// no value exists.
func (v *Vault) Get(tenant, path string) ([]byte, error) {
	secret, err := v.store.Secrets().Fetch(tenant, path)
	if err != nil {
		return nil, err
	}
	return v.cipher.Decrypt(aad(tenant, path), secret.Value)
}

// Delete removes the secret at path. Deleting a missing secret reports
// 0 rows.
func (v *Vault) Delete(tenant, path string) (int64, error) {
	return v.store.Secrets().Delete(tenant, path)
}

// List returns the secret paths under prefix in alphabetic order. Values
// are never returned by listing.
func (v *Vault) List(tenant, prefix string) ([]string, error) {
	return v.store.Secrets().ListPaths(tenant, prefix)
}
