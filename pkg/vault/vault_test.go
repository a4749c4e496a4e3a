package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/pkg/identity"
	"github.com/wardenhq/warden/pkg/store/storetest"
)

func newTestVault(t *testing.T) (*Vault, *storetest.Store) {
	t.Helper()
	c, err := NewCipher(testKey())
	require.NoError(t, err)
	st := storetest.New()
	return New(st, c), st
}

var writer = identity.Identity{Tenant: "acme", User: "admin"}

func TestVaultPutGet(t *testing.T) {
	v, st := newTestVault(t)

	err := v.Put("acme", "/db/password", []byte("hunter2"), WriteOptions{}, writer)
	require.NoError(t, err)

	stored, err := st.Secrets().Fetch("acme", "/db/password")
	require.NoError(t, err)
	assert.NotEqual(t, []byte("hunter2"), stored.Value, "value is encrypted at rest")

	value, err := v.Get("acme", "/db/password")
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), value)
}

func TestVaultPutReplaces(t *testing.T) {
	v, _ := newTestVault(t)

	require.NoError(t, v.Put("acme", "/db/password", []byte("old"), WriteOptions{}, writer))
	require.NoError(t, v.Put("acme", "/db/password", []byte("new"), WriteOptions{}, writer))

	value, err := v.Get("acme", "/db/password")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), value)
}

func TestVaultCASIgnored(t *testing.T) {
	v, _ := newTestVault(t)

	cas := 7
	err := v.Put("acme", "/db/password", []byte("value"), WriteOptions{CAS: &cas}, writer)
	require.NoError(t, err, "cas is accepted but never enforced")

	value, err := v.Get("acme", "/db/password")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)
}

func TestVaultGetMissing(t *testing.T) {
	v, _ := newTestVault(t)

	_, err := v.Get("acme", "/ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVaultTenantIsolation(t *testing.T) {
	v, _ := newTestVault(t)

	require.NoError(t, v.Put("acme", "/db/password", []byte("acme-secret"), WriteOptions{}, writer))

	_, err := v.Get("globex", "/db/password")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVaultDelete(t *testing.T) {
	v, _ := newTestVault(t)

	require.NoError(t, v.Put("acme", "/db/password", []byte("value"), WriteOptions{}, writer))

	rows, err := v.Delete("acme", "/db/password")
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = v.Delete("acme", "/db/password")
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)
}

func TestVaultList(t *testing.T) {
	v, _ := newTestVault(t)

	for _, path := range []string{"/db/password", "/db/user", "/api/token"} {
		require.NoError(t, v.Put("acme", path, []byte("v"), WriteOptions{}, writer))
	}

	paths, err := v.List("acme", "/db")
	require.NoError(t, err)
	assert.Equal(t, []string{"/db/password", "/db/user"}, paths)

	paths, err = v.List("acme", "/")
	require.NoError(t, err)
	assert.Len(t, paths, 3)
}
