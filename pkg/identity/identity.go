package identity

import (
	"context"
	"net"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity is the trusted requestor identity for an operation. Token
// validation happens at the façade boundary; by the time an Identity exists
// the tenant and user are authenticated facts.
type Identity struct {
	// Tenant is the isolation boundary the requestor belongs to.
	Tenant string

	// User is the requestor's user name within the tenant.
	User string

	// RemoteIP is the client address, recorded for auditing.
	RemoteIP net.IP
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
