package identity

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	id := &Identity{Tenant: "acme", User: "alice"}
	ctx := Set(context.Background(), id)

	got, ok := Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, "acme", got.Tenant)
	assert.Equal(t, "alice", got.User)
}

func TestGetMissing(t *testing.T) {
	_, ok := Get(context.Background())
	assert.False(t, ok)
}

func TestWithRemoteIP(t *testing.T) {
	id := (&Identity{Tenant: "acme", User: "alice"}).WithRemoteIP(net.ParseIP("10.0.0.1"))
	assert.Equal(t, "10.0.0.1", id.RemoteIP.String())
}
