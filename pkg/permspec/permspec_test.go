package permspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldsAccessors(t *testing.T) {
	spec := "svc:acme:read:db1:/data/logs"

	assert.Equal(t, "svc", Schema(spec))

	system, ok := SystemID(spec)
	assert.True(t, ok)
	assert.Equal(t, "db1", system)

	path, ok := Path(spec)
	assert.True(t, ok)
	assert.Equal(t, "/data/logs", path)

	_, ok = SystemID("svc:acme")
	assert.False(t, ok, "too few fields for a system id")
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		grant    string
		required string
		want     bool
	}{
		{"exact", "svc:acme:read:db1:/data", "svc:acme:read:db1:/data", true},
		{"field mismatch", "svc:acme:read:db1:/data", "svc:acme:write:db1:/data", false},
		{"wildcard field", "svc:acme:*:db1:/data", "svc:acme:write:db1:/data", true},
		{"wildcard tenant", "svc:*:read:db1:/data", "svc:acme:read:db1:/data", true},
		{"alternation hit", "svc:acme:read,write:db1:/data", "svc:acme:write:db1:/data", true},
		{"alternation miss", "svc:acme:read,write:db1:/data", "svc:acme:delete:db1:/data", false},
		{"alternation with wildcard member", "svc:acme:read,*:db1:/data", "svc:acme:delete:db1:/data", true},
		{"path child", "svc:acme:read:db1:/data", "svc:acme:read:db1:/data/sub", true},
		{"path grandchild", "svc:acme:read:db1:/data", "svc:acme:read:db1:/data/sub/deep", true},
		{"path sibling prefix", "svc:acme:read:db1:/data", "svc:acme:read:db1:/database", false},
		{"path parent not covered", "svc:acme:read:db1:/data/sub", "svc:acme:read:db1:/data", false},
		{"path trailing slash grant", "svc:acme:read:db1:/data/", "svc:acme:read:db1:/data/sub", true},
		{"path wildcard", "svc:acme:read:db1:*", "svc:acme:read:db1:/anything", true},
		{"field count mismatch", "svc:acme:read:/data", "svc:acme:read:db1:/data", false},
		{"root path grant", "svc:acme:read:db1:/", "svc:acme:read:db1:/data", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.grant, tt.required))
		})
	}
}

func TestRewriteSystemPath(t *testing.T) {
	spec, ok := RewriteSystemPath("svc:acme:read:db1:/old/data", "db1", "db9", "/old", "/new")
	assert.True(t, ok)
	assert.Equal(t, "svc:acme:read:db9:/new/data", spec)

	// Path prefix only; system id unchanged.
	spec, ok = RewriteSystemPath("svc:acme:read:db1:/old/data", "db1", "db1", "/old", "/archive")
	assert.True(t, ok)
	assert.Equal(t, "svc:acme:read:db1:/archive/data", spec)

	_, ok = RewriteSystemPath("svc:acme:read:db2:/old/data", "db1", "db9", "/old", "/new")
	assert.False(t, ok, "system id mismatch")

	_, ok = RewriteSystemPath("svc:acme:read:db1:/other/data", "db1", "db9", "/old", "/new")
	assert.False(t, ok, "path prefix mismatch")

	_, ok = RewriteSystemPath("svc:acme", "db1", "db9", "/old", "/new")
	assert.False(t, ok, "too few fields")
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "plain", EscapeLike("plain"))
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c\\d`, EscapeLike(`c\d`))
}

func TestHasLeadingWildcard(t *testing.T) {
	assert.True(t, HasLeadingWildcard("%svc"))
	assert.True(t, HasLeadingWildcard("_vc"))
	assert.False(t, HasLeadingWildcard("svc:%"))
	assert.False(t, HasLeadingWildcard(`\%literal`))
}
