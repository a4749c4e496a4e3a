package permspec

import "strings"

const (
	// FieldSeparator separates the fields of a permission specification.
	FieldSeparator = ":"

	// Wildcard matches any single field's entire value.
	Wildcard = "*"

	alternationSeparator = ","
)

// Fields splits a permission specification into its colon-separated fields.
func Fields(spec string) []string {
	return strings.Split(spec, FieldSeparator)
}

// Schema returns the first field of the specification.
func Schema(spec string) string {
	return Fields(spec)[0]
}

// SystemID returns the system identifier field (second-to-last). The second
// return value is false when the specification has too few fields to carry
// a system id and path.
func SystemID(spec string) (string, bool) {
	fields := Fields(spec)
	if len(fields) < 3 {
		return "", false
	}
	return fields[len(fields)-2], true
}

// Path returns the extended path attribute (last field). The second return
// value is false when the specification has too few fields.
func Path(spec string) (string, bool) {
	fields := Fields(spec)
	if len(fields) < 3 {
		return "", false
	}
	return fields[len(fields)-1], true
}

// Matches reports whether a granted specification covers a required
// permission. Both strings must have the same number of fields. Every field
// of the grant must match the corresponding required field: `*` matches
// anything, an alternation list matches when any member does, and the final
// path field matches hierarchically (a grant on /a covers /a and /a/b).
func Matches(grant, required string) bool {
	grantFields := Fields(grant)
	requiredFields := Fields(required)
	if len(grantFields) != len(requiredFields) {
		return false
	}

	last := len(grantFields) - 1
	for i, grantField := range grantFields {
		if i == last {
			if !pathMatches(grantField, requiredFields[i]) {
				return false
			}
			continue
		}
		if !fieldMatches(grantField, requiredFields[i]) {
			return false
		}
	}
	return true
}

func fieldMatches(grantField, requiredField string) bool {
	if grantField == Wildcard {
		return true
	}
	for _, alt := range strings.Split(grantField, alternationSeparator) {
		if alt == Wildcard || alt == requiredField {
			return true
		}
	}
	return false
}

func pathMatches(grantPath, requiredPath string) bool {
	if grantPath == Wildcard || grantPath == requiredPath {
		return true
	}
	return strings.HasPrefix(requiredPath, strings.TrimSuffix(grantPath, "/")+"/")
}

// RewriteSystemPath replaces the system-id field with newSystemID and the
// leading oldPrefix of the path field with newPrefix, keeping the path
// suffix unchanged. The second return value is false when the specification
// does not carry oldSystemID or its path does not start with oldPrefix.
func RewriteSystemPath(spec, oldSystemID, newSystemID, oldPrefix, newPrefix string) (string, bool) {
	fields := Fields(spec)
	if len(fields) < 3 {
		return "", false
	}

	systemIdx, pathIdx := len(fields)-2, len(fields)-1
	if fields[systemIdx] != oldSystemID || !strings.HasPrefix(fields[pathIdx], oldPrefix) {
		return "", false
	}

	fields[systemIdx] = newSystemID
	fields[pathIdx] = newPrefix + strings.TrimPrefix(fields[pathIdx], oldPrefix)
	return strings.Join(fields, FieldSeparator), true
}

// EscapeLike escapes the SQL LIKE metacharacters `%`, `_` and `\` so that s
// matches only itself inside a LIKE pattern.
func EscapeLike(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// HasLeadingWildcard reports whether a LIKE search pattern begins with an
// unescaped metacharacter. Such patterns force unbounded scans and are
// rejected by user lookup operations.
func HasLeadingWildcard(pattern string) bool {
	return strings.HasPrefix(pattern, "%") || strings.HasPrefix(pattern, "_")
}
