// Package permspec implements the permission specification grammar.
//
// A permission specification is a colon-separated string such as
//
//	vault:acme:read:sys42:/finance/reports
//
// A field may be the wildcard `*` (matches any value) or a comma-separated
// alternation list. By convention the last field is a hierarchical
// (POSIX-like) path and the second-to-last field is the system identifier
// that path belongs to. A specification whose path field is /a grants every
// path under /a, so it also covers /a/b but never /ab.
//
// This package is pure string logic; pattern searches against the store use
// SQL LIKE semantics and go through EscapeLike.
package permspec
