// Package store defines the storage interfaces consumed by the authz
// engines and the vault.
//
// Implementations live in pkg/store/gorm. The interfaces return model types
// directly; change-count return values report rows actually written so that
// idempotent no-ops are observable (0 rows) without being errors. Lookups
// for rows that may legitimately be absent return (nil, nil) rather than an
// error; callers that require existence wrap the nil into a not-found error.
package store
