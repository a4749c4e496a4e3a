// Package authz implements the role/permission/share resolution engines.
//
// The engines hold no durable state; every operation is one bounded unit of
// work against the store, and multi-statement mutations run inside a single
// store transaction. Engines validate inputs (defense in depth: blank
// checks and name syntax), compute role closures with bounded traversal,
// interpret permission specifications, and resolve sharing grants including
// the distinguished public grantees.
//
// Errors fall into four kinds (validation, not-found, connectivity,
// storage); see errors.go. The façade maps them to transport status codes.
package authz
