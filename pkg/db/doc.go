// Package db establishes the PostgreSQL connection used by the warden
// stores.
package db
