// Package vault provides encrypted, path-addressed secret storage on top of
// the warden store.
package vault
