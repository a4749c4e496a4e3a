// Package storetest provides an in-memory store.Store implementation for
// engine and handler tests.
package storetest
