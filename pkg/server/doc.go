// Package server provides the warden HTTP server and its routing.
package server
