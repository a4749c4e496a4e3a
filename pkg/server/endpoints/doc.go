// Package endpoints implements the HTTP handlers of the warden API.
package endpoints
