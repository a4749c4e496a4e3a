// Package identity carries the authenticated requestor identity through a
// request context. The façade's middleware produces it; engines consume it
// to stamp created_by / created_by_tenant columns and audit events.
package identity
