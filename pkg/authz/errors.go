package authz

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
)

// Kind classifies an engine error. The façade maps kinds to transport
// status codes; the engines never perform that mapping themselves.
type Kind int

const (
	// KindValidation marks a blank/malformed input or a disallowed pattern.
	KindValidation Kind = iota + 1
	// KindNotFound marks a missing role or record where existence is required.
	KindNotFound
	// KindConnectivity marks an unreachable store; recoverable by retry.
	KindConnectivity
	// KindStorage marks a statement failure other than a benign duplicate.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindNotFound:
		return "not found"
	case KindConnectivity:
		return "store unreachable"
	case KindStorage:
		return "storage failure"
	default:
		return "unknown error"
	}
}

// Error is the engine error type. Msg carries caller-safe detail; Err holds
// the underlying cause and is reachable via Unwrap for logging, but its
// text never appears in Error() for storage and connectivity kinds.
type Error struct {
	Kind   Kind
	Op     string
	Tenant string
	Entity string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else {
		b.WriteString(e.Kind.String())
	}
	if e.Entity != "" {
		fmt.Fprintf(&b, " (entity=%s)", e.Entity)
	}
	if e.Tenant != "" {
		fmt.Fprintf(&b, " (tenant=%s)", e.Tenant)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or 0 for non-engine errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConnectivity reports whether err is a connectivity error.
func IsConnectivity(err error) bool { return KindOf(err) == KindConnectivity }

// IsStorage reports whether err is a storage error.
func IsStorage(err error) bool { return KindOf(err) == KindStorage }

func validationf(op, tenant, format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Op: op, Tenant: tenant, Msg: fmt.Sprintf(format, args...)}
}

func notFoundf(op, tenant, entity string) error {
	return &Error{Kind: KindNotFound, Op: op, Tenant: tenant, Entity: entity}
}

// storeErr wraps a store failure, classifying connectivity vs storage.
func storeErr(op, tenant, entity string, err error) error {
	return &Error{Kind: classify(err), Op: op, Tenant: tenant, Entity: entity, Err: err}
}

// classify decides whether a store failure is a recoverable connectivity
// problem or a storage error. Timeouts and refused/reset connections are
// connectivity; everything else is storage.
func classify(err error) Kind {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return KindConnectivity
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnectivity
	}

	return KindStorage
}
