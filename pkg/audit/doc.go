// Package audit emits structured audit events for authorization mutations
// and privilege checks.
//
// Events are written in RFC5424 syslog format to a writer (stdout by
// default) and optionally persisted to the audit_events table. The recorder
// is constructed once at process start and passed to the engines; auditing
// failures are logged and never fail the audited operation.
package audit
