// Package model defines the database models for warden.
//
// This package contains GORM models that map to the warden PostgreSQL schema.
// Every row is scoped by tenant; tenant isolation is enforced by always
// filtering on the tenant column, never by connection-level state.
//
// # Core Models
//
//   - Role: named, tenant-scoped bundle of permissions
//   - RolePermission: permission string attached to a role
//   - RoleEdge: directed parent->child hierarchy edge between roles
//   - UserRole: direct role assignment to a user
//   - Share: cross-service resource sharing grant
//   - Secret: encrypted path-addressed secret value
//
// # Database Schema
//
// The schema lives in db/migrations and uses the following tables:
//
//   - roles: role records, unique on (tenant, name)
//   - role_permissions: permission strings, unique on (tenant, role_id, permission)
//   - role_edges: hierarchy edges, unique on (tenant, parent_role_id, child_role_id)
//   - user_roles: direct assignments, unique on (tenant, user_name, role_id)
//   - shares: sharing grants
//   - secrets: encrypted secrets keyed by (tenant, path)
//   - audit_events: audit trail of mutations and checks
package model
