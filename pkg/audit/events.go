package audit

import "fmt"

// RoleEvent records a role lifecycle mutation
type RoleEvent struct {
	Action   string // "create", "delete", "rename", "owner", "description"
	Tenant   string
	RoleName string
	By       string
	ByTenant string
}

func (e RoleEvent) MessageID() string {
	return "role-" + e.Action
}

func (e RoleEvent) Message() string {
	return fmt.Sprintf("%s:%s performed %s on role %s in tenant %s", e.ByTenant, e.By, e.Action, e.RoleName, e.Tenant)
}

func (e RoleEvent) Severity() Severity {
	return SeverityInfo
}

func (e RoleEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RoleEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {"tenant": e.Tenant, "role": e.RoleName},
		SDIDAction:  {"operation": e.Action},
		SDIDAuth:    {"user": e.By, "tenant": e.ByTenant},
	}
}

// EdgeEvent records a role hierarchy edge mutation
type EdgeEvent struct {
	Action     string // "assign", "remove"
	Tenant     string
	ParentRole string
	ChildRole  string
	By         string
	ByTenant   string
}

func (e EdgeEvent) MessageID() string {
	return "edge-" + e.Action
}

func (e EdgeEvent) Message() string {
	return fmt.Sprintf("%s:%s performed %s of child role %s under %s in tenant %s",
		e.ByTenant, e.By, e.Action, e.ChildRole, e.ParentRole, e.Tenant)
}

func (e EdgeEvent) Severity() Severity {
	return SeverityInfo
}

func (e EdgeEvent) Facility() int {
	return FacilityAuthPriv
}

func (e EdgeEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {"tenant": e.Tenant, "parent": e.ParentRole, "child": e.ChildRole},
		SDIDAction:  {"operation": e.Action},
		SDIDAuth:    {"user": e.By, "tenant": e.ByTenant},
	}
}

// PermissionEvent records a permission grant mutation
type PermissionEvent struct {
	Action     string // "assign", "remove", "rewrite"
	Tenant     string
	RoleName   string
	Permission string
	By         string
}

func (e PermissionEvent) MessageID() string {
	return "permission-" + e.Action
}

func (e PermissionEvent) Message() string {
	return fmt.Sprintf("%s performed %s of permission %q on role %s in tenant %s",
		e.By, e.Action, e.Permission, e.RoleName, e.Tenant)
}

func (e PermissionEvent) Severity() Severity {
	return SeverityInfo
}

func (e PermissionEvent) Facility() int {
	return FacilityAuthPriv
}

func (e PermissionEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {"tenant": e.Tenant, "role": e.RoleName, "permission": e.Permission},
		SDIDAction:  {"operation": e.Action},
		SDIDAuth:    {"user": e.By},
	}
}

// AssignmentEvent records a user-role assignment mutation
type AssignmentEvent struct {
	Action   string // "assign", "remove"
	Tenant   string
	UserName string
	RoleName string
	By       string
	ByTenant string
}

func (e AssignmentEvent) MessageID() string {
	return "user-role-" + e.Action
}

func (e AssignmentEvent) Message() string {
	return fmt.Sprintf("%s:%s performed %s of role %s for user %s in tenant %s",
		e.ByTenant, e.By, e.Action, e.RoleName, e.UserName, e.Tenant)
}

func (e AssignmentEvent) Severity() Severity {
	return SeverityInfo
}

func (e AssignmentEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AssignmentEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {"tenant": e.Tenant, "user": e.UserName, "role": e.RoleName},
		SDIDAction:  {"operation": e.Action},
		SDIDAuth:    {"user": e.By, "tenant": e.ByTenant},
	}
}

// ShareEvent records a sharing grant mutation
type ShareEvent struct {
	Action       string // "create", "delete"
	Tenant       string
	ShareID      string
	Grantee      string
	ResourceType string
	Privilege    string
	By           string
	ByTenant     string
}

func (e ShareEvent) MessageID() string {
	return "share-" + e.Action
}

func (e ShareEvent) Message() string {
	return fmt.Sprintf("%s:%s performed %s of share %s granting %s %s on %s in tenant %s",
		e.ByTenant, e.By, e.Action, e.ShareID, e.Grantee, e.Privilege, e.ResourceType, e.Tenant)
}

func (e ShareEvent) Severity() Severity {
	return SeverityInfo
}

func (e ShareEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ShareEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {"tenant": e.Tenant, "share": e.ShareID, "resource_type": e.ResourceType},
		SDIDAction:  {"operation": e.Action, "privilege": e.Privilege, "grantee": e.Grantee},
		SDIDAuth:    {"user": e.By, "tenant": e.ByTenant},
	}
}

// CheckEvent records a privilege check and its outcome
type CheckEvent struct {
	Tenant       string
	Grantee      string
	ResourceType string
	Privilege    string
	Granted      bool
}

func (e CheckEvent) MessageID() string {
	return "check"
}

func (e CheckEvent) Message() string {
	outcome := "denied"
	if e.Granted {
		outcome = "granted"
	}
	return fmt.Sprintf("privilege %s on %s for %s in tenant %s: %s",
		e.Privilege, e.ResourceType, e.Grantee, e.Tenant, outcome)
}

func (e CheckEvent) Severity() Severity {
	if e.Granted {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e CheckEvent) Facility() int {
	return FacilityAuthPriv
}

func (e CheckEvent) StructuredData() map[string]map[string]string {
	granted := "false"
	if e.Granted {
		granted = "true"
	}
	return map[string]map[string]string{
		SDIDSubject: {"tenant": e.Tenant, "grantee": e.Grantee, "resource_type": e.ResourceType},
		SDIDAction:  {"operation": "check", "privilege": e.Privilege, "granted": granted},
	}
}
