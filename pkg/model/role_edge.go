package model

import "time"

// RoleEdge is a directed parent->child hierarchy edge. Holding the parent
// role transitively grants everything granted by the child role. Parent and
// child always belong to the same tenant. Multiple parents and multiple
// children are permitted: the hierarchy is a DAG, not a strict tree.
type RoleEdge struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Tenant       string    `gorm:"column:tenant;not null"`
	ParentRoleID int64     `gorm:"column:parent_role_id;not null"`
	ChildRoleID  int64     `gorm:"column:child_role_id;not null"`
	CreatedBy    string    `gorm:"column:created_by;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedBy    string    `gorm:"column:updated_by;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (RoleEdge) TableName() string {
	return "role_edges"
}
