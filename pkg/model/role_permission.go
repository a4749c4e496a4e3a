package model

import "time"

// RolePermission attaches a permission string to a role. The permission
// string is opaque to the store; the authz matcher interprets it.
type RolePermission struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Tenant     string    `gorm:"column:tenant;not null"`
	RoleID     int64     `gorm:"column:role_id;not null"`
	Permission string    `gorm:"column:permission;not null"`
	CreatedBy  string    `gorm:"column:created_by;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedBy  string    `gorm:"column:updated_by;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}
