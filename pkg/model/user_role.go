package model

import "time"

// UserRole is a direct role assignment. Transitive roles are derived by the
// hierarchy engine and never stored.
type UserRole struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Tenant          string    `gorm:"column:tenant;not null"`
	UserName        string    `gorm:"column:user_name;not null"`
	RoleID          int64     `gorm:"column:role_id;not null"`
	CreatedBy       string    `gorm:"column:created_by;not null"`
	CreatedByTenant string    `gorm:"column:created_by_tenant;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedBy       string    `gorm:"column:updated_by;not null"`
	UpdatedByTenant string    `gorm:"column:updated_by_tenant;not null"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
