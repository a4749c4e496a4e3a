package model

import "time"

// Role represents a named, tenant-scoped role. Identity is (tenant, name);
// the id is a stable surrogate key used internally.
type Role struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Tenant          string    `gorm:"column:tenant;not null"`
	Name            string    `gorm:"column:name;not null"`
	Description     string    `gorm:"column:description"`
	Owner           string    `gorm:"column:owner;not null"`
	OwnerTenant     string    `gorm:"column:owner_tenant;not null"`
	CreatedBy       string    `gorm:"column:created_by;not null"`
	CreatedByTenant string    `gorm:"column:created_by_tenant;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedBy       string    `gorm:"column:updated_by;not null"`
	UpdatedByTenant string    `gorm:"column:updated_by_tenant;not null"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string {
	return "roles"
}
