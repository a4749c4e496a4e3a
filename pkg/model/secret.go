package model

import "time"

// Secret is a path-addressed secret value. The value is encrypted by the
// vault before it reaches the store; the model never sees plaintext.
type Secret struct {
	Tenant    string    `gorm:"column:tenant;primaryKey"`
	Path      string    `gorm:"column:path;primaryKey"`
	Value     []byte    `gorm:"column:value;type:bytea"`
	CreatedBy string    `gorm:"column:created_by;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedBy string    `gorm:"column:updated_by;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Secret) TableName() string {
	return "secrets"
}
