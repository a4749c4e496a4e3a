package model

import "time"

// Distinguished grantee values. PublicGrantee matches any authenticated
// user; PublicNoAuthnGrantee matches any caller at all.
const (
	PublicGrantee        = "~public"
	PublicNoAuthnGrantee = "~public_no_authn"
)

// Share records a cross-service sharing grant: grantee holds privilege on
// (resource_type, resource_id1, resource_id2) within tenant. The grantee may
// be a literal user name or one of the distinguished public grantees.
// ResourceID2 is optional and its absence (NULL) is semantically distinct
// from "don't care".
type Share struct {
	ID              string    `gorm:"column:id;primaryKey"`
	Tenant          string    `gorm:"column:tenant;not null"`
	Grantor         string    `gorm:"column:grantor;not null"`
	Grantee         string    `gorm:"column:grantee;not null"`
	ResourceType    string    `gorm:"column:resource_type;not null"`
	ResourceID1     string    `gorm:"column:resource_id1;not null"`
	ResourceID2     *string   `gorm:"column:resource_id2"`
	Privilege       string    `gorm:"column:privilege;not null"`
	CreatedBy       string    `gorm:"column:created_by;not null"`
	CreatedByTenant string    `gorm:"column:created_by_tenant;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Share) TableName() string {
	return "shares"
}
