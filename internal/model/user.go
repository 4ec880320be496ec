package model

// User belongs to exactly one organization and holds exactly one role
// at a time. Authentication happens in the identity service; the
// password hash is stored here only for admin provisioning.
type User struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Name           string `json:"name" gorm:"type:varchar(100);not null"`
	Email          string `json:"email" gorm:"type:varchar(100);not null;uniqueIndex:idx_users_email_live,where:is_deleted = false"`
	Password       string `json:"-" gorm:"type:varchar(255)"`
	RoleID         uint   `json:"role_id" gorm:"index;not null"`
	OrganizationID uint   `json:"organization_id" gorm:"index;not null"`
	AuditFields
	SoftDelete
}
