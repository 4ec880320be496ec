package model

// Role is a named role. Roles own no permissions directly; permissions
// live in the access matrix keyed by role (and optionally user).
type Role struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	RoleName    string `json:"role_name" gorm:"type:varchar(100);not null;uniqueIndex:idx_roles_name_live,where:is_deleted = false"`
	Description string `json:"description" gorm:"type:text"`
	AuditFields
	SoftDelete
}
