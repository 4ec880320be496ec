package model

// Organization is the tenant boundary. Access matrices are scoped to
// organizations; modules are shared across them (see DESIGN.md).
type Organization struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_organizations_name_live,where:is_deleted = false"`
	Description string `json:"description" gorm:"type:text"`
	AuditFields
	SoftDelete
}
