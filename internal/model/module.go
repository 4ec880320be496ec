package model

import "gorm.io/datatypes"

// ChildLink is a nested navigation entry rendered under a module.
type ChildLink struct {
	Name string `json:"name"`
	Href string `json:"href"`
	Icon string `json:"icon,omitempty"`
}

// Module is a navigable sidebar route gated by the permission system.
// Href is the unique path key used for pathname-based lookup.
type Module struct {
	ID                  uint                            `json:"id" gorm:"primaryKey"`
	SidebarDisplayGroup string                          `json:"sidebar_display_group" gorm:"type:varchar(100)"`
	SidebarDisplayName  string                          `json:"sidebar_display_name" gorm:"type:varchar(100);not null"`
	Href                string                          `json:"href" gorm:"type:varchar(255);not null;uniqueIndex:idx_modules_href_live,where:is_deleted = false"`
	Icon                string                          `json:"icon" gorm:"type:varchar(100)"`
	SortOrder           int                             `json:"sort_order" gorm:"not null;default:0"`
	Children            datatypes.JSONSlice[ChildLink] `json:"children" gorm:"type:jsonb"`
	AuditFields
	SoftDelete
}
