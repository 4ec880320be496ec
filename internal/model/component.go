package model

// Component statuses.
const (
	ComponentStatusActive   = "active"
	ComponentStatusInactive = "inactive"
)

// Component is an individually toggleable UI widget. Visibility is
// governed by the component-id lists inside access matrix permission
// entries; ModuleID is only a back-reference to where the widget is
// primarily used.
type Component struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	ComponentName string `json:"component_name" gorm:"type:varchar(100);not null;uniqueIndex:idx_components_name_live,where:is_deleted = false"`
	Description   string `json:"description" gorm:"type:text"`
	Status        string `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	ModuleID      *uint  `json:"module_id,omitempty" gorm:"index"`
	AuditFields
	SoftDelete
}
