package model

import "time"

// AuditFields stamps every record with its actor and timestamps.
type AuditFields struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy *uint     `json:"created_by,omitempty" gorm:"index"`
	UpdatedBy *uint     `json:"updated_by,omitempty"`
}

// SoftDelete marks a record inactive instead of removing it. Reads
// exclude flagged rows through an explicit repository predicate, not
// an implicit query hook, so the deleted set stays queryable.
type SoftDelete struct {
	IsDeleted bool       `json:"is_deleted" gorm:"not null;default:false;index"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *uint      `json:"deleted_by,omitempty"`
}

// MarkDeleted sets the soft-delete fields for the given actor.
func (s *SoftDelete) MarkDeleted(actor *uint) {
	now := time.Now()
	s.IsDeleted = true
	s.DeletedAt = &now
	s.DeletedBy = actor
}

// ClearDeleted resets the soft-delete fields on restore.
func (s *SoftDelete) ClearDeleted() {
	s.IsDeleted = false
	s.DeletedAt = nil
	s.DeletedBy = nil
}
