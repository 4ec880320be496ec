package model

import "gorm.io/datatypes"

// Matrix types. A matrix with a user id is ABAC (scoped to that one
// user and overriding the role's shared matrix); without one it is
// RBAC (shared by every user holding the role).
const (
	MatrixTypeRBAC = "rbac"
	MatrixTypeABAC = "abac"
)

// AccessLevel holds the CRUD flags of a permission entry. Each flag is
// independently settable.
type AccessLevel struct {
	Create bool `json:"create"`
	Read   bool `json:"read"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// Permission is an embedded sub-document of an access matrix: one
// module, its CRUD flags, and the components that render under it for
// this principal. Component ids may go stale; the evaluator drops ids
// that no longer resolve to a live component.
type Permission struct {
	ModuleID     uint        `json:"module_id"`
	Access       AccessLevel `json:"access"`
	ComponentIDs []uint      `json:"component_ids"`
}

// AccessMatrix is the central authorization record. At most one live
// matrix may exist per (user_id, role_id); a null user id with a given
// role id is its own key, enforced by a partial unique index on
// (role_id, COALESCE(user_id, 0)).
type AccessMatrix struct {
	ID              uint                             `json:"id" gorm:"primaryKey"`
	RoleID          uint                             `json:"role_id" gorm:"index;not null"`
	UserID          *uint                            `json:"user_id,omitempty" gorm:"index"`
	MatrixType      string                           `json:"matrix_type" gorm:"type:varchar(10);not null"`
	OrganizationIDs datatypes.JSONSlice[uint]        `json:"organization_ids" gorm:"type:jsonb"`
	Permissions     datatypes.JSONSlice[Permission] `json:"permissions" gorm:"type:jsonb"`
	AuditFields
	SoftDelete
}

// DeriveType returns the matrix type implied by the user id.
func DeriveType(userID *uint) string {
	if userID != nil {
		return MatrixTypeABAC
	}
	return MatrixTypeRBAC
}

// PermissionFor returns the permission entry for the given module, or
// nil when the matrix has no entry for it. Absence means deny.
func (m *AccessMatrix) PermissionFor(moduleID uint) *Permission {
	for i := range m.Permissions {
		if m.Permissions[i].ModuleID == moduleID {
			return &m.Permissions[i]
		}
	}
	return nil
}

// AppliesToOrganization reports whether the matrix lists the given
// organization.
func (m *AccessMatrix) AppliesToOrganization(orgID uint) bool {
	for _, id := range m.OrganizationIDs {
		if id == orgID {
			return true
		}
	}
	return false
}
