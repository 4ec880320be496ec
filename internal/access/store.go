package access

import (
	"context"

	"github.com/saran-softdev/component-library-sub001/internal/model"
)

// MatrixQuery selects at most one live access matrix. Lookups that
// miss return (nil, nil), not an error; infrastructure failures wrap
// ErrStoreUnavailable.
type MatrixQuery struct {
	// UserID, when non-nil, restricts the lookup to the matrix scoped
	// to that user (ABAC).
	UserID *uint
	// RoleOnly requires user_id to be NULL (role-scoped RBAC rows).
	RoleOnly bool
	// RoleID filters by role; zero means any role.
	RoleID uint
	// OrganizationID, when non-zero, requires the matrix to list this
	// organization.
	OrganizationID uint
}

// MatrixStore is the persistence contract for access matrices as seen
// by the resolver. Implementations must exclude soft-deleted rows from
// every lookup.
type MatrixStore interface {
	FindActiveMatrix(ctx context.Context, q MatrixQuery) (*model.AccessMatrix, error)
}

// ModuleDirectory looks up live modules for pathname translation and
// sidebar assembly.
type ModuleDirectory interface {
	FindLiveByHref(ctx context.Context, href string) (*model.Module, error)
	FindLiveByIDs(ctx context.Context, ids []uint) ([]model.Module, error)
}

// ComponentCatalog resolves component ids against live, active
// components. Stale ids are simply absent from the result.
type ComponentCatalog interface {
	FindActiveByIDs(ctx context.Context, ids []uint) ([]model.Component, error)
}
