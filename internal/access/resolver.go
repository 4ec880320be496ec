package access

import (
	"context"
	"fmt"

	"github.com/saran-softdev/component-library-sub001/internal/model"
)

// Principal identifies the caller a resolution runs for. All three ids
// are required.
type Principal struct {
	UserID         uint `json:"user_id"`
	RoleID         uint `json:"role_id"`
	OrganizationID uint `json:"organization_id"`
}

// Validate fails fast on malformed principals so a zero id can never
// silently match a row.
func (p Principal) Validate() error {
	if p.UserID == 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidArgument)
	}
	if p.RoleID == 0 {
		return fmt.Errorf("%w: role id is required", ErrInvalidArgument)
	}
	if p.OrganizationID == 0 {
		return fmt.Errorf("%w: organization id is required", ErrInvalidArgument)
	}
	return nil
}

// Resolver picks the single authoritative matrix for a principal. The
// tier order is a security contract: a user-scoped matrix always wins,
// and permissions are never unioned across tiers.
type Resolver struct {
	matrices MatrixStore
}

// NewResolver returns a resolver over the given matrix store.
func NewResolver(matrices MatrixStore) *Resolver {
	return &Resolver{matrices: matrices}
}

// Resolve returns exactly one live matrix for the principal, trying
// tiers in order:
//
//  1. user-scoped matrix for the user (ABAC) — authoritative when
//     present, even if broader RBAC rules exist
//  2. role-scoped matrix listing the principal's organization
//  3. role-scoped matrix regardless of organization
//
// The tiers are sequential; each runs only when the previous one
// missed. All three missing yields ErrNoAccessMatrix.
func (r *Resolver) Resolve(ctx context.Context, p Principal) (*model.AccessMatrix, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	matrix, err := r.matrices.FindActiveMatrix(ctx, MatrixQuery{UserID: &p.UserID})
	if err != nil {
		return nil, err
	}
	if matrix != nil {
		return matrix, nil
	}

	matrix, err = r.matrices.FindActiveMatrix(ctx, MatrixQuery{
		RoleOnly:       true,
		RoleID:         p.RoleID,
		OrganizationID: p.OrganizationID,
	})
	if err != nil {
		return nil, err
	}
	if matrix != nil {
		return matrix, nil
	}

	matrix, err = r.matrices.FindActiveMatrix(ctx, MatrixQuery{
		RoleOnly: true,
		RoleID:   p.RoleID,
	})
	if err != nil {
		return nil, err
	}
	if matrix != nil {
		return matrix, nil
	}

	return nil, fmt.Errorf("%w: user %d role %d organization %d",
		ErrNoAccessMatrix, p.UserID, p.RoleID, p.OrganizationID)
}
