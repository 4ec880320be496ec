package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/saran-softdev/component-library-sub001/internal/access"
	"github.com/saran-softdev/component-library-sub001/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MatrixRepository persists access matrices. It implements
// access.MatrixStore.
type MatrixRepository struct {
	db *gorm.DB
}

func NewMatrixRepository(db *gorm.DB) *MatrixRepository {
	return &MatrixRepository{db: db}
}

// MatrixUpdate patches the organization list and/or permission
// entries. The (role_id, user_id) identity of a matrix is immutable;
// replacing the principal means a new matrix.
type MatrixUpdate struct {
	OrganizationIDs *[]uint
	Permissions     *[]model.Permission
}

// Create inserts a matrix after checking the identity invariant: at
// most one live matrix per (user_id, role_id), where a NULL user id is
// its own key. The partial unique index backs this check against
// concurrent creates.
func (r *MatrixRepository) Create(ctx context.Context, roleID uint, userID *uint, orgIDs []uint, perms []model.Permission, actor *uint) (*model.AccessMatrix, error) {
	existing, err := r.findByIdentity(ctx, roleID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: live matrix %d already covers this (user, role) pair",
			access.ErrDuplicateKey, existing.ID)
	}

	matrix := &model.AccessMatrix{
		RoleID:          roleID,
		UserID:          userID,
		MatrixType:      model.DeriveType(userID),
		OrganizationIDs: datatypes.JSONSlice[uint](orgIDs),
		Permissions:     datatypes.JSONSlice[model.Permission](perms),
	}
	matrix.CreatedBy = actor
	if err := r.db.WithContext(ctx).Create(matrix).Error; err != nil {
		return nil, translate(err)
	}
	return matrix, nil
}

func (r *MatrixRepository) findByIdentity(ctx context.Context, roleID uint, userID *uint) (*model.AccessMatrix, error) {
	db := r.db.WithContext(ctx).Scopes(Live).Where("role_id = ?", roleID)
	if userID != nil {
		db = db.Where("user_id = ?", *userID)
	} else {
		db = db.Where("user_id IS NULL")
	}
	var m model.AccessMatrix
	err := db.First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// FindActiveMatrix returns at most one live matrix for the query, or
// nil on a miss. The live predicate is always applied.
func (r *MatrixRepository) FindActiveMatrix(ctx context.Context, q access.MatrixQuery) (*model.AccessMatrix, error) {
	db := r.db.WithContext(ctx).Scopes(Live)
	if q.UserID != nil {
		db = db.Where("user_id = ?", *q.UserID)
	}
	if q.RoleOnly {
		db = db.Where("user_id IS NULL")
	}
	if q.RoleID != 0 {
		db = db.Where("role_id = ?", q.RoleID)
	}
	if q.OrganizationID != 0 {
		// jsonb containment against the organization id list
		db = db.Where("organization_ids @> ?", fmt.Sprintf("[%d]", q.OrganizationID))
	}

	var m model.AccessMatrix
	err := db.First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// FindByID returns the live matrix or nil when absent.
func (r *MatrixRepository) FindByID(ctx context.Context, id uint) (*model.AccessMatrix, error) {
	var m model.AccessMatrix
	err := r.db.WithContext(ctx).Scopes(Live).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// List returns all live matrices.
func (r *MatrixRepository) List(ctx context.Context) ([]model.AccessMatrix, error) {
	var matrices []model.AccessMatrix
	err := r.db.WithContext(ctx).Scopes(Live).Order("role_id asc").Find(&matrices).Error
	if err != nil {
		return nil, translate(err)
	}
	return matrices, nil
}

// Update patches the organization list and/or permissions of a live
// matrix. Identity fields are never touched.
func (r *MatrixRepository) Update(ctx context.Context, id uint, patch MatrixUpdate, actor *uint) (*model.AccessMatrix, error) {
	m, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	updates := map[string]interface{}{}
	if patch.OrganizationIDs != nil {
		updates["organization_ids"] = datatypes.JSONSlice[uint](*patch.OrganizationIDs)
	}
	if patch.Permissions != nil {
		updates["permissions"] = datatypes.JSONSlice[model.Permission](*patch.Permissions)
	}
	if len(updates) == 0 {
		return m, nil
	}
	updates["updated_by"] = actor

	if err := r.db.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		return nil, translate(err)
	}
	return m, nil
}

// AttachOrganization adds the organization to the live RBAC matrix of
// the role, if one exists and does not already list it. Used when a
// new organization is bootstrapped onto the configured default role.
func (r *MatrixRepository) AttachOrganization(ctx context.Context, roleID, orgID uint) error {
	m, err := r.findByIdentity(ctx, roleID, nil)
	if err != nil {
		return err
	}
	if m == nil || m.AppliesToOrganization(orgID) {
		return nil
	}
	orgIDs := append([]uint(m.OrganizationIDs), orgID)
	err = r.db.WithContext(ctx).Model(m).
		Update("organization_ids", datatypes.JSONSlice[uint](orgIDs)).Error
	return translate(err)
}

// SoftDelete marks the matrix deleted, taking its key out of the live
// uniqueness scope.
func (r *MatrixRepository) SoftDelete(ctx context.Context, id uint, actor *uint) (bool, error) {
	var s model.SoftDelete
	s.MarkDeleted(actor)
	result := r.db.WithContext(ctx).Model(&model.AccessMatrix{}).
		Scopes(Live).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": s.IsDeleted,
			"deleted_at": s.DeletedAt,
			"deleted_by": s.DeletedBy,
		})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Restore revives a soft-deleted matrix after re-checking the identity
// invariant. A live matrix holding the same (user, role) key fails
// with the restore-conflict error class and changes nothing.
func (r *MatrixRepository) Restore(ctx context.Context, id uint, actor *uint) (*model.AccessMatrix, error) {
	var m model.AccessMatrix
	err := r.db.WithContext(ctx).Scopes(Deleted).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}

	existing, err := r.findByIdentity(ctx, m.RoleID, m.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: live matrix %d already covers this (user, role) pair",
			access.ErrRestoreConflict, existing.ID)
	}

	m.ClearDeleted()
	err = r.db.WithContext(ctx).Model(&m).Updates(map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
		"deleted_by": nil,
		"updated_by": actor,
	}).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}
