package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/saran-softdev/component-library-sub001/internal/access"
	"github.com/saran-softdev/component-library-sub001/internal/model"
	"gorm.io/gorm"
)

// RoleRepository persists roles.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role *model.Role) error {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Scopes(Live).First(&role, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Scopes(Live).Order("role_name asc").Find(&roles).Error
	if err != nil {
		return nil, translate(err)
	}
	return roles, nil
}

func (r *RoleRepository) SoftDelete(ctx context.Context, id uint, actor *uint) (bool, error) {
	var s model.SoftDelete
	s.MarkDeleted(actor)
	result := r.db.WithContext(ctx).Model(&model.Role{}).
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

// Restore re-checks the live name key before clearing the flags.
func (r *RoleRepository) Restore(ctx context.Context, id uint, actor *uint) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Scopes(Deleted).First(&role, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}

	var count int64
	err = r.db.WithContext(ctx).Model(&model.Role{}).
		Scopes(Live).
		Where("role_name = ?", role.RoleName).
		Count(&count).Error
	if err != nil {
		return nil, translate(err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: a live role already uses name %q",
			access.ErrRestoreConflict, role.RoleName)
	}

	role.ClearDeleted()
	err = r.db.WithContext(ctx).Model(&role).Updates(map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
		"deleted_by": nil,
		"updated_by": actor,
	}).Error
	if err != nil {
		return nil, translate(err)
	}
	return &role, nil
}
