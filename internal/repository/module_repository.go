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

// ModuleRepository persists sidebar modules. It implements
// access.ModuleDirectory.
type ModuleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

// ModuleUpdate is a partial update; nil fields are left untouched.
type ModuleUpdate struct {
	SidebarDisplayGroup *string
	SidebarDisplayName  *string
	Href                *string
	Icon                *string
	SortOrder           *int
	Children            *[]model.ChildLink
}

// Create inserts a module. A live module with the same href fails with
// the duplicate-key error class.
func (r *ModuleRepository) Create(ctx context.Context, m *model.Module) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	return nil
}

// FindByID returns the live module or nil when absent.
func (r *ModuleRepository) FindByID(ctx context.Context, id uint) (*model.Module, error) {
	var m model.Module
	err := r.db.WithContext(ctx).Scopes(Live).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// FindLiveByHref looks up a module by its exact pathname key.
func (r *ModuleRepository) FindLiveByHref(ctx context.Context, href string) (*model.Module, error) {
	var m model.Module
	err := r.db.WithContext(ctx).Scopes(Live).Where("href = ?", href).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// FindLiveByIDs returns the live modules among ids, sidebar-ordered.
// Ids of deleted modules are simply absent from the result.
func (r *ModuleRepository) FindLiveByIDs(ctx context.Context, ids []uint) ([]model.Module, error) {
	var modules []model.Module
	err := r.db.WithContext(ctx).Scopes(Live).
		Where("id IN ?", ids).
		Order("sort_order asc").
		Find(&modules).Error
	if err != nil {
		return nil, translate(err)
	}
	return modules, nil
}

// List returns all live modules in sidebar order.
func (r *ModuleRepository) List(ctx context.Context) ([]model.Module, error) {
	var modules []model.Module
	err := r.db.WithContext(ctx).Scopes(Live).Order("sort_order asc").Find(&modules).Error
	if err != nil {
		return nil, translate(err)
	}
	return modules, nil
}

// ListDeleted returns the soft-deleted set.
func (r *ModuleRepository) ListDeleted(ctx context.Context) ([]model.Module, error) {
	var modules []model.Module
	err := r.db.WithContext(ctx).Scopes(Deleted).Order("deleted_at desc").Find(&modules).Error
	if err != nil {
		return nil, translate(err)
	}
	return modules, nil
}

// Update applies a partial update to a live module.
func (r *ModuleRepository) Update(ctx context.Context, id uint, patch ModuleUpdate, actor *uint) (*model.Module, error) {
	m, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	updates := map[string]interface{}{}
	if patch.SidebarDisplayGroup != nil {
		updates["sidebar_display_group"] = *patch.SidebarDisplayGroup
	}
	if patch.SidebarDisplayName != nil {
		updates["sidebar_display_name"] = *patch.SidebarDisplayName
	}
	if patch.Href != nil {
		updates["href"] = *patch.Href
	}
	if patch.Icon != nil {
		updates["icon"] = *patch.Icon
	}
	if patch.SortOrder != nil {
		updates["sort_order"] = *patch.SortOrder
	}
	if patch.Children != nil {
		updates["children"] = datatypes.JSONSlice[model.ChildLink](*patch.Children)
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

// SoftDelete marks the module deleted. Returns false when no live
// module matched.
func (r *ModuleRepository) SoftDelete(ctx context.Context, id uint, actor *uint) (bool, error) {
	var m model.SoftDelete
	m.MarkDeleted(actor)
	result := r.db.WithContext(ctx).Model(&model.Module{}).
		Scopes(Live).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": m.IsDeleted,
			"deleted_at": m.DeletedAt,
			"deleted_by": m.DeletedBy,
		})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Restore clears the soft-delete flags. Restoring must never revive a
// duplicate: a live module holding the same href fails with the
// restore-conflict error class and leaves both records unchanged.
func (r *ModuleRepository) Restore(ctx context.Context, id uint, actor *uint) (*model.Module, error) {
	var m model.Module
	err := r.db.WithContext(ctx).Scopes(Deleted).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}

	var count int64
	err = r.db.WithContext(ctx).Model(&model.Module{}).
		Scopes(Live).
		Where("href = ?", m.Href).
		Count(&count).Error
	if err != nil {
		return nil, translate(err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: a live module already uses href %q", access.ErrRestoreConflict, m.Href)
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

// HardDelete physically removes the module. Irreversible; admin-only.
func (r *ModuleRepository) HardDelete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Module{}, id)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}
