package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/saran-softdev/component-library-sub001/internal/access"
	"github.com/saran-softdev/component-library-sub001/internal/model"
	"gorm.io/gorm"
)

// ComponentRepository persists UI components. It implements
// access.ComponentCatalog.
type ComponentRepository struct {
	db *gorm.DB
}

func NewComponentRepository(db *gorm.DB) *ComponentRepository {
	return &ComponentRepository{db: db}
}

// ComponentUpdate is a partial update; nil fields are left untouched.
type ComponentUpdate struct {
	ComponentName *string
	Description   *string
	Status        *string
	ModuleID      *uint
}

// Create inserts a component. A live component with the same name
// fails with the duplicate-key error class.
func (r *ComponentRepository) Create(ctx context.Context, c *model.Component) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return translate(err)
	}
	return nil
}

// FindByID returns the live component or nil when absent.
func (r *ComponentRepository) FindByID(ctx context.Context, id uint) (*model.Component, error) {
	var c model.Component
	err := r.db.WithContext(ctx).Scopes(Live).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// FindActiveByIDs resolves ids against live components with active
// status. Stale, deleted, or inactive ids are absent from the result,
// never an error.
func (r *ComponentRepository) FindActiveByIDs(ctx context.Context, ids []uint) ([]model.Component, error) {
	var components []model.Component
	err := r.db.WithContext(ctx).Scopes(Live).
		Where("id IN ?", ids).
		Where("status = ?", model.ComponentStatusActive).
		Order("component_name asc").
		Find(&components).Error
	if err != nil {
		return nil, translate(err)
	}
	return components, nil
}

// List returns all live components.
func (r *ComponentRepository) List(ctx context.Context) ([]model.Component, error) {
	var components []model.Component
	err := r.db.WithContext(ctx).Scopes(Live).Order("component_name asc").Find(&components).Error
	if err != nil {
		return nil, translate(err)
	}
	return components, nil
}

// ListDeleted returns the soft-deleted set.
func (r *ComponentRepository) ListDeleted(ctx context.Context) ([]model.Component, error) {
	var components []model.Component
	err := r.db.WithContext(ctx).Scopes(Deleted).Order("deleted_at desc").Find(&components).Error
	if err != nil {
		return nil, translate(err)
	}
	return components, nil
}

// Update applies a partial update to a live component.
func (r *ComponentRepository) Update(ctx context.Context, id uint, patch ComponentUpdate, actor *uint) (*model.Component, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	updates := map[string]interface{}{}
	if patch.ComponentName != nil {
		updates["component_name"] = *patch.ComponentName
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.ModuleID != nil {
		updates["module_id"] = *patch.ModuleID
	}
	if len(updates) == 0 {
		return c, nil
	}
	updates["updated_by"] = actor

	if err := r.db.WithContext(ctx).Model(c).Updates(updates).Error; err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// SoftDelete marks the component deleted. Live permission entries may
// keep referencing it; the evaluator drops the stale id at read time.
func (r *ComponentRepository) SoftDelete(ctx context.Context, id uint, actor *uint) (bool, error) {
	var s model.SoftDelete
	s.MarkDeleted(actor)
	result := r.db.WithContext(ctx).Model(&model.Component{}).
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

// Restore clears the soft-delete flags unless a live component now
// holds the same name, in which case it fails with the
// restore-conflict error class and changes nothing.
func (r *ComponentRepository) Restore(ctx context.Context, id uint, actor *uint) (*model.Component, error) {
	var c model.Component
	err := r.db.WithContext(ctx).Scopes(Deleted).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}

	var count int64
	err = r.db.WithContext(ctx).Model(&model.Component{}).
		Scopes(Live).
		Where("component_name = ?", c.ComponentName).
		Count(&count).Error
	if err != nil {
		return nil, translate(err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: a live component already uses name %q",
			access.ErrRestoreConflict, c.ComponentName)
	}

	c.ClearDeleted()
	err = r.db.WithContext(ctx).Model(&c).Updates(map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
		"deleted_by": nil,
		"updated_by": actor,
	}).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// HardDelete physically removes the component.
func (r *ComponentRepository) HardDelete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Component{}, id)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}
