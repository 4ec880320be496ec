package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/saran-softdev/component-library-sub001/internal/access"
	"github.com/saran-softdev/component-library-sub001/internal/model"
	"gorm.io/gorm"
)

// OrganizationRepository persists organizations.
type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uint) (*model.Organization, error) {
	var org model.Organization
	err := r.db.WithContext(ctx).Scopes(Live).First(&org, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &org, nil
}

func (r *OrganizationRepository) List(ctx context.Context) ([]model.Organization, error) {
	var orgs []model.Organization
	err := r.db.WithContext(ctx).Scopes(Live).Order("name asc").Find(&orgs).Error
	if err != nil {
		return nil, translate(err)
	}
	return orgs, nil
}

func (r *OrganizationRepository) SoftDelete(ctx context.Context, id uint, actor *uint) (bool, error) {
	var s model.SoftDelete
	s.MarkDeleted(actor)
	result := r.db.WithContext(ctx).Model(&model.Organization{}).
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
func (r *OrganizationRepository) Restore(ctx context.Context, id uint, actor *uint) (*model.Organization, error) {
	var org model.Organization
	err := r.db.WithContext(ctx).Scopes(Deleted).First(&org, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}

	var count int64
	err = r.db.WithContext(ctx).Model(&model.Organization{}).
		Scopes(Live).
		Where("name = ?", org.Name).
		Count(&count).Error
	if err != nil {
		return nil, translate(err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: a live organization already uses name %q",
			access.ErrRestoreConflict, org.Name)
	}

	org.ClearDeleted()
	err = r.db.WithContext(ctx).Model(&org).Updates(map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
		"deleted_by": nil,
		"updated_by": actor,
	}).Error
	if err != nil {
		return nil, translate(err)
	}
	return &org, nil
}
