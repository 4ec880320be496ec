package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/saran-softdev/component-library-sub001/internal/access"
	"github.com/saran-softdev/component-library-sub001/internal/model"
	"gorm.io/gorm"
)

// UserRepository persists users for admin provisioning.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Scopes(Live).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Scopes(Live).Order("email asc").Find(&users).Error
	if err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id uint, actor *uint) (bool, error) {
	var s model.SoftDelete
	s.MarkDeleted(actor)
	result := r.db.WithContext(ctx).Model(&model.User{}).
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

// Restore re-checks the live email key before clearing the flags.
func (r *UserRepository) Restore(ctx context.Context, id uint, actor *uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Scopes(Deleted).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}

	var count int64
	err = r.db.WithContext(ctx).Model(&model.User{}).
		Scopes(Live).
		Where("email = ?", user.Email).
		Count(&count).Error
	if err != nil {
		return nil, translate(err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: a live user already uses email %q",
			access.ErrRestoreConflict, user.Email)
	}

	user.ClearDeleted()
	err = r.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
		"deleted_by": nil,
		"updated_by": actor,
	}).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
