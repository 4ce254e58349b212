package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *UserModel) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// FindByID 不存在时返回 nil, nil
func (r *UserRepo) FindByID(ctx context.Context, id string) (*UserModel, error) {
	var u UserModel
	err := r.db.WithContext(ctx).First(&u, "user_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByLogin 用户名或邮箱都可以登录
func (r *UserRepo) FindByLogin(ctx context.Context, ident string) (*UserModel, error) {
	var u UserModel
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", ident, ident).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List 全量返回（含已归档），由前端过滤
func (r *UserRepo) List(ctx context.Context) ([]UserModel, error) {
	var users []UserModel
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&UserModel{}).Count(&n).Error
	return n, err
}

func (r *UserRepo) Update(ctx context.Context, u *UserModel) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// Archive 软删除：只置 is_archived，记录仍可按 id 查到
func (r *UserRepo) Archive(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&UserModel{}).
		Where("user_id = ?", id).
		Update("is_archived", true).Error
}
