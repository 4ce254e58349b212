package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(ctx context.Context, p *ProductModel) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*ProductModel, error) {
	var p ProductModel
	err := r.db.WithContext(ctx).First(&p, "product_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List 新加入的在前
func (r *ProductRepo) List(ctx context.Context) ([]ProductModel, error) {
	var ps []ProductModel
	if err := r.db.WithContext(ctx).Order("date_added desc").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *ProductModel) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProductRepo) Archive(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&ProductModel{}).
		Where("product_id = ?", id).
		Update("is_archived", true).Error
}
