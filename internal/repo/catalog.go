package repo

import (
	"context"

	"github.com/aura-fashion/shop-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) Products(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Product
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Product{}, id).Error
}

func (r *GormRepo) SizesForProduct(ctx context.Context, productID uint) ([]models.ProductSize, error) {
	var sizes []models.ProductSize
	err := r.DB.WithContext(ctx).
		Where("product_id = ? AND is_active = ?", productID, true).
		Order("sort_order ASC, size ASC").
		Find(&sizes).Error
	return sizes, err
}

func (r *GormRepo) CreateProductSize(ctx context.Context, s *models.ProductSize) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) ProductSizeByID(ctx context.Context, id uint) (*models.ProductSize, error) {
	var s models.ProductSize
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// LockProduct re-reads the product row under an exclusive lock. Must be called
// on a tx-bound repo; the verdict of any stock check against the returned row
// is only meaningful until that transaction ends.
func (r *GormRepo) LockProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// LockProductSize is LockProduct for the size-level stock pool.
func (r *GormRepo) LockProductSize(ctx context.Context, id uint) (*models.ProductSize, error) {
	var s models.ProductSize
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) AdjustProductStock(ctx context.Context, id uint, delta int64) error {
	return r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("inventory_count", gorm.Expr("inventory_count + ?", delta)).Error
}

func (r *GormRepo) AdjustSizeStock(ctx context.Context, id uint, delta int64) error {
	return r.DB.WithContext(ctx).Model(&models.ProductSize{}).
		Where("id = ?", id).
		UpdateColumn("stock_count", gorm.Expr("stock_count + ?", delta)).Error
}
