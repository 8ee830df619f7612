package repo

import (
	"context"

	"github.com/aura-fashion/shop-backend/internal/models"
)

func (r *GormRepo) CreateReview(ctx context.Context, rev *models.Review) error {
	return r.DB.WithContext(ctx).Create(rev).Error
}

func (r *GormRepo) ReviewsForProduct(ctx context.Context, productID uint, offset, limit int) ([]models.Review, error) {
	var out []models.Review
	err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, err
}

// HasPaidPurchase reports whether the user has a paid order containing the
// product, which backs the verified-purchase badge.
func (r *GormRepo) HasPaidPurchase(ctx context.Context, userID, productID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.payment_status = ?", userID, models.PaymentStatusPaid).
		Where("order_items.product_id = ?", productID).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) AddWishlistItem(ctx context.Context, w *models.WishlistItem) error {
	return r.DB.WithContext(ctx).Create(w).Error
}

func (r *GormRepo) WishlistForUser(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	var out []models.WishlistItem
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&out).Error
	return out, err
}

func (r *GormRepo) RemoveWishlistItem(ctx context.Context, userID, productID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).Error
}
