package repo

import (
	"context"

	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/google/uuid"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	return r.DB.WithContext(ctx).Create(&items).Error
}

func (r *GormRepo) OrderForUser(ctx context.Context, id uuid.UUID, userID uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) OrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *GormRepo) OrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

func (r *GormRepo) OrderItemByID(ctx context.Context, id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) SetRazorpayOrderID(ctx context.Context, orderID uuid.UUID, razorpayOrderID string) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("razorpay_order_id", razorpayOrderID).Error
}

// TransitionOrderStatus flips order_status only when the row is still in the
// expected state; returns whether the transition happened. The conditional
// update makes concurrent transitions race-safe without an explicit row lock.
func (r *GormRepo) TransitionOrderStatus(ctx context.Context, orderID uuid.UUID, from, to string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND order_status = ?", orderID, from).
		Update("order_status", to)
	return res.RowsAffected > 0, res.Error
}

// TransitionOrderWith is TransitionOrderStatus carrying extra fields in the
// same statement, so the transition and its side fields land atomically.
func (r *GormRepo) TransitionOrderWith(ctx context.Context, orderID uuid.UUID, from, to string, fields map[string]any) (bool, error) {
	updates := map[string]any{"order_status": to}
	for k, v := range fields {
		updates[k] = v
	}
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND order_status = ?", orderID, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

// ApplyPaymentSuccess persists the gateway correlation fields and marks the
// order paid/processing. The payment_status guard makes the write idempotent:
// a duplicate callback affects zero rows.
func (r *GormRepo) ApplyPaymentSuccess(ctx context.Context, orderID uuid.UUID, paymentID, signature string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status <> ?", orderID, models.PaymentStatusPaid).
		Updates(map[string]any{
			"razorpay_payment_id": paymentID,
			"razorpay_signature":  signature,
			"payment_status":      models.PaymentStatusPaid,
			"order_status":        models.OrderStatusProcessing,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepo) ActiveOrdersUsingAddress(ctx context.Context, addressID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("shipping_address_id = ?", addressID).
		Where("order_status NOT IN ?", []string{
			models.OrderStatusDelivered, models.OrderStatusCancelled, models.OrderStatusRefunded,
		}).
		Count(&n).Error
	return n, err
}

func (r *GormRepo) CreateReturnRequest(ctx context.Context, req *models.ReturnRequest) error {
	return r.DB.WithContext(ctx).Create(req).Error
}

func (r *GormRepo) OutstandingReturnForItem(ctx context.Context, orderItemID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.ReturnRequest{}).
		Where("order_item_id = ?", orderItemID).
		Where("status IN ?", []string{models.ReturnStatusRequested, models.ReturnStatusApproved}).
		Count(&n).Error
	return n > 0, err
}
