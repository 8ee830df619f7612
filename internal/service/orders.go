package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/aura-fashion/shop-backend/internal/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderService struct {
	Repo         *repo.GormRepo
	ReturnWindow time.Duration
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint, offset, limit int) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID, offset, limit)
}

type OrderDetail struct {
	Order models.Order       `json:"order"`
	Items []models.OrderItem `json:"items"`
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID, userID uint) (*OrderDetail, error) {
	order, err := s.Repo.OrderForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return nil, err
	}
	items, err := s.Repo.OrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: *order, Items: items}, nil
}

// CancelOrder cancels a processing order and puts its stock back. The status
// flip is conditional, so two concurrent cancels restock exactly once.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID, userID uint) error {
	order, err := s.Repo.OrderForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return err
	}

	return s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		moved, err := tx.TransitionOrderStatus(ctx, orderID,
			models.OrderStatusProcessing, models.OrderStatusCancelled)
		if err != nil {
			return err
		}
		if !moved {
			return fmt.Errorf("%w: order is %s and cannot be cancelled",
				ErrConflict, order.OrderStatus)
		}

		items, err := tx.OrderItems(ctx, orderID)
		if err != nil {
			return err
		}
		return restock(ctx, tx, items)
	})
}

func restock(ctx context.Context, tx *repo.GormRepo, items []models.OrderItem) error {
	for _, it := range items {
		var err error
		switch {
		case it.SizeID != nil:
			err = tx.AdjustSizeStock(ctx, *it.SizeID, it.Quantity)
		case it.VariantProductID != nil:
			err = tx.AdjustProductStock(ctx, *it.VariantProductID, it.Quantity)
		default:
			err = tx.AdjustProductStock(ctx, it.ProductID, it.Quantity)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// MarkShipped is the admin transition processing -> shipped, recording the
// carrier tracking number in the same statement.
func (s *OrderService) MarkShipped(ctx context.Context, orderID uuid.UUID, trackingNumber string) error {
	fields := map[string]any{}
	if trackingNumber != "" {
		fields["tracking_number"] = trackingNumber
	}
	moved, err := s.Repo.TransitionOrderWith(ctx, orderID,
		models.OrderStatusProcessing, models.OrderStatusShipped, fields)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("%w: order is not processing", ErrConflict)
	}
	return nil
}

// MarkDelivered moves shipped -> delivered and stamps delivered_at exactly
// once; the timestamp anchors the return window. COD orders become paid on
// delivery. One conditional statement: a delivered order can never be missing
// its timestamp.
func (s *OrderService) MarkDelivered(ctx context.Context, orderID uuid.UUID) error {
	moved, err := s.Repo.TransitionOrderWith(ctx, orderID,
		models.OrderStatusShipped, models.OrderStatusDelivered, map[string]any{
			"delivered_at":   time.Now().UTC(),
			"payment_status": models.PaymentStatusPaid,
		})
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("%w: order is not shipped", ErrConflict)
	}
	return nil
}

type ReturnRequestInput struct {
	OrderID     uuid.UUID
	OrderItemID uint
	UserID      uint
	Reason      string
}

// RequestReturn opens a return for one delivered order item. The window is
// measured from delivered_at, and an item can carry at most one open return.
func (s *OrderService) RequestReturn(ctx context.Context, in ReturnRequestInput) (*models.ReturnRequest, error) {
	if in.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrValidation)
	}

	order, err := s.Repo.OrderForUser(ctx, in.OrderID, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return nil, err
	}
	if order.OrderStatus != models.OrderStatusDelivered || order.DeliveredAt == nil {
		return nil, fmt.Errorf("%w: only delivered orders can be returned", ErrValidation)
	}
	if time.Since(*order.DeliveredAt) > s.ReturnWindow {
		return nil, fmt.Errorf("%w: return window expired", ErrValidation)
	}

	item, err := s.Repo.OrderItemByID(ctx, in.OrderItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order item not found", ErrNotFound)
		}
		return nil, err
	}
	if item.OrderID != in.OrderID {
		return nil, fmt.Errorf("%w: item does not belong to this order", ErrValidation)
	}

	open, err := s.Repo.OutstandingReturnForItem(ctx, in.OrderItemID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, fmt.Errorf("%w: a return for this item is already open", ErrConflict)
	}

	req := &models.ReturnRequest{
		ID:          uuid.New(),
		OrderID:     in.OrderID,
		OrderItemID: in.OrderItemID,
		UserID:      in.UserID,
		Reason:      in.Reason,
		Status:      models.ReturnStatusRequested,
	}
	if err := s.Repo.CreateReturnRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}
