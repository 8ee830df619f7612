package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestCancelOrderRestocks(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)
	addr := seedAddress(t, r, user.ID)
	product := seedProduct(t, r, 50000, 3)
	order := seedOrder(t, r, user.ID, addr.ID, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusProcessing
	})
	seedOrderItem(t, r, order.ID, product.ID, 2)

	svc := &OrderService{Repo: r, ReturnWindow: 70 * time.Second}
	require.NoError(t, svc.CancelOrder(context.Background(), order.ID, user.ID))

	stored, err := r.OrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, stored.OrderStatus)

	p, err := r.ProductByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, int64(5), p.InventoryCount)
}

func TestCancelOrderOnlyProcessing(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)
	addr := seedAddress(t, r, user.ID)
	product := seedProduct(t, r, 50000, 3)
	order := seedOrder(t, r, user.ID, addr.ID, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusShipped
	})
	seedOrderItem(t, r, order.ID, product.ID, 2)

	svc := &OrderService{Repo: r, ReturnWindow: 70 * time.Second}
	err := svc.CancelOrder(context.Background(), order.ID, user.ID)
	require.ErrorIs(t, err, ErrConflict)

	p, err := r.ProductByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), p.InventoryCount)
}

func TestCancelOrderRestocksOnce(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)
	addr := seedAddress(t, r, user.ID)
	product := seedProduct(t, r, 50000, 3)
	order := seedOrder(t, r, user.ID, addr.ID, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusProcessing
	})
	seedOrderItem(t, r, order.ID, product.ID, 2)

	svc := &OrderService{Repo: r, ReturnWindow: 70 * time.Second}
	require.NoError(t, svc.CancelOrder(context.Background(), order.ID, user.ID))
	require.ErrorIs(t, svc.CancelOrder(context.Background(), order.ID, user.ID), ErrConflict)

	p, err := r.ProductByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, int64(5), p.InventoryCount)
}

func TestCancelOrderWrongUser(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)
	addr := seedAddress(t, r, user.ID)
	order := seedOrder(t, r, user.ID, addr.ID, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusProcessing
	})

	svc := &OrderService{Repo: r, ReturnWindow: 70 * time.Second}
	err := svc.CancelOrder(context.Background(), order.ID, user.ID+1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMarkDeliveredSetsTimestampAndPaid(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)
	addr := seedAddress(t, r, user.ID)
	order := seedOrder(t, r, user.ID, addr.ID, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusShipped
		o.PaymentMethod = models.PaymentMethodCOD
	})

	svc := &OrderService{Repo: r, ReturnWindow: 70 * time.Second}
	require.NoError(t, svc.MarkDelivered(context.Background(), order.ID))

	stored, err := r.OrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusDelivered, stored.OrderStatus)
	require.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	require.NotNil(t, stored.DeliveredAt)

	// Second delivery attempt must not move the anchor timestamp.
	first := *stored.DeliveredAt
	require.ErrorIs(t, svc.MarkDelivered(context.Background(), order.ID), ErrConflict)

	again, err := r.OrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, first.Unix(), again.DeliveredAt.Unix())
}

func TestMarkDeliveredNotShippedWritesNothing(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)
	addr := seedAddress(t, r, user.ID)
	order := seedOrder(t, r, user.ID, addr.ID, nil)

	svc := &OrderService{Repo: r, ReturnWindow: 70 * time.Second}
	require.ErrorIs(t, svc.MarkDelivered(context.Background(), order.ID), ErrConflict)

	// The guard and the field writes travel in one statement, so a rejected
	// transition must leave every field untouched.
	stored, err := r.OrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPending, stored.OrderStatus)
	require.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
	require.Nil(t, stored.DeliveredAt)
}

func TestMarkShippedRequiresProcessing(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)
	addr := seedAddress(t, r, user.ID)
	order := seedOrder(t, r, user.ID, addr.ID, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusProcessing
	})

	svc := &OrderService{Repo: r, ReturnWindow: 70 * time.Second}
	require.NoError(t, svc.MarkShipped(context.Background(), order.ID, "TRK-1001"))

	stored, err := r.OrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusShipped, stored.OrderStatus)
	require.Equal(t, "TRK-1001", stored.TrackingNumber)

	require.ErrorIs(t, svc.MarkShipped(context.Background(), order.ID, "TRK-1002"), ErrConflict)
}

func TestRequestReturnWithinWindow(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)
	addr := seedAddress(t, r, user.ID)
	product := seedProduct(t, r, 50000, 3)
	order := seedOrder(t, r, user.ID, addr.ID, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusDelivered
		o.DeliveredAt = timePtr(time.Now().UTC().Add(-30 * time.Second))
	})
	item := seedOrderItem(t, r, order.ID, product.ID, 1)

	svc := &OrderService{Repo: r, ReturnWindow: 70 * time.Second}
	ret, err := svc.RequestReturn(context.Background(), ReturnRequestInput{
		OrderID:     order.ID,
		OrderItemID: item.ID,
		UserID:      user.ID,
		Reason:      "wrong size",
	})
	require.NoError(t, err)
	require.Equal(t, models.ReturnStatusRequested, ret.Status)
	require.Equal(t, item.ID, ret.OrderItemID)
}

func TestRequestReturnWindowExpired(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)
	addr := seedAddress(t, r, user.ID)
	product := seedProduct(t, r, 50000, 3)
	order := seedOrder(t, r, user.ID, addr.ID, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusDelivered
		o.DeliveredAt = timePtr(time.Now().UTC().Add(-71 * time.Second))
	})
	item := seedOrderItem(t, r, order.ID, product.ID, 1)

	svc := &OrderService{Repo: r, ReturnWindow: 70 * time.Second}
	_, err := svc.RequestReturn(context.Background(), ReturnRequestInput{
		OrderID:     order.ID,
		OrderItemID: item.ID,
		UserID:      user.ID,
		Reason:      "wrong size",
	})
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), "return window expired")
}

func TestRequestReturnRequiresDelivered(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)
	addr := seedAddress(t, r, user.ID)
	product := seedProduct(t, r, 50000, 3)
	order := seedOrder(t, r, user.ID, addr.ID, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusShipped
	})
	item := seedOrderItem(t, r, order.ID, product.ID, 1)

	svc := &OrderService{Repo: r, ReturnWindow: 70 * time.Second}
	_, err := svc.RequestReturn(context.Background(), ReturnRequestInput{
		OrderID:     order.ID,
		OrderItemID: item.ID,
		UserID:      user.ID,
		Reason:      "wrong size",
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestRequestReturnDuplicate(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)
	addr := seedAddress(t, r, user.ID)
	product := seedProduct(t, r, 50000, 3)
	order := seedOrder(t, r, user.ID, addr.ID, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusDelivered
		o.DeliveredAt = timePtr(time.Now().UTC())
	})
	item := seedOrderItem(t, r, order.ID, product.ID, 1)

	svc := &OrderService{Repo: r, ReturnWindow: 70 * time.Second}
	in := ReturnRequestInput{
		OrderID:     order.ID,
		OrderItemID: item.ID,
		UserID:      user.ID,
		Reason:      "wrong size",
	}

	_, err := svc.RequestReturn(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.RequestReturn(context.Background(), in)
	require.ErrorIs(t, err, ErrConflict)
}

func TestRequestReturnItemFromOtherOrder(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)
	addr := seedAddress(t, r, user.ID)
	product := seedProduct(t, r, 50000, 3)
	order := seedOrder(t, r, user.ID, addr.ID, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusDelivered
		o.DeliveredAt = timePtr(time.Now().UTC())
	})
	other := seedOrder(t, r, user.ID, addr.ID, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusDelivered
		o.DeliveredAt = timePtr(time.Now().UTC())
	})
	foreignItem := seedOrderItem(t, r, other.ID, product.ID, 1)

	svc := &OrderService{Repo: r, ReturnWindow: 70 * time.Second}
	_, err := svc.RequestReturn(context.Background(), ReturnRequestInput{
		OrderID:     order.ID,
		OrderItemID: foreignItem.ID,
		UserID:      user.ID,
		Reason:      "wrong size",
	})
	require.ErrorIs(t, err, ErrValidation)
	require.False(t, errors.Is(err, ErrNotFound))
}
