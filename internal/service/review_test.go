package service

import (
	"context"
	"testing"

	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestAddToWishlistDuplicateIsNoOp(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)
	product := seedProduct(t, r, 50000, 5)

	svc := &ReviewService{Repo: r}
	require.NoError(t, svc.AddToWishlist(context.Background(), user.ID, product.ID))
	require.NoError(t, svc.AddToWishlist(context.Background(), user.ID, product.ID))

	items, err := svc.Wishlist(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestAddToWishlistMissingProduct(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)

	svc := &ReviewService{Repo: r}
	err := svc.AddToWishlist(context.Background(), user.ID, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReviewVerifiedPurchaseBadge(t *testing.T) {
	r := InitTestDB(t)
	user := seedUser(t, r)
	addr := seedAddress(t, r, user.ID)
	product := seedProduct(t, r, 50000, 5)

	svc := &ReviewService{Repo: r}

	rev, err := svc.Create(context.Background(), CreateReviewInput{
		UserID:    user.ID,
		ProductID: product.ID,
		Rating:    4,
		Comment:   "fits well",
	})
	require.NoError(t, err)
	require.False(t, rev.IsVerifiedPurchase)

	order := seedOrder(t, r, user.ID, addr.ID, func(o *models.Order) {
		o.PaymentStatus = models.PaymentStatusPaid
	})
	seedOrderItem(t, r, order.ID, product.ID, 1)

	rev, err = svc.Create(context.Background(), CreateReviewInput{
		UserID:    user.ID,
		ProductID: product.ID,
		Rating:    5,
		Comment:   "still fits well",
	})
	require.NoError(t, err)
	require.True(t, rev.IsVerifiedPurchase)
}
