package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/aura-fashion/shop-backend/internal/repo"
	"gorm.io/gorm"
)

type ReviewService struct {
	Repo *repo.GormRepo
}

type CreateReviewInput struct {
	UserID    uint
	ProductID uint
	Rating    int
	Title     string
	Comment   string
}

func (s *ReviewService) Create(ctx context.Context, in CreateReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if _, err := s.Repo.ProductByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product not found", ErrNotFound)
		}
		return nil, err
	}

	verified, err := s.Repo.HasPaidPurchase(ctx, in.UserID, in.ProductID)
	if err != nil {
		return nil, err
	}

	rev := &models.Review{
		ProductID:          in.ProductID,
		UserID:             in.UserID,
		Rating:             in.Rating,
		Title:              in.Title,
		Comment:            in.Comment,
		IsVerifiedPurchase: verified,
	}
	if err := s.Repo.CreateReview(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

func (s *ReviewService) ListForProduct(ctx context.Context, productID uint, offset, limit int) ([]models.Review, error) {
	return s.Repo.ReviewsForProduct(ctx, productID, offset, limit)
}

func (s *ReviewService) AddToWishlist(ctx context.Context, userID, productID uint) error {
	if _, err := s.Repo.ProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product not found", ErrNotFound)
		}
		return err
	}
	err := s.Repo.AddWishlistItem(ctx, &models.WishlistItem{UserID: userID, ProductID: productID})
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

func (s *ReviewService) Wishlist(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	return s.Repo.WishlistForUser(ctx, userID)
}

func (s *ReviewService) RemoveFromWishlist(ctx context.Context, userID, productID uint) error {
	return s.Repo.RemoveWishlistItem(ctx, userID, productID)
}
