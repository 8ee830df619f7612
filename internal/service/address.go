package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/aura-fashion/shop-backend/internal/repo"
	"gorm.io/gorm"
)

type AddressService struct {
	Repo *repo.GormRepo
}

func (s *AddressService) List(ctx context.Context, userID uint) ([]models.Address, error) {
	return s.Repo.Addresses(ctx, userID)
}

func (s *AddressService) Create(ctx context.Context, a *models.Address) error {
	if a.FullName == "" || a.Line1 == "" || a.City == "" {
		return fmt.Errorf("%w: full name, address line and city are required", ErrValidation)
	}
	if a.IsDefault {
		if err := s.Repo.ClearDefaultAddresses(ctx, a.UserID); err != nil {
			return err
		}
	}
	return s.Repo.CreateAddress(ctx, a)
}

func (s *AddressService) Update(ctx context.Context, a *models.Address) error {
	existing, err := s.Repo.AddressForUser(ctx, a.ID, a.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: address not found", ErrNotFound)
		}
		return err
	}
	if a.IsDefault && !existing.IsDefault {
		if err := s.Repo.ClearDefaultAddresses(ctx, a.UserID); err != nil {
			return err
		}
	}
	a.CreatedAt = existing.CreatedAt
	return s.Repo.SaveAddress(ctx, a)
}

// Delete refuses while any non-terminal order still ships to the address.
func (s *AddressService) Delete(ctx context.Context, userID, addressID uint) error {
	if _, err := s.Repo.AddressForUser(ctx, addressID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: address not found", ErrNotFound)
		}
		return err
	}
	n, err := s.Repo.ActiveOrdersUsingAddress(ctx, addressID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: address is used by %d active orders", ErrConflict, n)
	}
	return s.Repo.DeleteAddress(ctx, addressID)
}
