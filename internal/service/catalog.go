package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aura-fashion/shop-backend/internal/logging"
	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/aura-fashion/shop-backend/internal/mykafka"
	"github.com/aura-fashion/shop-backend/internal/repo"
	"github.com/aura-fashion/shop-backend/internal/search"
	"gorm.io/gorm"
)

const topicProductEvents = "product-events"

type CatalogService struct {
	Repo     *repo.GormRepo
	Search   *search.Client
	Producer *mykafka.Producer
}

type ProductDetail struct {
	Product models.Product       `json:"product"`
	Sizes   []models.ProductSize `json:"sizes"`
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*ProductDetail, error) {
	p, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product not found", ErrNotFound)
		}
		return nil, err
	}
	sizes, err := s.Repo.SizesForProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: *p, Sizes: sizes}, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	return s.Repo.Products(ctx, offset, limit)
}

// SearchProducts goes through elasticsearch when it is configured and falls
// back to a plain listing otherwise.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, offset, limit int) ([]models.Product, int64, error) {
	if s.Search == nil || query == "" {
		return s.Repo.Products(ctx, offset, limit)
	}
	total, items, err := s.Search.Search(ctx, query, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Warn("search fell back to listing", "error", err)
		return s.Repo.Products(ctx, offset, limit)
	}
	return items, total, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.Title == "" || p.Price <= 0 {
		return fmt.Errorf("%w: title and a positive price are required", ErrValidation)
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.syncIndex(ctx, p)
	s.publish(ctx, "product.created", p)
	return nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *models.Product) error {
	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return err
	}
	s.syncIndex(ctx, p)
	s.publish(ctx, "product.updated", p)
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("deindex product failed", "product_id", id, "error", err)
		}
	}
	s.publish(ctx, "product.deleted", map[string]any{"product_id": id})
	return nil
}

func (s *CatalogService) AddSize(ctx context.Context, size *models.ProductSize) error {
	if size.Size == "" {
		return fmt.Errorf("%w: size label is required", ErrValidation)
	}
	if _, err := s.Repo.ProductByID(ctx, size.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product not found", ErrNotFound)
		}
		return err
	}
	return s.Repo.CreateProductSize(ctx, size)
}

func (s *CatalogService) syncIndex(ctx context.Context, p *models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("index product failed", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) publish(ctx context.Context, key string, event any) {
	if err := s.Producer.PublishEvent(ctx, topicProductEvents, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish product event failed", "key", key, "error", err)
	}
}
