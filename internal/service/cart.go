package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/aura-fashion/shop-backend/internal/repo"
	"gorm.io/gorm"
)

type CartService struct {
	Repo *repo.GormRepo
}

type AddToCartInput struct {
	UserID           uint
	ProductID        uint
	SizeID           *uint
	VariantProductID *uint
	Quantity         int64
}

// CartView is the cart with each line joined to its current product data.
// Line prices here are live; they only become fixed at checkout.
type CartView struct {
	CartID uint       `json:"cart_id"`
	Items  []CartLine `json:"items"`
	Total  int64      `json:"total"`
}

type CartLine struct {
	ID          uint   `json:"id"`
	ProductID   uint   `json:"product_id"`
	Title       string `json:"title"`
	Size        string `json:"size,omitempty"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int64  `json:"quantity"`
	LineTotal   int64  `json:"line_total"`
	InStock     bool   `json:"in_stock"`
	StockAvail  int64  `json:"stock_available"`
}

func (s *CartService) Get(ctx context.Context, userID uint) (*CartView, error) {
	cart, err := s.Repo.CartForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.CartItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	view := &CartView{CartID: cart.ID, Items: make([]CartLine, 0, len(items))}
	for _, it := range items {
		priced, stock, size, err := s.lineState(ctx, it)
		if err != nil {
			return nil, err
		}
		line := CartLine{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Title:      priced.Title,
			Size:       size,
			UnitPrice:  priced.EffectivePrice(),
			Quantity:   it.Quantity,
			InStock:    stock >= it.Quantity,
			StockAvail: stock,
		}
		line.LineTotal = line.UnitPrice * line.Quantity
		view.Total += line.LineTotal
		view.Items = append(view.Items, line)
	}
	return view, nil
}

func (s *CartService) Add(ctx context.Context, in AddToCartInput) (*models.CartItem, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	product, err := s.Repo.ProductByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product not found", ErrNotFound)
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("%w: product is not available", ErrValidation)
	}
	if product.ProductType == models.ProductTypeVariable && in.SizeID == nil && in.VariantProductID == nil {
		return nil, fmt.Errorf("%w: a size or variant must be selected", ErrValidation)
	}
	if in.SizeID != nil {
		size, err := s.Repo.ProductSizeByID(ctx, *in.SizeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: size not found", ErrValidation)
			}
			return nil, err
		}
		if size.ProductID != in.ProductID {
			return nil, fmt.Errorf("%w: size does not belong to this product", ErrValidation)
		}
	}

	cart, err := s.Repo.CartForUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	item := &models.CartItem{
		CartID:           cart.ID,
		ProductID:        in.ProductID,
		SizeID:           in.SizeID,
		VariantProductID: in.VariantProductID,
		Quantity:         in.Quantity,
	}
	if err := s.checkStockLimit(ctx, *item, in.Quantity); err != nil {
		return nil, err
	}
	if err := s.Repo.AddCartItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int64) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	item, err := s.Repo.CartItemForUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart item not found", ErrNotFound)
		}
		return nil, err
	}

	if err := s.checkStockLimit(ctx, *item, quantity); err != nil {
		return nil, err
	}
	if err := s.Repo.SetCartItemQuantity(ctx, itemID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, itemID uint) error {
	if _, err := s.Repo.CartItemForUser(ctx, itemID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: cart item not found", ErrNotFound)
		}
		return err
	}
	return s.Repo.RemoveCartItem(ctx, itemID)
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	cart, err := s.Repo.CartForUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.Repo.ClearCart(ctx, cart.ID)
}

// checkStockLimit rejects a requested quantity above the current stock of the
// line's pool. Advisory only: checkout re-checks under a row lock.
func (s *CartService) checkStockLimit(ctx context.Context, item models.CartItem, quantity int64) error {
	_, stock, _, err := s.lineState(ctx, item)
	if err != nil {
		return err
	}
	if quantity > stock {
		return fmt.Errorf("%w: only %d units available", ErrValidation, stock)
	}
	return nil
}

// lineState resolves the product whose price applies, the stock of the pool
// the line draws from, and the size label if any.
func (s *CartService) lineState(ctx context.Context, item models.CartItem) (*models.Product, int64, string, error) {
	pricedID := item.ProductID
	if item.VariantProductID != nil {
		pricedID = *item.VariantProductID
	}
	priced, err := s.Repo.ProductByID(ctx, pricedID)
	if err != nil {
		return nil, 0, "", err
	}

	if item.SizeID != nil {
		size, err := s.Repo.ProductSizeByID(ctx, *item.SizeID)
		if err != nil {
			return nil, 0, "", err
		}
		return priced, size.StockCount, size.Size, nil
	}
	return priced, priced.InventoryCount, "", nil
}
