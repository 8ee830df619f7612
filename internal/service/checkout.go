package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aura-fashion/shop-backend/internal/gateway"
	"github.com/aura-fashion/shop-backend/internal/logging"
	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/aura-fashion/shop-backend/internal/mykafka"
	"github.com/aura-fashion/shop-backend/internal/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutConfig carries the pricing constants. Amounts are minor currency
// units; TaxPercent is an integer percentage of the subtotal.
type CheckoutConfig struct {
	ShippingFee           int64
	FreeShippingThreshold int64
	TaxPercent            int64
}

type CheckoutService struct {
	Repo     *repo.GormRepo
	Gateway  gateway.PaymentGateway
	Producer *mykafka.Producer
	Cfg      CheckoutConfig
}

type PlaceOrderInput struct {
	UserID            uint
	ShippingAddressID uint
	CouponCode        string
	PaymentMethod     string
}

type PlacedOrder struct {
	Order models.Order      `json:"order"`
	Items []models.OrderItem `json:"items"`

	// GatewayOrderID is set for online payment methods once the gateway-side
	// order exists. Empty when the gateway call failed; payment setup can be
	// retried without redoing checkout.
	GatewayOrderID string `json:"razorpay_order_id,omitempty"`
}

// stockTarget remembers which locked row a cart line consumes from.
type stockTarget struct {
	sizeID    *uint
	productID uint
	quantity  int64
}

// PlaceOrder runs the whole checkout inside one transaction: re-read stock
// rows under exclusive locks, re-check quantities, snapshot order items,
// decrement stock, clear the cart. Any failure rolls the whole thing back.
func (s *CheckoutService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*PlacedOrder, error) {
	switch in.PaymentMethod {
	case models.PaymentMethodCOD, models.PaymentMethodCard, models.PaymentMethodUPI:
	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, in.PaymentMethod)
	}

	if _, err := s.Repo.AddressForUser(ctx, in.ShippingAddressID, in.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: shipping address not found", ErrValidation)
		}
		return nil, err
	}

	var (
		order      models.Order
		orderItems []models.OrderItem
	)

	txErr := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.CartForUser(ctx, in.UserID)
		if err != nil {
			return err
		}
		cartItems, err := tx.CartItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return fmt.Errorf("%w: cart is empty", ErrValidation)
		}

		var (
			subtotal int64
			targets  []stockTarget
		)
		orderItems = orderItems[:0]

		for _, ci := range cartItems {
			priced, target, stock, err := lockStockRow(ctx, tx, ci)
			if err != nil {
				return err
			}
			if ci.Quantity > stock {
				return fmt.Errorf("%w: out of stock: %s", ErrConflict, priced.Title)
			}

			unit := priced.EffectivePrice()
			subtotal += unit * ci.Quantity
			targets = append(targets, target)

			item := models.OrderItem{
				ProductID:        ci.ProductID,
				SizeID:           ci.SizeID,
				VariantProductID: ci.VariantProductID,
				ProductName:      priced.Title,
				PriceAtPurchase:  unit,
				TaxAtPurchase:    priced.TaxPercent,
				Quantity:         ci.Quantity,
			}
			if ci.SizeID != nil {
				size, err := tx.ProductSizeByID(ctx, *ci.SizeID)
				if err != nil {
					return err
				}
				item.SelectedSize = size.Size
				item.VariantName = "Size: " + size.Size
			}
			if ci.VariantProductID != nil {
				item.VariantName = priced.Title
			}
			orderItems = append(orderItems, item)
		}

		shipping := s.shippingCost(subtotal)
		tax := subtotal * s.Cfg.TaxPercent / 100

		var (
			discount int64
			couponID *uint
		)
		if coupon := s.resolveCoupon(ctx, tx, in.CouponCode, subtotal); coupon != nil {
			discount = CouponDiscount(coupon, subtotal)
			couponID = &coupon.ID
			if err := tx.IncrementCouponUsage(ctx, coupon.ID); err != nil {
				return err
			}
		}

		total := subtotal + tax + shipping - discount
		if total < 0 {
			total = 0
		}

		orderStatus := models.OrderStatusPending
		if in.PaymentMethod == models.PaymentMethodCOD {
			// No gateway step; the order goes straight to fulfilment with
			// payment collected on delivery.
			orderStatus = models.OrderStatusProcessing
		}

		order = models.Order{
			ID:                uuid.New(),
			UserID:            in.UserID,
			ShippingAddressID: in.ShippingAddressID,
			TotalAmount:       total,
			TaxAmount:         tax,
			ShippingCost:      shipping,
			DiscountAmount:    discount,
			CouponID:          couponID,
			OrderStatus:       orderStatus,
			PaymentStatus:     models.PaymentStatusPending,
			PaymentMethod:     in.PaymentMethod,
		}
		if err := tx.CreateOrder(ctx, &order); err != nil {
			return err
		}

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := tx.CreateOrderItems(ctx, orderItems); err != nil {
			return err
		}

		for _, t := range targets {
			if t.sizeID != nil {
				err = tx.AdjustSizeStock(ctx, *t.sizeID, -t.quantity)
			} else {
				err = tx.AdjustProductStock(ctx, t.productID, -t.quantity)
			}
			if err != nil {
				return err
			}
		}

		return tx.ClearCart(ctx, cart.ID)
	})
	if txErr != nil {
		return nil, txErr
	}

	out := &PlacedOrder{Order: order, Items: orderItems}

	// Confirmation mail rides the event bus; delivery failure never touches
	// the committed order.
	if err := s.Producer.PublishEvent(ctx, topicOrderEvents, "order.created", map[string]any{
		"order_id":     order.ID.String(),
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
	}); err != nil {
		logging.FromContext(ctx).Warn("publish order event failed", "order_id", order.ID.String(), "error", err)
	}

	if in.PaymentMethod != models.PaymentMethodCOD && s.Gateway != nil {
		l := logging.FromContext(ctx).With("order_id", order.ID.String())
		gw, err := s.Gateway.CreateOrder(ctx, order.TotalAmount, order.ID.String())
		if err != nil {
			// The order stands; the client retries payment setup against it.
			l.Warn("gateway order create failed", "error", err)
			return out, nil
		}
		if err := s.Repo.SetRazorpayOrderID(ctx, order.ID, gw.ID); err != nil {
			l.Error("persist gateway order id failed", "razorpay_order_id", gw.ID, "error", err)
			return out, nil
		}
		order.RazorpayOrderID = gw.ID
		out.Order = order
		out.GatewayOrderID = gw.ID
	}

	return out, nil
}

// lockStockRow takes the exclusive lock on the stock-bearing row for one cart
// line and returns the product whose price applies (variant product when one
// is selected). The lock is always a fresh re-read, never a snapshot.
func lockStockRow(ctx context.Context, tx *repo.GormRepo, ci models.CartItem) (*models.Product, stockTarget, int64, error) {
	pricedID := ci.ProductID
	if ci.VariantProductID != nil {
		pricedID = *ci.VariantProductID
	}

	if ci.SizeID != nil {
		size, err := tx.LockProductSize(ctx, *ci.SizeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, stockTarget{}, 0, fmt.Errorf("%w: size no longer available", ErrValidation)
			}
			return nil, stockTarget{}, 0, err
		}
		priced, err := tx.ProductByID(ctx, pricedID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, stockTarget{}, 0, fmt.Errorf("%w: product not found", ErrValidation)
			}
			return nil, stockTarget{}, 0, err
		}
		return priced, stockTarget{sizeID: ci.SizeID, quantity: ci.Quantity}, size.StockCount, nil
	}

	priced, err := tx.LockProduct(ctx, pricedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, stockTarget{}, 0, fmt.Errorf("%w: product not found", ErrValidation)
		}
		return nil, stockTarget{}, 0, err
	}
	return priced, stockTarget{productID: pricedID, quantity: ci.Quantity}, priced.InventoryCount, nil
}

// shippingCost waives the flat fee strictly above the free-shipping threshold.
func (s *CheckoutService) shippingCost(subtotal int64) int64 {
	if subtotal > s.Cfg.FreeShippingThreshold {
		return 0
	}
	return s.Cfg.ShippingFee
}

// resolveCoupon locks the coupon row and checks validity, so a usage limit
// holds even when checkouts race on the same code. A missing or invalid code
// never fails the checkout; it simply applies no discount.
func (s *CheckoutService) resolveCoupon(ctx context.Context, tx *repo.GormRepo, code string, subtotal int64) *models.Coupon {
	if code == "" {
		return nil
	}
	coupon, err := tx.LockCouponByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logging.FromContext(ctx).Warn("coupon lookup failed", "code", code, "error", err)
		}
		return nil
	}
	if !coupon.IsValid(time.Now().UTC()) || subtotal < coupon.MinPurchaseAmount {
		return nil
	}
	return coupon
}

// CouponDiscount computes the discount a valid coupon grants on a subtotal:
// percentage when configured, flat amount otherwise, capped at the coupon's
// maximum discount.
func CouponDiscount(c *models.Coupon, subtotal int64) int64 {
	var discount int64
	if c.DiscountPercent > 0 {
		discount = subtotal * c.DiscountPercent / 100
	} else {
		discount = c.FlatDiscount
	}
	if c.MaxDiscountAmount > 0 && discount > c.MaxDiscountAmount {
		discount = c.MaxDiscountAmount
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
