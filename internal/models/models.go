package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

const (
	PaymentMethodCOD  = "COD"
	PaymentMethodCard = "CARD"
	PaymentMethodUPI  = "UPI"
)

const (
	ProductTypeSimple   = "simple"
	ProductTypeVariable = "variable"
)

const (
	ReturnStatusRequested = "requested"
	ReturnStatusApproved  = "approved"
	ReturnStatusRejected  = "rejected"
	ReturnStatusCompleted = "completed"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type Address struct {
	ID          uint      `gorm:"primaryKey"     json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	FullName    string    `gorm:"not null"       json:"full_name"`
	Phone       string    `json:"phone"`
	Line1       string    `gorm:"not null"       json:"address_line_1"`
	Line2       string    `json:"address_line_2"`
	City        string    `gorm:"not null"       json:"city"`
	State       string    `json:"state"`
	Pincode     string    `json:"pincode"`
	Country     string    `gorm:"default:India"  json:"country"`
	AddressType string    `gorm:"default:home"   json:"address_type"`
	IsDefault   bool      `gorm:"default:false"  json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

// All monetary fields in this package are int64 minor currency units (paise).
type Product struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title          string    `gorm:"not null"                 json:"title"`
	Slug           string    `gorm:"uniqueIndex"              json:"slug"`
	SKU            string    `gorm:"uniqueIndex"              json:"sku"`
	Description    string    `json:"description"`
	Price          int64     `gorm:"not null"                 json:"price"`
	DiscountPrice  int64     `gorm:"default:0"                json:"discount_price"`
	TaxPercent     int64     `gorm:"default:18"               json:"tax_percent"`
	ProductType    string    `gorm:"not null;default:simple"  json:"product_type"`
	InventoryCount int64     `gorm:"default:0"                json:"inventory_count"`
	IsActive       bool      `gorm:"default:true"             json:"is_active"`
	IsFeatured     bool      `gorm:"default:false"            json:"is_featured"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EffectivePrice is the discount price when set, the list price otherwise.
func (p *Product) EffectivePrice() int64 {
	if p.DiscountPrice > 0 {
		return p.DiscountPrice
	}
	return p.Price
}

type ProductSize struct {
	ID         uint   `gorm:"primaryKey"                            json:"id"`
	ProductID  uint   `gorm:"not null;uniqueIndex:idx_product_size" json:"product_id"`
	Size       string `gorm:"not null;uniqueIndex:idx_product_size" json:"size"`
	StockCount int64  `gorm:"default:0"                             json:"stock_count"`
	IsActive   bool   `gorm:"default:true"                          json:"is_active"`
	SortOrder  int    `gorm:"default:0"                             json:"sort_order"`
}

type Cart struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CartItem struct {
	ID               uint      `gorm:"primaryKey"                 json:"id"`
	CartID           uint      `gorm:"index;not null"             json:"cart_id"`
	ProductID        uint      `gorm:"not null"                   json:"product_id"`
	SizeID           *uint     `json:"size_id"`
	VariantProductID *uint     `json:"variant_product_id"`
	Quantity         int64     `gorm:"default:1;check:quantity>0" json:"quantity"`
	AddedAt          time.Time `gorm:"autoCreateTime"             json:"added_at"`
}

type Coupon struct {
	ID                uint      `gorm:"primaryKey"           json:"id"`
	Code              string    `gorm:"uniqueIndex;not null" json:"code"`
	Description       string    `json:"description"`
	DiscountPercent   int64     `gorm:"default:0"            json:"discount_percent"`
	FlatDiscount      int64     `gorm:"default:0"            json:"flat_discount"`
	MinPurchaseAmount int64     `gorm:"default:0"            json:"min_purchase_amount"`
	MaxDiscountAmount int64     `gorm:"default:0"            json:"max_discount_amount"`
	ValidFrom         time.Time `json:"valid_from"`
	ValidTo           time.Time `json:"valid_to"`
	Active            bool      `gorm:"default:true"         json:"active"`
	UsageLimit        int64     `gorm:"default:1000"         json:"usage_limit"`
	UsedCount         int64     `gorm:"default:0"            json:"used_count"`
}

// IsValid is a pure function of the supplied clock and the coupon's counters.
func (c *Coupon) IsValid(now time.Time) bool {
	return c.Active &&
		!now.Before(c.ValidFrom) && !now.After(c.ValidTo) &&
		c.UsedCount < c.UsageLimit
}

type Order struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID            uint       `gorm:"index;not null"           json:"user_id"`
	ShippingAddressID uint       `gorm:"not null"                 json:"shipping_address_id"`
	TotalAmount       int64      `gorm:"not null"                 json:"total_amount"`
	TaxAmount         int64      `gorm:"default:0"                json:"tax_amount"`
	ShippingCost      int64      `gorm:"default:0"                json:"shipping_cost"`
	DiscountAmount    int64      `gorm:"default:0"                json:"discount_amount"`
	CouponID          *uint      `json:"coupon_id"`
	OrderStatus       string     `gorm:"not null;default:pending" json:"order_status"`
	PaymentStatus     string     `gorm:"not null;default:pending" json:"payment_status"`
	PaymentMethod     string     `gorm:"not null;default:CARD"    json:"payment_method"`
	RazorpayOrderID   string     `json:"razorpay_order_id"`
	RazorpayPaymentID string     `json:"razorpay_payment_id"`
	RazorpaySignature string     `json:"-"`
	TrackingNumber    string     `json:"tracking_number"`
	DeliveredAt       *time.Time `json:"delivered_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Terminal statuses release the hold an order keeps on its shipping address.
func (o *Order) IsTerminal() bool {
	switch o.OrderStatus {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// OrderItem is a point-of-purchase snapshot. Name, size label and prices are
// copied at checkout and must never follow later product edits.
type OrderItem struct {
	ID               uint      `gorm:"primaryKey"                 json:"id"`
	OrderID          uuid.UUID `gorm:"type:uuid;index;not null"   json:"order_id"`
	ProductID        uint      `gorm:"not null"                   json:"product_id"`
	SizeID           *uint     `json:"size_id"`
	VariantProductID *uint     `json:"variant_product_id"`
	ProductName      string    `gorm:"not null"                   json:"product_name"`
	VariantName      string    `json:"variant_name"`
	SelectedSize     string    `json:"selected_size"`
	PriceAtPurchase  int64     `gorm:"not null"                   json:"price_at_purchase"`
	TaxAtPurchase    int64     `gorm:"default:0"                  json:"tax_at_purchase"`
	Quantity         int64     `gorm:"default:1;check:quantity>0" json:"quantity"`
}

type Review struct {
	ID                 uint      `gorm:"primaryKey"     json:"id"`
	ProductID          uint      `gorm:"index;not null" json:"product_id"`
	UserID             uint      `gorm:"index;not null" json:"user_id"`
	OrderItemID        *uint     `json:"order_item_id"`
	Rating             int       `gorm:"not null"       json:"rating"`
	Title              string    `json:"title"`
	Comment            string    `json:"comment"`
	IsVerifiedPurchase bool      `gorm:"default:false"  json:"is_verified_purchase"`
	HelpfulVotes       int64     `gorm:"default:0"      json:"helpful_votes"`
	CreatedAt          time.Time `json:"created_at"`
}

type WishlistItem struct {
	ID        uint      `gorm:"primaryKey"                                     json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"product_id"`
	AddedAt   time.Time `gorm:"autoCreateTime"                                 json:"added_at"`
}

type ReturnRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;index;not null"   json:"order_id"`
	OrderItemID uint      `gorm:"index;not null"             json:"order_item_id"`
	UserID      uint      `gorm:"index;not null"             json:"user_id"`
	Reason      string    `gorm:"not null"                   json:"reason"`
	Status      string    `gorm:"not null;default:requested" json:"status"`
	AdminNotes  string    `json:"admin_notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Address{},
		&Product{}, &ProductSize{},
		&Cart{}, &CartItem{}, &Coupon{},
		&Order{}, &OrderItem{},
		&Review{}, &WishlistItem{}, &ReturnRequest{},
	}
}
