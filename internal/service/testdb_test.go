package service

import (
	"testing"
	"time"

	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/aura-fashion/shop-backend/internal/repo"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func InitTestDB(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return repo.New(db)
}

func seedUser(t *testing.T, r *repo.GormRepo) *models.User {
	t.Helper()
	u := &models.User{
		Email:        "buyer@example.com",
		PasswordHash: "x",
		Role:         "user",
	}
	if err := r.DB.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedAddress(t *testing.T, r *repo.GormRepo, userID uint) *models.Address {
	t.Helper()
	a := &models.Address{
		UserID:   userID,
		FullName: "Test Buyer",
		Line1:    "1 MG Road",
		City:     "Bengaluru",
	}
	if err := r.DB.Create(a).Error; err != nil {
		t.Fatalf("seed address: %v", err)
	}
	return a
}

func seedProduct(t *testing.T, r *repo.GormRepo, price, stock int64) *models.Product {
	t.Helper()
	p := &models.Product{
		Title:          "Linen Shirt",
		Slug:           uuid.New().String(),
		SKU:            uuid.New().String(),
		Price:          price,
		InventoryCount: stock,
		IsActive:       true,
		ProductType:    models.ProductTypeSimple,
	}
	if err := r.DB.Create(p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func seedOrder(t *testing.T, r *repo.GormRepo, userID, addressID uint, mutate func(*models.Order)) *models.Order {
	t.Helper()
	o := &models.Order{
		ID:                uuid.New(),
		UserID:            userID,
		ShippingAddressID: addressID,
		TotalAmount:       127900,
		TaxAmount:         18000,
		ShippingCost:      9900,
		OrderStatus:       models.OrderStatusPending,
		PaymentStatus:     models.PaymentStatusPending,
		PaymentMethod:     models.PaymentMethodCard,
		RazorpayOrderID:   "order_test123",
	}
	if mutate != nil {
		mutate(o)
	}
	if err := r.DB.Create(o).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return o
}

func seedOrderItem(t *testing.T, r *repo.GormRepo, orderID uuid.UUID, productID uint, qty int64) *models.OrderItem {
	t.Helper()
	it := &models.OrderItem{
		OrderID:         orderID,
		ProductID:       productID,
		ProductName:     "Linen Shirt",
		PriceAtPurchase: 50000,
		Quantity:        qty,
	}
	if err := r.DB.Create(it).Error; err != nil {
		t.Fatalf("seed order item: %v", err)
	}
	return it
}

func timePtr(v time.Time) *time.Time { return &v }
