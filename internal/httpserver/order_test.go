package httpserver

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/aura-fashion/shop-backend/internal/gateway"
	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/aura-fashion/shop-backend/internal/repo"
	"github.com/aura-fashion/shop-backend/internal/service"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test_secret"

type stubGateway struct {
	payment *gateway.Payment
}

func (s *stubGateway) CreateOrder(ctx context.Context, amount int64, receipt string) (*gateway.GatewayOrder, error) {
	return &gateway.GatewayOrder{ID: "order_stub", Amount: amount}, nil
}

func (s *stubGateway) FetchPayment(ctx context.Context, paymentID string) (*gateway.Payment, error) {
	return s.payment, nil
}

func (s *stubGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil)) == signature
}

func signPayment(gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func initOrderTest(t *testing.T) (*repo.GormRepo, *models.Order, uint) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	r := repo.New(db)

	user := &models.User{Email: "buyer@example.com", PasswordHash: "x", Role: "user"}
	require.NoError(t, db.Create(user).Error)
	addr := &models.Address{UserID: user.ID, FullName: "Buyer", Line1: "1 MG Road", City: "Bengaluru"}
	require.NoError(t, db.Create(addr).Error)

	order := &models.Order{
		ID:                uuid.New(),
		UserID:            user.ID,
		ShippingAddressID: addr.ID,
		TotalAmount:       127900,
		OrderStatus:       models.OrderStatusPending,
		PaymentStatus:     models.PaymentStatusPending,
		PaymentMethod:     models.PaymentMethodCard,
		RazorpayOrderID:   "order_stub",
	}
	require.NoError(t, db.Create(order).Error)

	return r, order, user.ID
}

func verifyPaymentContext(t *testing.T, order *models.Order, userID uint, body map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(order.ID.String())
	c.Set("user_id", strconv.FormatUint(uint64(userID), 10))
	return c, rec
}

func TestVerifyPaymentEndpoint(t *testing.T) {
	r, order, userID := initOrderTest(t)

	h := &OrderHTTP{
		Payments: &service.PaymentService{
			Repo: r,
			Gateway: &stubGateway{payment: &gateway.Payment{
				ID:      "pay_1",
				Amount:  order.TotalAmount,
				Status:  gateway.StatusCaptured,
				OrderID: order.RazorpayOrderID,
			}},
		},
	}

	c, rec := verifyPaymentContext(t, order, userID, map[string]string{
		"razorpay_order_id":   order.RazorpayOrderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  signPayment(order.RazorpayOrderID, "pay_1"),
	})
	require.NoError(t, h.VerifyPayment(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Paid   bool   `json:"paid"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Paid)
	require.Equal(t, "paid", resp.Status)

	stored, err := r.OrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
}

func TestVerifyPaymentEndpointBadSignature(t *testing.T) {
	r, order, userID := initOrderTest(t)

	h := &OrderHTTP{
		Payments: &service.PaymentService{
			Repo: r,
			Gateway: &stubGateway{payment: &gateway.Payment{
				ID:      "pay_1",
				Amount:  order.TotalAmount,
				Status:  gateway.StatusCaptured,
				OrderID: order.RazorpayOrderID,
			}},
		},
	}

	c, rec := verifyPaymentContext(t, order, userID, map[string]string{
		"razorpay_order_id":   order.RazorpayOrderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "forged",
	})
	require.NoError(t, h.VerifyPayment(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	stored, err := r.OrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
}

func TestVerifyPaymentEndpointMissingFields(t *testing.T) {
	_, order, userID := initOrderTest(t)

	h := &OrderHTTP{Payments: &service.PaymentService{}}

	c, _ := verifyPaymentContext(t, order, userID, map[string]string{
		"razorpay_order_id": order.RazorpayOrderID,
	})
	err := h.VerifyPayment(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestVerifyPaymentEndpointForeignOrder(t *testing.T) {
	r, order, userID := initOrderTest(t)

	h := &OrderHTTP{Payments: &service.PaymentService{Repo: r}}

	c, _ := verifyPaymentContext(t, order, userID+1, map[string]string{
		"razorpay_order_id":   order.RazorpayOrderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  signPayment(order.RazorpayOrderID, "pay_1"),
	})
	err := h.VerifyPayment(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Code)
}
