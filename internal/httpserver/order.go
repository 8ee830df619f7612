package httpserver

import (
	"errors"
	"net/http"

	"github.com/aura-fashion/shop-backend/internal/logging"
	"github.com/aura-fashion/shop-backend/internal/service"
	"github.com/aura-fashion/shop-backend/internal/util"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type OrderHTTP struct {
	Checkout *service.CheckoutService
	Orders   *service.OrderService
	Payments *service.PaymentService
}

type createOrderRequest struct {
	ShippingAddressID uint   `json:"shipping_address_id"`
	CouponCode        string `json:"coupon_code"`
	PaymentMethod     string `json:"payment_method"`
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func orderIDParam(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	placed, err := h.Checkout.PlaceOrder(ctx, service.PlaceOrderInput{
		UserID:            userID,
		ShippingAddressID: req.ShippingAddressID,
		CouponCode:        req.CouponCode,
		PaymentMethod:     req.PaymentMethod,
	})
	if err != nil {
		l.Warn("create_order_error", "error", err)
		return httpError(err)
	}

	l.Info("create_order_success",
		"order_id", placed.Order.ID.String(), "total", placed.Order.TotalAmount)
	return c.JSON(http.StatusCreated, placed)
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Orders.ListOrders(ctx, userID, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("list_orders_error", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := orderIDParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	out, err := h.Orders.GetOrder(ctx, orderID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := orderIDParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Orders.CancelOrder(ctx, orderID, userID); err != nil {
		l.Warn("cancel_order_error", "order_id", orderID.String(), "error", err)
		return httpError(err)
	}

	l.Info("cancel_order_success", "order_id", orderID.String())
	return c.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
}

// VerifyPayment is the client callback after the gateway checkout step. The
// response carries `paid` plus a status string describing the verdict.
func (h *OrderHTTP) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.verify_payment")

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := orderIDParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req verifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing payment fields")
	}

	order, err := h.Payments.Repo.OrderForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("verify_payment_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	paid, status := h.Payments.VerifyAndApply(ctx, order, service.VerifyPaymentInput{
		GatewayOrderID: req.RazorpayOrderID,
		PaymentID:      req.RazorpayPaymentID,
		Signature:      req.RazorpaySignature,
	})

	code := http.StatusOK
	if !paid {
		code = http.StatusBadRequest
	}
	return c.JSON(code, map[string]any{
		"paid":   paid,
		"status": status,
		"order":  order,
	})
}

func (h *OrderHTTP) RequestReturn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.request_return")

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := orderIDParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		OrderItemID uint   `json:"order_item_id"`
		Reason      string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ret, err := h.Orders.RequestReturn(ctx, service.ReturnRequestInput{
		OrderID:     orderID,
		OrderItemID: req.OrderItemID,
		UserID:      userID,
		Reason:      req.Reason,
	})
	if err != nil {
		l.Warn("request_return_error", "order_id", orderID.String(), "error", err)
		return httpError(err)
	}

	l.Info("request_return_success", "return_id", ret.ID.String())
	return c.JSON(http.StatusCreated, ret)
}

// UpdateStatus is the admin transition endpoint: ship with a tracking number,
// or mark delivered.
func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	orderID, err := orderIDParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Status         string `json:"status"`
		TrackingNumber string `json:"tracking_number"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	switch req.Status {
	case "shipped":
		err = h.Orders.MarkShipped(ctx, orderID, req.TrackingNumber)
	case "delivered":
		err = h.Orders.MarkDelivered(ctx, orderID)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported status")
	}
	if err != nil {
		l.Warn("update_status_error", "order_id", orderID.String(), "status", req.Status, "error", err)
		return httpError(err)
	}

	l.Info("update_status_success", "order_id", orderID.String(), "status", req.Status)
	return c.JSON(http.StatusOK, map[string]string{"status": req.Status})
}
