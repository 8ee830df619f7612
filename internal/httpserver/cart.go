package httpserver

import (
	"net/http"

	"github.com/aura-fashion/shop-backend/internal/logging"
	"github.com/aura-fashion/shop-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type CartHTTP struct {
	Svc *service.CartService
}

type addToCartRequest struct {
	ProductID        uint  `json:"product_id"`
	SizeID           *uint `json:"size_id"`
	VariantProductID *uint `json:"variant_product_id"`
	Quantity         int64 `json:"quantity"`
}

func (h *CartHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	view, err := h.Svc.Get(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("get_cart_error", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.Svc.Add(ctx, service.AddToCartInput{
		UserID:           userID,
		ProductID:        req.ProductID,
		SizeID:           req.SizeID,
		VariantProductID: req.VariantProductID,
		Quantity:         req.Quantity,
	})
	if err != nil {
		l.Warn("add_to_cart_error", "product_id", req.ProductID, "error", err)
		return httpError(err)
	}

	l.Info("add_to_cart_success", "product_id", req.ProductID)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		ItemID   uint  `json:"item_id"`
		Quantity int64 `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateQuantity(ctx, userID, req.ItemID, req.Quantity)
	if err != nil {
		l.Warn("update_quantity_error", "item_id", req.ItemID, "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	itemID, err := paramUint(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.Remove(ctx, userID, itemID); err != nil {
		l.Warn("remove_cart_item_error", "item_id", itemID, "error", err)
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.Clear(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("clear_cart_error", "error", err)
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
