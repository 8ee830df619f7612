package httpserver

import (
	"net/http"

	"github.com/aura-fashion/shop-backend/internal/logging"
	"github.com/aura-fashion/shop-backend/internal/service"
	"github.com/aura-fashion/shop-backend/internal/util"
	"github.com/labstack/echo/v4"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		ProductID uint   `json:"product_id"`
		Rating    int    `json:"rating"`
		Title     string `json:"title"`
		Comment   string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	rev, err := h.Svc.Create(ctx, service.CreateReviewInput{
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
	})
	if err != nil {
		l.Warn("create_review_error", "product_id", req.ProductID, "error", err)
		return httpError(err)
	}

	l.Info("create_review_success", "review_id", rev.ID)
	return c.JSON(http.StatusCreated, rev)
}

func (h *ReviewHTTP) ListForProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := queryUint(c, "product_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	out, err := h.Svc.ListForProduct(ctx, productID, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("list_reviews_error", "product_id", productID, "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHTTP) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.AddToWishlist(ctx, userID, req.ProductID); err != nil {
		l.Warn("add_wishlist_error", "product_id", req.ProductID, "error", err)
		return httpError(err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *ReviewHTTP) Wishlist(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	out, err := h.Svc.Wishlist(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("get_wishlist_error", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHTTP) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	productID, err := paramUint(c, "product_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.RemoveFromWishlist(ctx, userID, productID); err != nil {
		logging.FromContext(ctx).Error("remove_wishlist_error", "product_id", productID, "error", err)
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
