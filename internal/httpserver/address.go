package httpserver

import (
	"net/http"

	"github.com/aura-fashion/shop-backend/internal/logging"
	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/aura-fashion/shop-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type AddressHTTP struct {
	Svc *service.AddressService
}

func (h *AddressHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	out, err := h.Svc.List(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("list_addresses_error", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AddressHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.create")

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var a models.Address
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	a.ID = 0
	a.UserID = userID

	if err := h.Svc.Create(ctx, &a); err != nil {
		l.Warn("create_address_error", "error", err)
		return httpError(err)
	}

	l.Info("create_address_success", "address_id", a.ID)
	return c.JSON(http.StatusCreated, a)
}

func (h *AddressHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.update")

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := paramUint(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var a models.Address
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	a.ID = id
	a.UserID = userID

	if err := h.Svc.Update(ctx, &a); err != nil {
		l.Warn("update_address_error", "address_id", id, "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AddressHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.delete")

	userID, err := GetID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := paramUint(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.Delete(ctx, userID, id); err != nil {
		l.Warn("delete_address_error", "address_id", id, "error", err)
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
