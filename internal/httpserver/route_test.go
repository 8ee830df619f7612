package httpserver

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestRegisterRouteSurface(t *testing.T) {
	e := echo.New()
	Register(e, &Deps{
		Auth:      &AuthHTTP{},
		Addresses: &AddressHTTP{},
		Catalog:   &CatalogHTTP{},
		Cart:      &CartHTTP{},
		Orders:    &OrderHTTP{},
		Reviews:   &ReviewHTTP{},
		JWTSecret: []byte("test"),
	})

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		http.MethodGet + " /health/live",
		http.MethodGet + " /health/ready",
		http.MethodPost + " /api/v1/auth/register",
		http.MethodPost + " /api/v1/auth/login",
		http.MethodPost + " /api/v1/auth/forgot_password",
		http.MethodPost + " /api/v1/auth/reset_password",
		http.MethodGet + " /api/v1/auth/me",
		http.MethodPatch + " /api/v1/auth/me",
		http.MethodGet + " /api/v1/products",
		http.MethodGet + " /api/v1/products/:id",
		http.MethodGet + " /api/v1/search",
		http.MethodGet + " /api/v1/cart",
		http.MethodPost + " /api/v1/cart",
		http.MethodPost + " /api/v1/cart/update_item",
		http.MethodDelete + " /api/v1/cart/:id",
		http.MethodPost + " /api/v1/orders",
		http.MethodGet + " /api/v1/orders/:id",
		http.MethodPost + " /api/v1/orders/:id/cancel",
		http.MethodPost + " /api/v1/orders/:id/request_return",
		http.MethodPost + " /api/v1/orders/:id/verify_payment",
		http.MethodPatch + " /api/v1/admin/orders/:id/status",
		http.MethodGet + " /api/v1/reviews",
		http.MethodPost + " /api/v1/reviews",
		http.MethodGet + " /api/v1/wishlist",
		http.MethodDelete + " /api/v1/wishlist/:product_id",
	} {
		require.True(t, registered[want], "route not registered: %s", want)
	}
}
