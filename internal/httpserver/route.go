package httpserver

import (
	"net/http"

	middleware "github.com/aura-fashion/shop-backend/internal/middleware/auth"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	Auth      *AuthHTTP
	Addresses *AddressHTTP
	Catalog   *CatalogHTTP
	Cart      *CartHTTP
	Orders    *OrderHTTP
	Reviews   *ReviewHTTP
	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.New(d.JWTSecret)

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)
	auth.POST("/forgot_password", d.Auth.ForgotPassword)
	auth.POST("/reset_password", d.Auth.ResetPassword)
	auth.GET("/me", d.Auth.Me, authMW.RequireAuth)
	auth.PATCH("/me", d.Auth.UpdateMe, authMW.RequireAuth)

	products := v1.Group("/products")
	products.GET("", d.Catalog.ListProducts)
	products.GET("/:id", d.Catalog.GetProduct)

	v1.GET("/search", d.Catalog.SearchProducts)

	adminProducts := v1.Group("/admin/products", authMW.RequireAdmin)
	adminProducts.POST("", d.Catalog.CreateProduct)
	adminProducts.PATCH("/:id", d.Catalog.UpdateProduct)
	adminProducts.DELETE("/:id", d.Catalog.DeleteProduct)
	adminProducts.POST("/:id/sizes", d.Catalog.AddSize)

	cart := v1.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.Cart.Get)
	cart.POST("", d.Cart.Add)
	cart.POST("/update_item", d.Cart.UpdateQuantity)
	cart.DELETE("/:id", d.Cart.Remove)
	cart.DELETE("", d.Cart.Clear)

	addresses := v1.Group("/addresses", authMW.RequireAuth)
	addresses.GET("", d.Addresses.List)
	addresses.POST("", d.Addresses.Create)
	addresses.PATCH("/:id", d.Addresses.Update)
	addresses.DELETE("/:id", d.Addresses.Delete)

	orders := v1.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.Orders.Create)
	orders.GET("", d.Orders.List)
	orders.GET("/:id", d.Orders.Get)
	orders.POST("/:id/cancel", d.Orders.Cancel)
	orders.POST("/:id/verify_payment", d.Orders.VerifyPayment)
	orders.POST("/:id/request_return", d.Orders.RequestReturn)

	adminOrders := v1.Group("/admin/orders", authMW.RequireAdmin)
	adminOrders.PATCH("/:id/status", d.Orders.UpdateStatus)

	reviews := v1.Group("/reviews")
	reviews.GET("", d.Reviews.ListForProduct)
	reviews.POST("", d.Reviews.Create, authMW.RequireAuth)

	wishlist := v1.Group("/wishlist", authMW.RequireAuth)
	wishlist.GET("", d.Reviews.Wishlist)
	wishlist.POST("", d.Reviews.AddToWishlist)
	wishlist.DELETE("/:product_id", d.Reviews.RemoveFromWishlist)
}
