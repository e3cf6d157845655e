package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/pillpal/pillpal/internal/handlers"
	"github.com/pillpal/pillpal/internal/middleware/sessions"
	"github.com/pillpal/pillpal/internal/service/token"
	"github.com/pillpal/pillpal/internal/session"
)

type Deps struct {
	Sessions         *session.Registry
	AuthHandler      *handlers.AuthHandler
	CatalogHandler   *handlers.CatalogHandler
	CartHandler      *handlers.CartHandler
	AdminHandler     *handlers.AdminHandler
	RecommendHandler *handlers.RecommendHandler
	SearchHandler    *handlers.SearchHandler
	TokenService     *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1", sessions.Middleware(d.Sessions))

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)
	v1.PATCH("/profile", d.AuthHandler.UpdateProfile, d.TokenService.AutoRefreshMiddleware)

	v1.GET("/medicines", d.CatalogHandler.GetMedicines)
	v1.GET("/medicines/:id", d.CatalogHandler.GetMedicine)
	v1.GET("/categories", d.CatalogHandler.GetCategories)
	v1.GET("/search", d.SearchHandler.Search)
	v1.POST("/recommendations", d.RecommendHandler.Recommend)

	cart := v1.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("/:id", d.CartHandler.UpdateQuantity)
	cart.DELETE("/:id", d.CartHandler.RemoveFromCart)
	cart.POST("/order", d.CartHandler.MakeOrder, d.TokenService.AutoRefreshMiddleware)

	admin := v1.Group("/admin", d.TokenService.AutoRefreshMiddlewareAdmin)
	admin.POST("/products", d.CatalogHandler.CreateMedicine)
	admin.PATCH("/products/:id", d.CatalogHandler.PatchMedicine)
	admin.DELETE("/products/:id", d.CatalogHandler.DeleteMedicine)
	admin.GET("/orders", d.AdminHandler.GetOrders)
	admin.GET("/users", d.AdminHandler.GetUsers)
	admin.GET("/reports/sales", d.AdminHandler.GetSalesReport)
}
