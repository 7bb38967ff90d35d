package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Deps struct {
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	AdminHandler   *AdminHandler
	Actor          *ActorMiddleware
	JWTSecret      []byte
	Logger         *slog.Logger
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Validator = NewValidator()
	e.Renderer = NewRenderer()

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), RequestLogger(d.Logger))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	jwtmw := JWTMiddleware(d.JWTSecret)

	v1 := e.Group("/api/v1")

	v1.POST("/auth/register", d.AuthHandler.Register)
	v1.POST("/auth/login", d.AuthHandler.Login)

	me := v1.Group("/auth/me", jwtmw, d.Actor.Attach)
	me.GET("", d.AuthHandler.Authenticate)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.FindProducts)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.FindProductByID)

	mutate := v1.Group("/products", jwtmw, d.Actor.Attach)
	mutate.POST("", d.ProductHandler.CreateProduct)
	mutate.PATCH("/:id", d.ProductHandler.UpdateProduct)
	mutate.DELETE("/:id", d.ProductHandler.DeleteProduct)

	dashboard := e.Group("/dashboard/admin", jwtmw, d.Actor.Attach, AdminOnly)
	dashboard.GET("", d.AdminHandler.FindProducts)
	dashboard.GET("/create", d.AdminHandler.CreatePage)
	dashboard.POST("/create", d.AdminHandler.CreateProduct)
}
