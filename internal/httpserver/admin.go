package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ardhiansyah/toko-api/internal/logging"
	"github.com/ardhiansyah/toko-api/internal/service"
)

// AdminHandler serves the HTML dashboard. Unlike the JSON API it answers
// its own errors with {status:"Failed", message} and a fixed 400, matching
// what the dashboard's forms expect.
type AdminHandler struct {
	Svc *service.AdminService
}

func adminError(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"status":  "Failed",
		"message": err.Error(),
	})
}

func (h *AdminHandler) CreatePage(c echo.Context) error {
	return c.Render(http.StatusOK, "create.html", nil)
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_product")

	input, err := bindCreateInput(c)
	if err != nil {
		l.Warn("admin_create_error", "status", 400, "error", err)
		return adminError(c, err)
	}
	if err := c.Validate(&input); err != nil {
		return adminError(c, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		l.Warn("admin_create_error", "status", 400, "reason", "image missing", "error", err)
		return adminError(c, err)
	}

	if _, err := h.Svc.CreateProduct(ctx, input, ActorFromContext(c), file); err != nil {
		return adminError(c, err)
	}

	return c.Redirect(http.StatusFound, "/dashboard/admin")
}

func (h *AdminHandler) FindProducts(c echo.Context) error {
	products, err := h.Svc.ListProducts(c.Request().Context())
	if err != nil {
		return adminError(c, err)
	}

	return c.Render(http.StatusOK, "index.html", echo.Map{"products": products})
}
