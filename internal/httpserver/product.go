package httpserver

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ardhiansyah/toko-api/internal/apperr"
	"github.com/ardhiansyah/toko-api/internal/logging"
	"github.com/ardhiansyah/toko-api/internal/service"
	"github.com/ardhiansyah/toko-api/internal/transport"
	"github.com/ardhiansyah/toko-api/internal/util"
)

type ProductHandler struct {
	Svc *service.ProductService
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperr.Validation("id is not an integer")
	}
	return uint(id), nil
}

// bindCreateInput reads the multipart form fields of a product create.
func bindCreateInput(c echo.Context) (transport.CreateProductInput, error) {
	var input transport.CreateProductInput
	input.Name = c.FormValue("name")

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return input, apperr.Validation("price must be a number")
	}
	input.Price = price

	stock, err := strconv.ParseUint(c.FormValue("stock"), 10, 32)
	if err != nil {
		return input, apperr.Validation("stock must be a non-negative integer")
	}
	input.Stock = uint(stock)

	if v := c.FormValue("shopId"); v != "" {
		shopID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return input, apperr.Validation("shopId must be an integer")
		}
		id := uint(shopID)
		input.ShopID = &id
	}
	return input, nil
}

func formFiles(c echo.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	input, err := bindCreateInput(c)
	if err != nil {
		l.Warn("product_create_error", "status", 400, "error", err)
		return err
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	prod, err := h.Svc.CreateProduct(ctx, input, ActorFromContext(c), formFiles(c, "images"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "Success",
		"data":   echo.Map{"newProduct": prod},
	})
}

func (h *ProductHandler) FindProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	list, err := h.Svc.FindProducts(ctx, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "Success",
		"data":   list,
	})
}

func (h *ProductHandler) FindProductByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	prod, err := h.Svc.FindProductByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "Success",
		"data":   echo.Map{"product": prod},
	})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "invalid body", "error", err)
		return apperr.Validation("invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.Svc.UpdateProduct(ctx, id, req, ActorFromContext(c)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "Success",
		"message": "Success update product",
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteProduct(c.Request().Context(), id, ActorFromContext(c)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "Success",
		"message": "Success delete product",
	})
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return apperr.Validation("query error")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	total, products, err := h.Svc.SearchProducts(c.Request().Context(), q, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}
