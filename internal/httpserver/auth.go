package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ardhiansyah/toko-api/internal/apperr"
	"github.com/ardhiansyah/toko-api/internal/logging"
	"github.com/ardhiansyah/toko-api/internal/service"
	"github.com/ardhiansyah/toko-api/internal/transport"
)

type AuthHandler struct {
	Svc *service.AuthService
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return apperr.Validation("invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	auth, err := h.Svc.Register(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"status": "Success",
		"data": echo.Map{
			"email":   auth.Email,
			"newUser": auth.User,
		},
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return apperr.Validation("invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.Svc.Login(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "Success",
		"message": "Success login",
		"data":    token,
	})
}

// Authenticate answers with the identity the JWT middleware attached.
func (h *AuthHandler) Authenticate(c echo.Context) error {
	actor := ActorFromContext(c)
	return c.JSON(http.StatusOK, echo.Map{
		"status": "Success",
		"data":   echo.Map{"user": actor},
	})
}
