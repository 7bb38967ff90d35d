package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/ardhiansyah/toko-api/internal/logging"
	"github.com/ardhiansyah/toko-api/internal/repo"
	"github.com/ardhiansyah/toko-api/internal/tokens"
	"github.com/ardhiansyah/toko-api/internal/transport"
)

const actorKey = "actor"

func JWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningMethod: "HS256",
		SigningKey:    secret,
		ContextKey:    "token",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &tokens.SessionClaims{}
		},
	})
}

// ActorMiddleware turns verified token claims into the request actor. The
// shop id is not embedded in the token, so the user row is loaded to get it.
type ActorMiddleware struct {
	Repo *repo.GormRepo
}

func (m *ActorMiddleware) Attach(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("token").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}
		claims, ok := token.Claims.(*tokens.SessionClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}

		user, err := m.Repo.GetUser(c.Request().Context(), claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
		}

		c.Set(actorKey, transport.Actor{
			ID:       claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
			Email:    claims.Email,
			ShopID:   user.ShopID,
		})
		return next(c)
	}
}

func ActorFromContext(c echo.Context) transport.Actor {
	if a, ok := c.Get(actorKey).(transport.Actor); ok {
		return a
	}
	return transport.Actor{}
}

func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !ActorFromContext(c).IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		return next(c)
	}
}

// RequestLogger attaches a request-scoped logger to the context and logs
// one line per completed request.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)

			l := base.With(
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}

			req := c.Request().WithContext(logging.IntoContext(c.Request().Context(), l))
			c.SetRequest(req)

			start := time.Now()
			err := next(c)
			dur := time.Since(start)
			status := c.Response().Status

			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
				status = c.Response().Status
			}

			switch {
			case status >= 500:
				l.Error("request completed", "status", status, "duration_ms", dur.Milliseconds(), "error", errStr(err))
			case status >= 400:
				l.Warn("request completed", "status", status, "duration_ms", dur.Milliseconds())
			default:
				l.Info("request completed", "status", status, "duration_ms", dur.Milliseconds(), "bytes", c.Response().Size)
			}
			return nil
		}
	}
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}
