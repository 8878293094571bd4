package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"medmarket/internal/auth"
	"medmarket/internal/entity"
)

const principalContextKey = "principal"

// Middleware extracts the session token, verifies it through the
// codec and attaches the Principal to the request context.
type Middleware struct {
	codec *auth.TokenCodec
}

func NewMiddleware(codec *auth.TokenCodec) *Middleware {
	return &Middleware{codec: codec}
}

func (m *Middleware) config() echojwt.Config {
	return echojwt.Config{
		ContextKey:  principalContextKey,
		TokenLookup: "header:Authorization:Bearer ,cookie:jwt",
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			return m.codec.Verify(raw)
		},
	}
}

// RequireAuth rejects requests without a valid token.
func (m *Middleware) RequireAuth() echo.MiddlewareFunc {
	cfg := m.config()
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		if errors.Is(err, auth.ErrTokenExpired) {
			logger.Warn().Msg("Rejected expired token")
		} else {
			logger.Warn().Err(err).Msg("Rejected invalid token")
		}
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
	}
	return echojwt.WithConfig(cfg)
}

// TryAuth authenticates when a valid token is present and silently
// leaves the request unauthenticated otherwise. Used on public
// endpoints that behave differently for a logged-in caller.
func (m *Middleware) TryAuth() echo.MiddlewareFunc {
	cfg := m.config()
	cfg.ContinueOnIgnoredError = true
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		return nil
	}
	return echojwt.WithConfig(cfg)
}

// RequireAdmin composes RequireAuth with an admin role gate.
func (m *Middleware) RequireAdmin() echo.MiddlewareFunc {
	requireAuth := m.RequireAuth()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return requireAuth(func(c echo.Context) error {
			p, ok := principalFrom(c)
			if !ok || p.Role != entity.RoleAdmin {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied: admins only"})
			}
			return next(c)
		})
	}
}

// StoreTimeout bounds every store call made while handling the
// request; an exceeded deadline surfaces as 503.
func StoreTimeout(d time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), d)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func principalFrom(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalContextKey).(auth.Principal)
	return p, ok
}
