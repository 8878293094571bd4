package api

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"medmarket/internal/auth"
	"medmarket/internal/repository"
	"medmarket/internal/service"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// writeError maps domain errors to HTTP responses. Store internals
// are never detailed to the caller.
func writeError(c echo.Context, err error) error {
	var deny *auth.DenyError

	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidStock),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrEmptyUpdate),
		errors.Is(err, service.ErrFeedbackTargetUnset),
		errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, auth.ErrEmptyPassword):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})

	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})

	case errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrTokenInvalid):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})

	case errors.As(err, &deny):
		logger.Warn().Str("reason", string(deny.Reason)).Msg("Access denied")
		return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})

	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})

	case errors.Is(err, repository.ErrDuplicateEmail):
		return c.JSON(http.StatusConflict, map[string]string{"error": "email already exists"})

	case errors.Is(err, service.ErrDuplicateCheckout):
		return c.JSON(http.StatusConflict, map[string]string{"error": "duplicate checkout request"})

	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "store unavailable"})
	}

	logger.Error().Err(err).Msg("Unhandled error")
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
}

// maskNotOwner converts an ownership denial into not-found for read
// endpoints that must not reveal whether the resource exists. The
// internal reason is logged first for auditing.
func maskNotOwner(err error) error {
	var deny *auth.DenyError
	if errors.As(err, &deny) && deny.Reason == auth.ReasonNotOwner {
		logger.Warn().Str("reason", string(deny.Reason)).Msg("Masking ownership denial as not found")
		return repository.ErrNotFound
	}
	return err
}
