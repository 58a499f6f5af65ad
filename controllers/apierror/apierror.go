// Package apierror maps the ledger error taxonomy to HTTP statuses so every
// controller answers the same way for the same failure.
package apierror

import (
	"errors"

	"artist-booking/services/ledger"

	"github.com/gofiber/fiber/v2"
)

// StatusOf returns the HTTP status and client message for a service error.
func StatusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return fiber.StatusNotFound, "Resource not found"
	case errors.Is(err, ledger.ErrForbidden):
		return fiber.StatusForbidden, "You are not allowed to perform this action"
	case errors.Is(err, ledger.ErrInvalidState):
		return fiber.StatusConflict, "Operation not allowed in the current state"
	case errors.Is(err, ledger.ErrConflict):
		return fiber.StatusConflict, "A conflicting record already exists"
	case errors.Is(err, ledger.ErrExpired):
		return fiber.StatusGone, "The quote validity window has passed"
	case errors.Is(err, ledger.ErrInvalidAmount):
		return fiber.StatusUnprocessableEntity, "Amount does not match the expected value"
	case errors.Is(err, ledger.ErrUnavailable):
		return fiber.StatusServiceUnavailable, "Service temporarily unavailable, try again"
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}
