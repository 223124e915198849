package http

import (
	"errors"

	"github.com/dmitrijs2005/profilehub/internal/common"
	"github.com/dmitrijs2005/profilehub/internal/logging"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps an error to a response status and a message that is safe
// to show to the client.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, common.ErrorValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrInvalidPolarity):
		return fiber.StatusBadRequest, common.ErrInvalidPolarity.Error()
	case errors.Is(err, common.ErrMissingCredentials):
		return fiber.StatusUnauthorized, common.ErrMissingCredentials.Error()
	case errors.Is(err, common.ErrInvalidToken):
		return fiber.StatusUnauthorized, common.ErrInvalidToken.Error()
	case errors.Is(err, common.ErrUnauthenticated):
		return fiber.StatusUnauthorized, common.ErrUnauthenticated.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return fiber.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, common.ErrForbidden):
		return fiber.StatusForbidden, common.ErrForbidden.Error()
	case errors.Is(err, common.ErrAccountDisabled):
		return fiber.StatusForbidden, common.ErrAccountDisabled.Error()
	case errors.Is(err, common.ErrProfileNotFound):
		return fiber.StatusNotFound, common.ErrProfileNotFound.Error()
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound, common.ErrorNotFound.Error()
	case errors.Is(err, common.ErrReactionConflict):
		return fiber.StatusConflict, common.ErrReactionConflict.Error()
	case errors.Is(err, common.ErrorAlreadyExists):
		return fiber.StatusConflict, "user with this email or username already exists"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

func errorHandler(logger logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := statusFor(err)
		if code >= fiber.StatusInternalServerError {
			logger.Error(userContext(c), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}
