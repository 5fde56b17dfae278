package serverutils

import (
	"errors"

	"synaptiq-be/internal/apperror"
	"synaptiq-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler maps service errors to HTTP responses. Validation and
// not-found errors surface their message; parse and upstream failures
// hide the detail behind a generic message and get logged instead.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			message := appErr.Message
			if appErr.Kind == apperror.KindParse || appErr.Kind == apperror.KindUpstream {
				log.Error("http", "request failed", map[string]interface{}{
					"path":  ctx.Path(),
					"kind":  string(appErr.Kind),
					"error": appErr.Error(),
				})
				message = "the request could not be completed"
			}
			return ctx.Status(appErr.Code).JSON(ErrorResponse(message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		log.Error("http", "unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}
