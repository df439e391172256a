package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"stockpulse-api/internal/models"
)

const (
	msgUpstream     = "Failed to fetch data from the market data provider. Please try again."
	msgAIService    = "The AI model could not process the request. This might be due to content restrictions or an issue with the AI service."
	msgInternal     = "Internal server error"
	msgNotFound     = "No data found for the requested symbol"
	msgRateLimited  = "Rate limit exceeded. Please try again later."
	msgInvalidInput = "Invalid request"
)

// statusFor maps an error kind to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidSymbol), errors.Is(err, models.ErrInvalidArgument):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrInsufficientData):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// errorBody builds the {error, details} payload. Transient and AI failures
// get generic messages; provider detail stays in the logs.
func errorBody(err error) models.ErrorResponse {
	var aiErr *models.AIServiceError
	switch {
	case errors.Is(err, models.ErrInvalidSymbol), errors.Is(err, models.ErrInvalidArgument):
		return models.ErrorResponse{Error: msgInvalidInput, Details: err.Error()}
	case errors.Is(err, models.ErrInsufficientData):
		return models.ErrorResponse{Error: err.Error()}
	case errors.Is(err, models.ErrNotFound):
		return models.ErrorResponse{Error: msgNotFound, Details: err.Error()}
	case errors.Is(err, models.ErrNotConfigured):
		return models.ErrorResponse{Error: err.Error()}
	case errors.As(err, &aiErr):
		return models.ErrorResponse{Error: msgAIService, Details: aiErr.Category}
	case errors.Is(err, models.ErrTransientUpstream):
		return models.ErrorResponse{Error: msgUpstream}
	default:
		return models.ErrorResponse{Error: msgInternal}
	}
}

// respondError writes err with its mapped status
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		c.Locals(localsErrorKey, err)
	}
	return c.Status(status).JSON(errorBody(err))
}

// CustomErrorHandler handles errors returned from handlers and Fiber itself
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	return respondError(c, err)
}
