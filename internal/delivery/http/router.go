package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/geosense/measurement-api/internal/domain"
	"github.com/geosense/measurement-api/internal/service"
)

// SetupRoutes configures all HTTP routes.
func SetupRoutes(app *fiber.App, h *Handler, providerSvc *service.ProviderService) {
	api := app.Group("/api/v1")
	{
		api.Get("/health", h.HealthCheck)
		api.Get("/measurements", h.GetMeasurements)
		api.Post("/measurements", APIKeyAuth(providerSvc), h.RecordMeasurements)
		api.Post("/providers", h.RegisterProvider)
		api.Get("/providers/nearby", h.GetNearbyProviders)
		api.Get("/metrics", h.GetMetrics)
		api.Get("/locations/search", h.SearchLocations)
	}
}

// ErrorHandler renders every error as the standard envelope. Domain errors
// keep their code and status; anything else becomes a 500 INTERNAL_ERROR
// with the detail logged server-side only.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Status).JSON(fiber.Map{
			"status": "error",
			"error":  apiErr,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"status": "error",
			"error": fiber.Map{
				"code":    "BAD_REQUEST",
				"message": fiberErr.Message,
			},
		})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status": "error",
		"error":  domain.ErrInternal,
	})
}
