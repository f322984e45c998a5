package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/geosense/measurement-api/internal/domain"
	"github.com/geosense/measurement-api/internal/service"
)

// Handler contains all HTTP handlers.
type Handler struct {
	querySvc    *service.QueryService
	ingestSvc   *service.IngestionService
	providerSvc *service.ProviderService
	weather     *service.OpenWeatherClient
	repo        domain.DataRepository
}

// NewHandler creates a new handler. weather may be nil when no
// OpenWeather key is configured; location search then reports not found.
func NewHandler(
	querySvc *service.QueryService,
	ingestSvc *service.IngestionService,
	providerSvc *service.ProviderService,
	weather *service.OpenWeatherClient,
	repo domain.DataRepository,
) *Handler {
	return &Handler{
		querySvc:    querySvc,
		ingestSvc:   ingestSvc,
		providerSvc: providerSvc,
		weather:     weather,
		repo:        repo,
	}
}

// HealthCheck returns service liveness.
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetMeasurements serves the proximity measurement query.
func (h *Handler) GetMeasurements(c *fiber.Ctx) error {
	q := service.MeasurementQuery{
		Location:  c.Query("location"),
		Radius:    c.Query("radius"),
		StartTime: c.Query("start_time"),
		EndTime:   c.Query("end_time"),
		Interval:  c.Query("interval"),
	}

	resp, err := h.querySvc.FindMeasurements(c.Context(), q)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, resp)
}

// RecordMeasurements ingests a batch for the authenticated provider.
func (h *Handler) RecordMeasurements(c *fiber.Ctx) error {
	provider, ok := c.Locals(providerKey).(*domain.Provider)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req domain.RecordMeasurementsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("body", "must be a valid JSON document")
	}

	result, err := h.ingestSvc.RecordMeasurements(c.Context(), provider, &req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, result)
}

// RegisterProvider registers a new data provider.
func (h *Handler) RegisterProvider(c *fiber.Ctx) error {
	var req domain.RegisterProviderRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("body", "must be a valid JSON document")
	}

	result, err := h.providerSvc.Register(c.Context(), &req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, result)
}

// GetNearbyProviders lists active providers near a location.
func (h *Handler) GetNearbyProviders(c *fiber.Ctx) error {
	providers, err := h.providerSvc.FindNearby(c.Context(), c.Query("location"), c.Query("radius"))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, fiber.Map{"providers": providers})
}

// GetMetrics lists the supported metric definitions.
func (h *Handler) GetMetrics(c *fiber.Ctx) error {
	metrics, err := h.repo.ListActiveMetrics(c.Context())
	if err != nil {
		return domain.ErrInternal
	}
	return success(c, fiber.StatusOK, fiber.Map{"available_metrics": metrics})
}

// SearchLocations resolves a place name to coordinates.
func (h *Handler) SearchLocations(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return domain.ErrMissingQuery
	}
	if h.weather == nil {
		return domain.ErrLocationNotFound
	}

	cond, err := h.weather.SearchLocation(c.Context(), query)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, fiber.Map{
		"locations": []fiber.Map{{
			"name":      cond.Name,
			"latitude":  cond.Latitude,
			"longitude": cond.Longitude,
			"country":   cond.Country,
		}},
	})
}

// success renders the response envelope for a successful request.
func success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}
