package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/geosense/measurement-api/internal/domain"
	"github.com/geosense/measurement-api/internal/service"
)

// providerKey is the locals key under which the authenticated provider is
// stored for downstream handlers.
const providerKey = "provider"

// APIKeyAuth resolves the bearer token to an active provider before the
// request reaches the handler.
func APIKeyAuth(providerSvc *service.ProviderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return domain.ErrUnauthorized
		}

		apiKey := strings.TrimPrefix(header, "Bearer ")
		provider, err := providerSvc.Authenticate(c.Context(), apiKey)
		if err != nil {
			return err
		}

		c.Locals(providerKey, provider)
		return c.Next()
	}
}
