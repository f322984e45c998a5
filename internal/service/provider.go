package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/geosense/measurement-api/internal/domain"
	"github.com/geosense/measurement-api/pkg/geo"
)

// ProviderService handles provider registration and nearby lookups.
type ProviderService struct {
	repo domain.DataRepository
}

// NewProviderService creates a new ProviderService.
func NewProviderService(repo domain.DataRepository) *ProviderService {
	return &ProviderService{repo: repo}
}

// Register validates the request, issues a new identity and credential,
// and persists the provider as active. The credential is a v4 UUID backed
// by crypto/rand and is returned to the caller exactly once.
func (s *ProviderService) Register(ctx context.Context, req *domain.RegisterProviderRequest) (*domain.RegisterProviderResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	p := &domain.Provider{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		Latitude:     *req.Location.Latitude,
		Longitude:    *req.Location.Longitude,
		Address:      req.Location.Address,
		ContactEmail: req.Contact,
		APIKey:       uuid.NewString(),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateProvider(ctx, p); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("provider registration failed")
		return nil, domain.ErrInternal
	}

	return &domain.RegisterProviderResult{
		ID:      p.ID,
		APIKey:  p.APIKey,
		Message: "Provider registered successfully",
	}, nil
}

// FindNearby returns active providers within the radius of the location,
// sorted by distance ascending with distances rounded to two decimals.
func (s *ProviderService) FindNearby(ctx context.Context, location, radiusParam string) ([]domain.NearbyProvider, error) {
	if location == "" {
		return nil, domain.ErrMissingLocation
	}

	lat, lon, err := parseLatLon(location)
	if err != nil {
		return nil, err
	}

	radius := defaultNearbyRadius
	if radiusParam != "" {
		if r, err := strconv.ParseFloat(radiusParam, 64); err == nil {
			radius = r
		}
	}

	providers, err := s.repo.FindNearbyProviders(ctx, lat, lon, radius)
	if err != nil {
		log.Error().Err(err).Str("location", location).Msg("nearby provider query failed")
		return nil, domain.ErrInternal
	}

	for i := range providers {
		providers[i].Distance = geo.RoundDistance(providers[i].Distance)
	}
	return providers, nil
}

// Authenticate resolves a bearer credential to an active provider.
func (s *ProviderService) Authenticate(ctx context.Context, apiKey string) (*domain.Provider, error) {
	p, err := s.repo.FindProviderByAPIKey(ctx, apiKey)
	if errors.Is(err, domain.ErrProviderNotFound) {
		return nil, domain.ErrInvalidAPIKey
	}
	if err != nil {
		log.Error().Err(err).Msg("api key lookup failed")
		return nil, domain.ErrInternal
	}
	return p, nil
}
