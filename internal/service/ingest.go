package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/geosense/measurement-api/internal/domain"
)

// IngestionService validates and persists measurement batches on behalf of
// an authenticated provider.
type IngestionService struct {
	repo domain.DataRepository
}

// NewIngestionService creates a new IngestionService.
func NewIngestionService(repo domain.DataRepository) *IngestionService {
	return &IngestionService{repo: repo}
}

// RecordMeasurements validates the batch and inserts it atomically. Any
// field violation rejects the entire request; nothing is persisted.
func (s *IngestionService) RecordMeasurements(ctx context.Context, provider *domain.Provider, req *domain.RecordMeasurementsRequest) (*domain.RecordMeasurementsResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	now := time.Now().UTC()
	batch := make([]domain.Measurement, 0, len(req.Measurements))
	for _, in := range req.Measurements {
		ts, err := time.Parse(time.RFC3339, in.Timestamp)
		if err != nil {
			return nil, domain.NewValidationError("timestamp", "must be a valid ISO-8601 timestamp")
		}
		batch = append(batch, domain.Measurement{
			ID:            uuid.NewString(),
			ProviderID:    provider.ID,
			Timestamp:     ts,
			Latitude:      *req.Location.Latitude,
			Longitude:     *req.Location.Longitude,
			Temperature:   in.Temperature,
			Humidity:      in.Humidity,
			Pressure:      in.Pressure,
			WindSpeed:     in.WindSpeed,
			WindDirection: in.WindDirection,
			CreatedAt:     now,
		})
	}

	if err := s.repo.InsertMeasurements(ctx, batch); err != nil {
		log.Error().Err(err).Str("provider_id", provider.ID).Int("batch_size", len(batch)).
			Msg("measurement batch insert failed")
		return nil, domain.ErrInternal
	}

	return &domain.RecordMeasurementsResult{
		Message:       fmt.Sprintf("%d measurements recorded", len(batch)),
		Provider:      provider.Name,
		RecordedCount: len(batch),
	}, nil
}
