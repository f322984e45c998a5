package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/geosense/measurement-api/internal/domain"
	"github.com/geosense/measurement-api/pkg/geo"
)

const (
	defaultQueryRadius  = 5.0
	defaultInterval     = "1m"
	defaultNearbyRadius = 10.0
)

// QueryService answers proximity measurement queries, serving repeated
// queries from the response cache.
type QueryService struct {
	repo  domain.DataRepository
	cache domain.ResponseCache
}

// NewQueryService creates a new QueryService.
func NewQueryService(repo domain.DataRepository, cache domain.ResponseCache) *QueryService {
	return &QueryService{repo: repo, cache: cache}
}

// MeasurementQuery carries the raw query parameters of GET /measurements.
type MeasurementQuery struct {
	Location  string
	Radius    string
	StartTime string
	EndTime   string
	Interval  string
}

// FindMeasurements validates the query, then serves the shaped response
// from cache or computes it from the store. Validation failures are
// reported before any cache or store access.
func (s *QueryService) FindMeasurements(ctx context.Context, q MeasurementQuery) (*domain.MeasurementQueryResponse, error) {
	if q.Location == "" || q.StartTime == "" || q.EndTime == "" {
		return nil, domain.ErrMissingParameters
	}

	lat, lon, err := parseLatLon(q.Location)
	if err != nil {
		return nil, err
	}

	start, err := parseTime(q.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseTime(q.EndTime)
	if err != nil {
		return nil, err
	}

	radius := defaultQueryRadius
	if q.Radius != "" {
		if r, err := strconv.ParseFloat(q.Radius, 64); err == nil {
			radius = r
		}
	}

	interval := q.Interval
	if interval == "" {
		interval = defaultInterval
	}

	key := buildCacheKey(lat, lon, radius, q.StartTime, q.EndTime, interval)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	records, err := s.repo.FindMeasurements(ctx, lat, lon, radius, start, end)
	if err != nil {
		log.Error().Err(err).Str("location", q.Location).Msg("measurement query failed")
		return nil, domain.ErrInternal
	}

	seen := make(map[string]struct{})
	for i := range records {
		records[i].Provider.Distance = geo.RoundDistance(records[i].Provider.Distance)
		seen[records[i].Provider.ID] = struct{}{}
	}

	resp := &domain.MeasurementQueryResponse{
		Location: domain.QueryLocation{
			Latitude:  lat,
			Longitude: lon,
			Radius:    radius,
		},
		Period: domain.Period{
			Start:    q.StartTime,
			End:      q.EndTime,
			Interval: interval,
		},
		Measurements:   records,
		TotalRecords:   len(records),
		ProvidersCount: len(seen),
	}

	s.cache.Set(key, resp)
	return resp, nil
}

// buildCacheKey concatenates every query-affecting parameter. Identical
// logical queries must map to identical keys.
func buildCacheKey(lat, lon, radius float64, start, end, interval string) string {
	return fmt.Sprintf("measurements_%v_%v_%v_%s_%s_%s", lat, lon, radius, start, end, interval)
}
