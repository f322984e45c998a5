package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/geosense/measurement-api/internal/domain"
	"github.com/geosense/measurement-api/pkg/geo"
)

// Repository implements domain.DataRepository with in-memory storage.
// It backs the server when no database is configured and the test suite.
type Repository struct {
	mu           sync.RWMutex
	providers    map[string]*domain.Provider
	measurements []domain.Measurement
	metrics      []domain.Metric
}

// NewRepository creates an empty in-memory repository seeded with the
// standard metric definitions.
func NewRepository() *Repository {
	return &Repository{
		providers: make(map[string]*domain.Provider),
		metrics: []domain.Metric{
			{Name: "temperature", Unit: "°C", Description: "Air temperature"},
			{Name: "humidity", Unit: "%", Description: "Relative humidity"},
			{Name: "pressure", Unit: "hPa", Description: "Atmospheric pressure"},
			{Name: "wind_speed", Unit: "m/s", Description: "Wind speed"},
			{Name: "wind_direction", Unit: "°", Description: "Wind direction"},
		},
	}
}

// CreateProvider stores a new provider.
func (r *Repository) CreateProvider(ctx context.Context, p *domain.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *p
	r.providers[p.ID] = &cp
	return nil
}

// FindProviderByAPIKey scans for an active provider holding the key.
func (r *Repository) FindProviderByAPIKey(ctx context.Context, apiKey string) (*domain.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.APIKey == apiKey && p.IsActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrProviderNotFound
}

// FindNearbyProviders returns active providers within radius miles,
// ordered by distance ascending.
func (r *Repository) FindNearbyProviders(ctx context.Context, lat, lon, radius float64) ([]domain.NearbyProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]domain.NearbyProvider, 0)
	for _, p := range r.providers {
		if !p.IsActive {
			continue
		}
		d := geo.Distance(p.Latitude, p.Longitude, lat, lon)
		if d > radius {
			continue
		}
		results = append(results, domain.NearbyProvider{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Location: domain.LocationInfo{
				Latitude:  p.Latitude,
				Longitude: p.Longitude,
				Address:   p.Address,
			},
			Distance: d,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	return results, nil
}

// InsertMeasurements appends the whole batch under one lock, so the
// all-or-nothing guarantee holds trivially.
func (r *Repository) InsertMeasurements(ctx context.Context, batch []domain.Measurement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.measurements = append(r.measurements, batch...)
	return nil
}

// FindMeasurements filters by time window (inclusive) and provider
// distance, ordered by timestamp ascending.
func (r *Repository) FindMeasurements(ctx context.Context, lat, lon, radius float64, start, end time.Time) ([]domain.MeasurementRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]domain.MeasurementRecord, 0)
	for i := range r.measurements {
		m := &r.measurements[i]
		if m.Timestamp.Before(start) || m.Timestamp.After(end) {
			continue
		}
		p, ok := r.providers[m.ProviderID]
		if !ok {
			continue
		}
		d := geo.Distance(p.Latitude, p.Longitude, lat, lon)
		if d > radius {
			continue
		}
		results = append(results, domain.MeasurementRecord{
			Timestamp:     m.Timestamp,
			Temperature:   m.Temperature,
			Humidity:      m.Humidity,
			Pressure:      m.Pressure,
			WindSpeed:     m.WindSpeed,
			WindDirection: m.WindDirection,
			Provider: domain.ProviderRef{
				ID:       p.ID,
				Name:     p.Name,
				Distance: d,
			},
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp.Before(results[j].Timestamp)
	})
	return results, nil
}

// ListActiveMetrics returns the seeded metric definitions.
func (r *Repository) ListActiveMetrics(ctx context.Context) ([]domain.Metric, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Metric, len(r.metrics))
	copy(out, r.metrics)
	return out, nil
}

// Health always succeeds for the in-memory store.
func (r *Repository) Health(ctx context.Context) error {
	return nil
}

// MeasurementCount reports the number of stored measurements. Used by
// tests to verify that rejected batches leave the store unchanged.
func (r *Repository) MeasurementCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.measurements)
}
