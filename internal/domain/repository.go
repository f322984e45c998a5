package domain

import (
	"context"
	"time"
)

// DataRepository defines the persistence contract for providers,
// measurements and metric definitions. The domain owns the interface;
// postgres and memory implementations live under internal/repository.
type DataRepository interface {
	// CreateProvider persists a newly registered provider.
	CreateProvider(ctx context.Context, p *Provider) error

	// FindProviderByAPIKey resolves an API key to an active provider.
	// Returns ErrProviderNotFound when no active provider matches.
	FindProviderByAPIKey(ctx context.Context, apiKey string) (*Provider, error)

	// FindNearbyProviders returns active providers within radius miles of
	// the point, ordered by distance ascending. Distances are unrounded.
	FindNearbyProviders(ctx context.Context, lat, lon, radius float64) ([]NearbyProvider, error)

	// InsertMeasurements persists a batch atomically: either every
	// measurement is recorded or none are.
	InsertMeasurements(ctx context.Context, batch []Measurement) error

	// FindMeasurements returns shaped records whose timestamp lies within
	// [start, end] (inclusive) and whose provider is within radius miles of
	// the point, ordered by timestamp ascending. Distances are unrounded.
	FindMeasurements(ctx context.Context, lat, lon, radius float64, start, end time.Time) ([]MeasurementRecord, error)

	// ListActiveMetrics returns the supported metric definitions.
	ListActiveMetrics(ctx context.Context) ([]Metric, error)

	// Health checks connectivity to the backing store.
	Health(ctx context.Context) error
}

// ResponseCache memoizes shaped query responses under a deterministic key.
// Entries expire a fixed TTL after insertion; expired entries are absent.
// Implementations must be safe for concurrent use.
type ResponseCache interface {
	Get(key string) (*MeasurementQueryResponse, bool)
	Set(key string, value *MeasurementQueryResponse)
}
