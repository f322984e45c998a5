package service

import (
	"context"
	"strings"
	"testing"

	"github.com/geosense/measurement-api/internal/domain"
	"github.com/geosense/measurement-api/internal/repository/memory"
)

func TestRecordMeasurementsRejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name      string
		input     domain.MeasurementInput
		wantField string
	}{
		{
			name:      "humidity above range",
			input:     domain.MeasurementInput{Timestamp: "2024-01-01T00:00:00Z", Humidity: floatPtr(150)},
			wantField: "humidity",
		},
		{
			name:      "humidity below range",
			input:     domain.MeasurementInput{Timestamp: "2024-01-01T00:00:00Z", Humidity: floatPtr(-1)},
			wantField: "humidity",
		},
		{
			name:      "negative wind speed",
			input:     domain.MeasurementInput{Timestamp: "2024-01-01T00:00:00Z", WindSpeed: floatPtr(-3)},
			wantField: "wind_speed",
		},
		{
			name:      "wind direction above range",
			input:     domain.MeasurementInput{Timestamp: "2024-01-01T00:00:00Z", WindDirection: floatPtr(361)},
			wantField: "wind_direction",
		},
		{
			name:      "invalid timestamp",
			input:     domain.MeasurementInput{Timestamp: "last tuesday", Temperature: floatPtr(20)},
			wantField: "timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewRepository()
			providers := NewProviderService(repo)
			ingest := NewIngestionService(repo)
			provider := registerProvider(t, providers, "Station", 10, 10)

			before := repo.MeasurementCount()

			req := &domain.RecordMeasurementsRequest{
				Location: &domain.LocationBody{Latitude: floatPtr(10), Longitude: floatPtr(10)},
				Measurements: []domain.MeasurementInput{
					{Timestamp: "2024-01-01T00:00:00Z", Temperature: floatPtr(20)}, // valid sibling
					tt.input,
				},
			}
			_, err := ingest.RecordMeasurements(context.Background(), provider, req)

			apiErr, ok := err.(*domain.APIError)
			if !ok {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Code != "VALIDATION_ERROR" {
				t.Errorf("expected VALIDATION_ERROR, got %s", apiErr.Code)
			}
			if !strings.Contains(apiErr.Message, tt.wantField) {
				t.Errorf("expected message to name %q, got %q", tt.wantField, apiErr.Message)
			}

			// The whole batch is rejected: the store is unchanged.
			if after := repo.MeasurementCount(); after != before {
				t.Errorf("store changed after rejected batch: %d -> %d", before, after)
			}
		})
	}
}

func TestRecordMeasurementsRequiresNonEmptyBatch(t *testing.T) {
	repo := memory.NewRepository()
	providers := NewProviderService(repo)
	ingest := NewIngestionService(repo)
	provider := registerProvider(t, providers, "Station", 10, 10)

	req := &domain.RecordMeasurementsRequest{
		Location:     &domain.LocationBody{Latitude: floatPtr(10), Longitude: floatPtr(10)},
		Measurements: []domain.MeasurementInput{},
	}
	_, err := ingest.RecordMeasurements(context.Background(), provider, req)

	apiErr, ok := err.(*domain.APIError)
	if !ok || apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR for empty batch, got %v", err)
	}
}

func TestRecordMeasurementsRequiresLocation(t *testing.T) {
	repo := memory.NewRepository()
	providers := NewProviderService(repo)
	ingest := NewIngestionService(repo)
	provider := registerProvider(t, providers, "Station", 10, 10)

	req := &domain.RecordMeasurementsRequest{
		Measurements: []domain.MeasurementInput{
			{Timestamp: "2024-01-01T00:00:00Z", Temperature: floatPtr(20)},
		},
	}
	_, err := ingest.RecordMeasurements(context.Background(), provider, req)

	apiErr, ok := err.(*domain.APIError)
	if !ok || apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR for missing location, got %v", err)
	}
}

func TestRecordMeasurementsStoresLocationPerRequest(t *testing.T) {
	repo := memory.NewRepository()
	providers := NewProviderService(repo)
	ingest := NewIngestionService(repo)
	query := NewQueryService(repo, noopCache{})

	// Provider registered at one point, batch reported from another: the
	// measurement keeps the request location, the distance filter keys off
	// the provider's registered location.
	provider := registerProvider(t, providers, "Mobile", 35.0, 139.0)

	req := &domain.RecordMeasurementsRequest{
		Location: &domain.LocationBody{Latitude: floatPtr(35.01), Longitude: floatPtr(139.01)},
		Measurements: []domain.MeasurementInput{
			{Timestamp: "2024-01-01T00:00:00Z", Temperature: floatPtr(20)},
		},
	}
	if _, err := ingest.RecordMeasurements(context.Background(), provider, req); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	resp, err := query.FindMeasurements(context.Background(), MeasurementQuery{
		Location:  "35.0,139.0",
		StartTime: "2024-01-01T00:00:00Z",
		EndTime:   "2024-01-01T01:00:00Z",
	})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if resp.TotalRecords != 1 {
		t.Errorf("expected 1 record, got %d", resp.TotalRecords)
	}
}

// noopCache disables memoization for tests that only exercise retrieval.
type noopCache struct{}

func (noopCache) Get(string) (*domain.MeasurementQueryResponse, bool) { return nil, false }
func (noopCache) Set(string, *domain.MeasurementQueryResponse)        {}
