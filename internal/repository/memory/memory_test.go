package memory

import (
	"context"
	"testing"
	"time"

	"github.com/geosense/measurement-api/internal/domain"
)

func seedProvider(t *testing.T, r *Repository, id string, lat, lon float64, active bool) {
	t.Helper()
	err := r.CreateProvider(context.Background(), &domain.Provider{
		ID:        id,
		Name:      id,
		Latitude:  lat,
		Longitude: lon,
		APIKey:    "key-" + id,
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed provider: %v", err)
	}
}

func TestFindProviderByAPIKey(t *testing.T) {
	r := NewRepository()
	seedProvider(t, r, "active", 10, 10, true)
	seedProvider(t, r, "revoked", 10, 10, false)

	p, err := r.FindProviderByAPIKey(context.Background(), "key-active")
	if err != nil {
		t.Fatalf("expected lookup to succeed, got %v", err)
	}
	if p.ID != "active" {
		t.Errorf("expected provider 'active', got %q", p.ID)
	}

	if _, err := r.FindProviderByAPIKey(context.Background(), "key-revoked"); err != domain.ErrProviderNotFound {
		t.Errorf("expected ErrProviderNotFound for inactive provider, got %v", err)
	}
	if _, err := r.FindProviderByAPIKey(context.Background(), "unknown"); err != domain.ErrProviderNotFound {
		t.Errorf("expected ErrProviderNotFound for unknown key, got %v", err)
	}
}

func TestFindNearbyProvidersExcludesInactive(t *testing.T) {
	r := NewRepository()
	seedProvider(t, r, "active", 10, 10, true)
	seedProvider(t, r, "revoked", 10, 10, false)

	nearby, err := r.FindNearbyProviders(context.Background(), 10, 10, 1)
	if err != nil {
		t.Fatalf("nearby failed: %v", err)
	}
	if len(nearby) != 1 || nearby[0].ID != "active" {
		t.Errorf("expected only the active provider, got %+v", nearby)
	}
}

func TestFindMeasurementsFiltersByProviderDistance(t *testing.T) {
	r := NewRepository()
	seedProvider(t, r, "near", 10, 10, true)
	seedProvider(t, r, "far", 12, 10, true) // ~138mi north

	ts := time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC)
	for _, id := range []string{"near", "far"} {
		err := r.InsertMeasurements(context.Background(), []domain.Measurement{
			{ID: "m-" + id, ProviderID: id, Timestamp: ts, Latitude: 10, Longitude: 10},
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	records, err := r.FindMeasurements(context.Background(), 10, 10, 5, start, end)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 1 || records[0].Provider.ID != "near" {
		t.Errorf("expected only the near provider's record, got %+v", records)
	}
}

func TestFindMeasurementsOrdersByTimestamp(t *testing.T) {
	r := NewRepository()
	seedProvider(t, r, "p", 10, 10, true)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	batch := []domain.Measurement{
		{ID: "c", ProviderID: "p", Timestamp: base.Add(30 * time.Minute), Latitude: 10, Longitude: 10},
		{ID: "a", ProviderID: "p", Timestamp: base, Latitude: 10, Longitude: 10},
		{ID: "b", ProviderID: "p", Timestamp: base.Add(15 * time.Minute), Latitude: 10, Longitude: 10},
	}
	if err := r.InsertMeasurements(context.Background(), batch); err != nil {
		t.Fatalf("insert: %v", err)
	}

	records, err := r.FindMeasurements(context.Background(), 10, 10, 5, base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.Before(records[i-1].Timestamp) {
			t.Error("records not ordered by timestamp ascending")
		}
	}
}

func TestListActiveMetrics(t *testing.T) {
	r := NewRepository()

	metrics, err := r.ListActiveMetrics(context.Background())
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if len(metrics) != 5 {
		t.Fatalf("expected 5 seeded metrics, got %d", len(metrics))
	}

	names := make(map[string]bool)
	for _, m := range metrics {
		names[m.Name] = true
	}
	for _, want := range []string{"temperature", "humidity", "pressure", "wind_speed", "wind_direction"} {
		if !names[want] {
			t.Errorf("missing metric %q", want)
		}
	}
}
