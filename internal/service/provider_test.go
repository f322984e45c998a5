package service

import (
	"context"
	"testing"

	"github.com/geosense/measurement-api/internal/domain"
	"github.com/geosense/measurement-api/internal/repository/memory"
)

func TestRegisterValidation(t *testing.T) {
	repo := memory.NewRepository()
	providers := NewProviderService(repo)

	valid := func() *domain.RegisterProviderRequest {
		return &domain.RegisterProviderRequest{
			Name:     "Station",
			Location: &domain.LocationBody{Latitude: floatPtr(35), Longitude: floatPtr(139)},
		}
	}

	tests := []struct {
		name   string
		mutate func(*domain.RegisterProviderRequest)
	}{
		{"empty name", func(r *domain.RegisterProviderRequest) { r.Name = "" }},
		{"latitude out of bounds", func(r *domain.RegisterProviderRequest) { r.Location.Latitude = floatPtr(91) }},
		{"longitude out of bounds", func(r *domain.RegisterProviderRequest) { r.Location.Longitude = floatPtr(-181) }},
		{"missing location", func(r *domain.RegisterProviderRequest) { r.Location = nil }},
		{"malformed contact email", func(r *domain.RegisterProviderRequest) { r.Contact = "not-an-email" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			_, err := providers.Register(context.Background(), req)
			apiErr, ok := err.(*domain.APIError)
			if !ok || apiErr.Code != "VALIDATION_ERROR" {
				t.Errorf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestRegisterIssuesDistinctCredentials(t *testing.T) {
	repo := memory.NewRepository()
	providers := NewProviderService(repo)

	lat, lon := 35.0, 139.0
	a, err := providers.Register(context.Background(), &domain.RegisterProviderRequest{
		Name:     "A",
		Location: &domain.LocationBody{Latitude: &lat, Longitude: &lon},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	b, err := providers.Register(context.Background(), &domain.RegisterProviderRequest{
		Name:     "B",
		Location: &domain.LocationBody{Latitude: &lat, Longitude: &lon},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if a.ID == "" || a.APIKey == "" {
		t.Error("expected non-empty id and api key")
	}
	if a.ID == b.ID || a.APIKey == b.APIKey {
		t.Error("expected distinct ids and credentials per registration")
	}
}

func TestRegisterThenNearbyZeroDistance(t *testing.T) {
	repo := memory.NewRepository()
	providers := NewProviderService(repo)

	registerProvider(t, providers, "Here", 35.6762, 139.6503)

	nearby, err := providers.FindNearby(context.Background(), "35.6762,139.6503", "")
	if err != nil {
		t.Fatalf("nearby failed: %v", err)
	}
	if len(nearby) != 1 {
		t.Fatalf("expected 1 provider, got %d", len(nearby))
	}
	if nearby[0].Distance != 0.00 {
		t.Errorf("expected distance 0.00, got %v", nearby[0].Distance)
	}
	if nearby[0].Name != "Here" {
		t.Errorf("expected provider name echoed, got %q", nearby[0].Name)
	}
}

func TestFindNearbySortsAndFilters(t *testing.T) {
	repo := memory.NewRepository()
	providers := NewProviderService(repo)

	registerProvider(t, providers, "Closest", 35.00, 139.00)
	registerProvider(t, providers, "Close", 35.05, 139.00)
	registerProvider(t, providers, "Distant", 38.00, 139.00) // ~207mi north

	nearby, err := providers.FindNearby(context.Background(), "35.0,139.0", "10")
	if err != nil {
		t.Fatalf("nearby failed: %v", err)
	}
	if len(nearby) != 2 {
		t.Fatalf("expected 2 providers within 10mi, got %d", len(nearby))
	}
	if nearby[0].Name != "Closest" || nearby[1].Name != "Close" {
		t.Errorf("expected ascending distance order, got %q then %q", nearby[0].Name, nearby[1].Name)
	}
	if nearby[0].Distance > nearby[1].Distance {
		t.Errorf("distances not ascending: %v then %v", nearby[0].Distance, nearby[1].Distance)
	}
}

func TestFindNearbyValidation(t *testing.T) {
	repo := memory.NewRepository()
	providers := NewProviderService(repo)

	if _, err := providers.FindNearby(context.Background(), "", ""); err != domain.ErrMissingLocation {
		t.Errorf("expected MISSING_LOCATION, got %v", err)
	}
	if _, err := providers.FindNearby(context.Background(), "abc,def", ""); err != domain.ErrInvalidLocation {
		t.Errorf("expected INVALID_LOCATION, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := memory.NewRepository()
	providers := NewProviderService(repo)

	lat, lon := 35.0, 139.0
	result, err := providers.Register(context.Background(), &domain.RegisterProviderRequest{
		Name:     "Station",
		Location: &domain.LocationBody{Latitude: &lat, Longitude: &lon},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	p, err := providers.Authenticate(context.Background(), result.APIKey)
	if err != nil {
		t.Fatalf("expected successful authentication, got %v", err)
	}
	if p.ID != result.ID {
		t.Errorf("expected provider id %q, got %q", result.ID, p.ID)
	}

	if _, err := providers.Authenticate(context.Background(), "wrong-key"); err != domain.ErrInvalidAPIKey {
		t.Errorf("expected INVALID_API_KEY, got %v", err)
	}
}
