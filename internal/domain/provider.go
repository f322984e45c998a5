package domain

import "time"

// Provider is a registered data provider with a fixed station location.
// The API key is issued once at registration and never changes.
type Provider struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Address      string    `json:"address,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	APIKey       string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// LocationBody is the location object shared by write requests.
// Coordinates are pointers so that zero values still satisfy "required".
type LocationBody struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Address   string   `json:"address,omitempty"`
}

// RegisterProviderRequest is the body of POST /api/v1/providers.
type RegisterProviderRequest struct {
	Name        string        `json:"name" validate:"required,min=1,max=255"`
	Description string        `json:"description"`
	Location    *LocationBody `json:"location" validate:"required"`
	Contact     string        `json:"contact" validate:"omitempty,email"`
}

// RegisterProviderResult carries the issued identity back to the caller.
// This is the only time the API key is ever returned.
type RegisterProviderResult struct {
	ID      string `json:"id"`
	APIKey  string `json:"api_key"`
	Message string `json:"message"`
}

// NearbyProvider is one entry of GET /api/v1/providers/nearby.
type NearbyProvider struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Location    LocationInfo `json:"location"`
	Distance    float64      `json:"distance"`
}

// LocationInfo echoes a provider location in responses.
type LocationInfo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}
