package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/geosense/measurement-api/internal/domain"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"

var (
	errWeatherUnavailable = errors.New("weather lookup unavailable")
	errNoAPIKey           = errors.New("openweather api key is not configured")
)

// OpenWeatherClient fetches live conditions from OpenWeatherMap. It backs
// the demo seeder and the location search endpoint only; the durable data
// path never depends on it. Outbound calls go through a circuit breaker
// with bounded retries.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// Conditions is a normalized current-weather reading.
type Conditions struct {
	Name        string
	Latitude    float64
	Longitude   float64
	Country     string
	Temperature float64
	Humidity    float64
	Pressure    float64
	WindSpeed   float64
	WindDeg     float64
}

// NewOpenWeatherClient creates a client with a shared HTTP client.
func NewOpenWeatherClient(client *http.Client, apiKey string) *OpenWeatherClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: openWeatherBaseURL,
		client:  client,
		circuit: cb,
	}
}

// CurrentConditions fetches the current weather at a point.
func (c *OpenWeatherClient) CurrentConditions(ctx context.Context, lat, lon float64) (Conditions, error) {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	return c.fetch(ctx, values)
}

// SearchLocation resolves a free-text place name to coordinates.
func (c *OpenWeatherClient) SearchLocation(ctx context.Context, query string) (Conditions, error) {
	values := url.Values{}
	values.Set("q", query)
	cond, err := c.fetch(ctx, values)
	if err != nil {
		return Conditions{}, domain.ErrLocationNotFound
	}
	return cond, nil
}

func (c *OpenWeatherClient) fetch(ctx context.Context, values url.Values) (Conditions, error) {
	if c.apiKey == "" {
		return Conditions{}, errNoAPIKey
	}

	values.Set("appid", c.apiKey)
	values.Set("units", "metric")
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())

	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", errWeatherUnavailable, resp.StatusCode)
		}

		var payload struct {
			Name  string `json:"name"`
			Coord struct {
				Lat float64 `json:"lat"`
				Lon float64 `json:"lon"`
			} `json:"coord"`
			Sys struct {
				Country string `json:"country"`
			} `json:"sys"`
			Main struct {
				Temp     float64 `json:"temp"`
				Humidity float64 `json:"humidity"`
				Pressure float64 `json:"pressure"`
			} `json:"main"`
			Wind struct {
				Speed float64 `json:"speed"`
				Deg   float64 `json:"deg"`
			} `json:"wind"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, err
		}

		return Conditions{
			Name:        payload.Name,
			Latitude:    payload.Coord.Lat,
			Longitude:   payload.Coord.Lon,
			Country:     payload.Sys.Country,
			Temperature: payload.Main.Temp,
			Humidity:    payload.Main.Humidity,
			Pressure:    payload.Main.Pressure,
			WindSpeed:   payload.Wind.Speed,
			WindDeg:     payload.Wind.Deg,
		}, nil
	})
	if err != nil {
		return Conditions{}, err
	}

	cond, ok := result.(Conditions)
	if !ok {
		return Conditions{}, errWeatherUnavailable
	}
	return cond, nil
}
