package service

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/geosense/measurement-api/internal/domain"
)

// DemoSeeder periodically ingests synthetic measurements for a built-in
// demo provider, derived from live OpenWeather conditions with a small
// random walk. Demo-only: it reuses the normal registration and ingestion
// paths and is never started outside demo mode.
type DemoSeeder struct {
	scheduler *gocron.Scheduler
	providers *ProviderService
	ingest    *IngestionService
	weather   *OpenWeatherClient
	interval  time.Duration

	provider *domain.Provider
}

// NewDemoSeeder creates a seeder that runs every interval.
func NewDemoSeeder(providers *ProviderService, ingest *IngestionService, weather *OpenWeatherClient, interval time.Duration) *DemoSeeder {
	return &DemoSeeder{
		scheduler: gocron.NewScheduler(time.UTC),
		providers: providers,
		ingest:    ingest,
		weather:   weather,
		interval:  interval,
	}
}

// Start registers the demo provider and schedules the seeding job.
func (d *DemoSeeder) Start() error {
	lat, lon := 35.6762, 139.6503 // Tokyo demo station
	result, err := d.providers.Register(context.Background(), &domain.RegisterProviderRequest{
		Name:        "Demo Sensor Station",
		Description: "Synthetic measurements derived from live weather data",
		Location:    &domain.LocationBody{Latitude: &lat, Longitude: &lon},
	})
	if err != nil {
		return err
	}

	p, err := d.providers.Authenticate(context.Background(), result.APIKey)
	if err != nil {
		return err
	}
	d.provider = p
	log.Info().Str("provider_id", p.ID).Msg("demo seeder: registered demo provider")

	if _, err := d.scheduler.Every(d.interval).Do(d.seed); err != nil {
		return err
	}
	d.scheduler.StartAsync()
	return nil
}

// Stop halts the scheduler.
func (d *DemoSeeder) Stop() {
	d.scheduler.Stop()
}

func (d *DemoSeeder) seed() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cond, err := d.weather.CurrentConditions(ctx, d.provider.Latitude, d.provider.Longitude)
	if err != nil {
		log.Warn().Err(err).Msg("demo seeder: weather fetch failed, skipping run")
		return
	}

	req := &domain.RecordMeasurementsRequest{
		Location: &domain.LocationBody{
			Latitude:  &d.provider.Latitude,
			Longitude: &d.provider.Longitude,
		},
		Measurements: generateMeasurements(cond, time.Now().UTC(), 5, time.Minute),
	}

	result, err := d.ingest.RecordMeasurements(ctx, d.provider, req)
	if err != nil {
		log.Warn().Err(err).Msg("demo seeder: ingest failed")
		return
	}
	log.Info().Int("count", result.RecordedCount).Msg("demo seeder: recorded synthetic batch")
}

// generateMeasurements steps backwards from base in interval increments,
// perturbing the live reading: ±2°C, ±10% humidity (clamped to 0-100) and
// ±5 hPa, matching the granularity of the demo data path.
func generateMeasurements(cond Conditions, base time.Time, count int, interval time.Duration) []domain.MeasurementInput {
	out := make([]domain.MeasurementInput, 0, count)
	for i := 0; i < count; i++ {
		ts := base.Add(-time.Duration(i) * interval)

		temp := cond.Temperature + (rand.Float64()-0.5)*4
		humidity := math.Max(0, math.Min(100, cond.Humidity+(rand.Float64()-0.5)*20))
		pressure := cond.Pressure + (rand.Float64()-0.5)*10
		windSpeed := math.Max(0, cond.WindSpeed+(rand.Float64()-0.5)*2)
		windDir := math.Mod(cond.WindDeg+(rand.Float64()-0.5)*30+360, 360)

		out = append(out, domain.MeasurementInput{
			Timestamp:     ts.Format(time.RFC3339),
			Temperature:   &temp,
			Humidity:      &humidity,
			Pressure:      &pressure,
			WindSpeed:     &windSpeed,
			WindDirection: &windDir,
		})
	}
	return out
}
