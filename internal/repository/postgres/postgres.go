package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geosense/measurement-api/internal/domain"
)

// distanceExpr is the planar distance approximation evaluated inside the
// database. It must stay in lockstep with pkg/geo.Distance: 69.1 miles per
// degree of latitude, longitude scaled by cos(provider latitude / 57.3).
const distanceExpr = `SQRT(POW(69.1 * (%[1]s.latitude - $1), 2) +
	POW(69.1 * ($2 - %[1]s.longitude) * COS(%[1]s.latitude / 57.3), 2))`

// Repository implements domain.DataRepository on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateProvider persists a newly registered provider.
func (r *Repository) CreateProvider(ctx context.Context, p *domain.Provider) error {
	query := `
		INSERT INTO providers (
			id, name, description, api_key, latitude, longitude,
			address, contact_email, is_active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.APIKey, p.Latitude, p.Longitude,
		p.Address, p.ContactEmail, p.IsActive, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to create provider: %w", err)
	}
	return nil
}

// FindProviderByAPIKey resolves a credential to an active provider.
func (r *Repository) FindProviderByAPIKey(ctx context.Context, apiKey string) (*domain.Provider, error) {
	query := `
		SELECT id, name, description, latitude, longitude, address,
		       contact_email, is_active, created_at
		FROM providers
		WHERE api_key = $1 AND is_active = true
	`

	var p domain.Provider
	err := r.pool.QueryRow(ctx, query, apiKey).Scan(
		&p.ID, &p.Name, &p.Description, &p.Latitude, &p.Longitude,
		&p.Address, &p.ContactEmail, &p.IsActive, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to look up api key: %w", err)
	}

	p.APIKey = apiKey
	return &p, nil
}

// FindNearbyProviders returns active providers within radius miles of the
// point, ordered by distance ascending.
func (r *Repository) FindNearbyProviders(ctx context.Context, lat, lon, radius float64) ([]domain.NearbyProvider, error) {
	dist := fmt.Sprintf(distanceExpr, "providers")
	query := fmt.Sprintf(`
		SELECT id, name, description, latitude, longitude, address,
		       %s AS distance
		FROM providers
		WHERE is_active = true
		AND %s <= $3
		ORDER BY distance ASC
	`, dist, dist)

	rows, err := r.pool.Query(ctx, query, lat, lon, radius)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query nearby providers: %w", err)
	}
	defer rows.Close()

	results := make([]domain.NearbyProvider, 0)
	for rows.Next() {
		var np domain.NearbyProvider
		err := rows.Scan(
			&np.ID, &np.Name, &np.Description,
			&np.Location.Latitude, &np.Location.Longitude, &np.Location.Address,
			&np.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan provider row: %w", err)
		}
		results = append(results, np)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: provider rows error: %w", err)
	}

	return results, nil
}

// InsertMeasurements persists the batch inside a single transaction.
// Any insert failure rolls back the whole batch.
func (r *Repository) InsertMeasurements(ctx context.Context, batch []domain.Measurement) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO measurements (
			id, provider_id, timestamp, latitude, longitude,
			temperature, humidity, pressure, wind_speed, wind_direction, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, m := range batch {
		_, err := tx.Exec(ctx, query,
			m.ID, m.ProviderID, m.Timestamp, m.Latitude, m.Longitude,
			m.Temperature, m.Humidity, m.Pressure, m.WindSpeed, m.WindDirection, m.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("postgres: failed to insert measurement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit measurement batch: %w", err)
	}
	return nil
}

// FindMeasurements joins measurements with their providers, filtering by
// the time window (inclusive) and the distance predicate evaluated in SQL.
func (r *Repository) FindMeasurements(ctx context.Context, lat, lon, radius float64, start, end time.Time) ([]domain.MeasurementRecord, error) {
	dist := fmt.Sprintf(distanceExpr, "p")
	query := fmt.Sprintf(`
		SELECT
			m.timestamp, m.temperature, m.humidity, m.pressure,
			m.wind_speed, m.wind_direction,
			p.id AS provider_id, p.name AS provider_name,
			%s AS distance
		FROM measurements m
		JOIN providers p ON m.provider_id = p.id
		WHERE m.timestamp BETWEEN $3 AND $4
		AND %s <= $5
		ORDER BY m.timestamp ASC
	`, dist, dist)

	rows, err := r.pool.Query(ctx, query, lat, lon, start, end, radius)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query measurements: %w", err)
	}
	defer rows.Close()

	results := make([]domain.MeasurementRecord, 0)
	for rows.Next() {
		var rec domain.MeasurementRecord
		err := rows.Scan(
			&rec.Timestamp, &rec.Temperature, &rec.Humidity, &rec.Pressure,
			&rec.WindSpeed, &rec.WindDirection,
			&rec.Provider.ID, &rec.Provider.Name, &rec.Provider.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan measurement row: %w", err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: measurement rows error: %w", err)
	}

	return results, nil
}

// ListActiveMetrics returns the active metric definitions.
func (r *Repository) ListActiveMetrics(ctx context.Context) ([]domain.Metric, error) {
	query := `SELECT name, unit, description FROM metrics WHERE is_active = true`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query metrics: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Metric, 0)
	for rows.Next() {
		var m domain.Metric
		if err := rows.Scan(&m.Name, &m.Unit, &m.Description); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan metric row: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: metric rows error: %w", err)
	}

	return results, nil
}

// Health checks database connectivity.
func (r *Repository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
