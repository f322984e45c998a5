package domain

import "time"

// Measurement is one persisted environmental reading. Optional metrics are
// pointers: absent values are stored as NULL, never defaulted to zero.
// Measurements are immutable once recorded.
type Measurement struct {
	ID            string
	ProviderID    string
	Timestamp     time.Time
	Latitude      float64
	Longitude     float64
	Temperature   *float64
	Humidity      *float64
	Pressure      *float64
	WindSpeed     *float64
	WindDirection *float64
	CreatedAt     time.Time
}

// MeasurementInput is one entry of the ingest batch body.
type MeasurementInput struct {
	Timestamp     string   `json:"timestamp" validate:"required"`
	Temperature   *float64 `json:"temperature"`
	Humidity      *float64 `json:"humidity" validate:"omitempty,gte=0,lte=100"`
	Pressure      *float64 `json:"pressure"`
	WindSpeed     *float64 `json:"wind_speed" validate:"omitempty,gte=0"`
	WindDirection *float64 `json:"wind_direction" validate:"omitempty,gte=0,lte=360"`
}

// RecordMeasurementsRequest is the body of POST /api/v1/measurements.
// The location applies to every measurement in the batch.
type RecordMeasurementsRequest struct {
	Location     *LocationBody      `json:"location" validate:"required"`
	Measurements []MeasurementInput `json:"measurements" validate:"required,min=1,dive"`
}

// RecordMeasurementsResult is returned after a successful batch insert.
type RecordMeasurementsResult struct {
	Message       string `json:"message"`
	Provider      string `json:"provider"`
	RecordedCount int    `json:"recorded_count"`
}

// ProviderRef is the nested provider block of a query result record.
type ProviderRef struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// MeasurementRecord is one shaped entry of a measurement query response.
type MeasurementRecord struct {
	Timestamp     time.Time   `json:"timestamp"`
	Temperature   *float64    `json:"temperature"`
	Humidity      *float64    `json:"humidity"`
	Pressure      *float64    `json:"pressure"`
	WindSpeed     *float64    `json:"wind_speed"`
	WindDirection *float64    `json:"wind_direction"`
	Provider      ProviderRef `json:"provider"`
}

// QueryLocation echoes the query point and radius.
type QueryLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
}

// Period echoes the requested time window. Interval is presentational
// metadata for persisted data; it does not resample anything.
type Period struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Interval string `json:"interval"`
}

// MeasurementQueryResponse is the shaped payload of GET /api/v1/measurements.
// This exact value is what the response cache memoizes.
type MeasurementQueryResponse struct {
	Location       QueryLocation       `json:"location"`
	Period         Period              `json:"period"`
	Measurements   []MeasurementRecord `json:"measurements"`
	TotalRecords   int                 `json:"total_records"`
	ProvidersCount int                 `json:"providers_count"`
}

// Metric describes one supported measurement metric.
type Metric struct {
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
}
