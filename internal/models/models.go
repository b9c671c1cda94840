package models

import (
	"database/sql"
	"time"
)

type Station struct {
	ID            int64
	Name          string
	Longitude     float64
	Latitude      float64
	FirstObserved sql.NullString // "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS"
	LastObserved  sql.NullString
}

// DailyObservation is one day of climate data for a station. Nil means the
// value was not reported; it must never be treated as zero.
type DailyObservation struct {
	Date      time.Time
	MeanTemp  *float64
	TotalSnow *float64
}

// SeasonalMetrics holds the aggregated transition days for a station,
// keyed by (station_id, year). Days are day-of-year values in [1, 366].
type SeasonalMetrics struct {
	ID           int64
	StationID    int64
	Year         int64
	SpringDay    sql.NullInt64
	FallDay      sql.NullInt64
	FirstSnowDay sql.NullInt64
	LastSnowDay  sql.NullInt64
}

// StationWithDistance is a query-time pairing of a station with its
// great-circle distance from the query point. Never persisted.
type StationWithDistance struct {
	Station
	DistanceKm float64
}

type Recommendation struct {
	Latitude         float64
	Longitude        float64
	SwitchToSummer   sql.NullInt64 // day of year
	SwitchToWinter   sql.NullInt64
	StationsAnalyzed int
}
