package store

import (
	"database/sql"

	"github.com/lox/tireswap/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) UpsertStation(st models.Station) error {
	_, err := s.db.Exec(`
		INSERT INTO stations (id, name, longitude, latitude, first_observed, last_observed)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			longitude = excluded.longitude,
			latitude = excluded.latitude,
			first_observed = excluded.first_observed,
			last_observed = excluded.last_observed
	`, st.ID, st.Name, st.Longitude, st.Latitude, st.FirstObserved, st.LastObserved)
	return err
}

func (s *Store) ListStations() ([]models.Station, error) {
	rows, err := s.db.Query(`SELECT id, name, longitude, latitude, first_observed, last_observed FROM stations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var st models.Station
		if err := rows.Scan(&st.ID, &st.Name, &st.Longitude, &st.Latitude, &st.FirstObserved, &st.LastObserved); err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

func (s *Store) GetStation(id int64) (*models.Station, error) {
	row := s.db.QueryRow(`SELECT id, name, longitude, latitude, first_observed, last_observed FROM stations WHERE id = ?`, id)

	var st models.Station
	err := row.Scan(&st.ID, &st.Name, &st.Longitude, &st.Latitude, &st.FirstObserved, &st.LastObserved)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) UpsertMetrics(m models.SeasonalMetrics) error {
	_, err := s.db.Exec(`
		INSERT INTO seasonal_metrics (station_id, year, spring_day, fall_day, first_snow_day, last_snow_day)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(station_id, year) DO UPDATE SET
			spring_day = excluded.spring_day,
			fall_day = excluded.fall_day,
			first_snow_day = excluded.first_snow_day,
			last_snow_day = excluded.last_snow_day
	`, m.StationID, m.Year, m.SpringDay, m.FallDay, m.FirstSnowDay, m.LastSnowDay)
	return err
}

// MetricsByStation returns a station's metrics rows, most recent year first.
func (s *Store) MetricsByStation(stationID int64) ([]models.SeasonalMetrics, error) {
	rows, err := s.db.Query(`
		SELECT id, station_id, year, spring_day, fall_day, first_snow_day, last_snow_day
		FROM seasonal_metrics
		WHERE station_id = ?
		ORDER BY year DESC
	`, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMetrics(rows)
}

func (s *Store) MetricsByYear(year int64) ([]models.SeasonalMetrics, error) {
	rows, err := s.db.Query(`
		SELECT id, station_id, year, spring_day, fall_day, first_snow_day, last_snow_day
		FROM seasonal_metrics
		WHERE year = ?
		ORDER BY station_id
	`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMetrics(rows)
}

func scanMetrics(rows *sql.Rows) ([]models.SeasonalMetrics, error) {
	var metrics []models.SeasonalMetrics
	for rows.Next() {
		var m models.SeasonalMetrics
		if err := rows.Scan(&m.ID, &m.StationID, &m.Year, &m.SpringDay, &m.FallDay, &m.FirstSnowDay, &m.LastSnowDay); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// DeleteStation removes a station and its metrics rows.
func (s *Store) DeleteStation(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM seasonal_metrics WHERE station_id = ?`, id); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`DELETE FROM stations WHERE id = ?`, id); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
