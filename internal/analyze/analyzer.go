package analyze

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/lox/tireswap/internal/geo"
	"github.com/lox/tireswap/internal/models"
	"github.com/lox/tireswap/internal/season"
	"github.com/lox/tireswap/internal/store"
)

// DefaultNumStations is how many nearby stations contribute to a
// recommendation when the caller does not say.
const DefaultNumStations = 5

// Analyzer produces tire swap recommendations for a query point from the
// stations and metrics currently in the store. It snapshots the station set
// at construction time; after a refresh, build a new Analyzer and swap it
// in rather than mutating this one.
type Analyzer struct {
	store  *store.Store
	finder *geo.Finder
}

func New(st *store.Store) (*Analyzer, error) {
	stations, err := st.ListStations()
	if err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	return &Analyzer{store: st, finder: geo.NewFinder(stations)}, nil
}

// Finder exposes the underlying nearest-station resolver.
func (a *Analyzer) Finder() *geo.Finder {
	return a.finder
}

// Analyze finds the nearest stations to the query point and collapses their
// latest stored transition days into a single recommendation. Stations
// without usable metrics simply contribute nothing; the result carries
// null dates when no station contributed.
func (a *Analyzer) Analyze(latitude, longitude float64, numStations int) models.Recommendation {
	if numStations <= 0 {
		numStations = DefaultNumStations
	}
	nearest := a.finder.FindKNearest(latitude, longitude, numStations)

	var springDays, fallDays []int
	for _, st := range nearest {
		rows, err := a.store.MetricsByStation(st.ID)
		if err != nil {
			log.Printf("analyze: metrics for station %d: %v", st.ID, err)
			continue
		}
		if len(rows) == 0 {
			continue
		}
		latest := rows[0]
		if latest.SpringDay.Valid {
			springDays = append(springDays, int(latest.SpringDay.Int64))
		}
		if latest.FallDay.Valid {
			fallDays = append(fallDays, int(latest.FallDay.Int64))
		}
	}

	return models.Recommendation{
		Latitude:         latitude,
		Longitude:        longitude,
		SwitchToSummer:   averageNullDay(springDays),
		SwitchToWinter:   averageNullDay(fallDays),
		StationsAnalyzed: len(nearest),
	}
}

func averageNullDay(days []int) sql.NullInt64 {
	avg, ok := season.AverageDay(days)
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(avg), Valid: true}
}
