package ingest

import (
	"context"
	"database/sql"
	"log"
	"sync"

	"github.com/lox/tireswap/internal/metrics"
	"github.com/lox/tireswap/internal/models"
	"github.com/lox/tireswap/internal/season"
	"github.com/lox/tireswap/internal/store"
)

// stationWorkers bounds concurrent in-flight station fetches so the
// upstream provider is not overwhelmed.
const stationWorkers = 10

// Refresher drives a full store refresh: station metadata first, then per
// station the daily history, seasonal extraction and metric upsert.
type Refresher struct {
	client *Client
	store  *store.Store
	cfg    season.Config
}

func NewRefresher(client *Client, st *store.Store) *Refresher {
	return &Refresher{client: client, store: st, cfg: season.DefaultConfig()}
}

// Run refreshes stations then metrics. A station-level failure is logged
// and counted but never aborts the rest of the batch.
func (r *Refresher) Run(ctx context.Context) error {
	stations, err := r.RefreshStations(ctx)
	if err != nil {
		return err
	}
	r.RefreshMetrics(ctx, stations)
	return nil
}

// RefreshStations fetches the upstream station collection and upserts it.
// Returns the stations that were stored.
func (r *Refresher) RefreshStations(ctx context.Context) ([]models.Station, error) {
	stations, err := r.client.FetchStations(ctx)
	if err != nil {
		return nil, err
	}

	stored := stations[:0]
	for _, st := range stations {
		if err := r.store.UpsertStation(st); err != nil {
			log.Printf("refresh: upsert station %d: %v", st.ID, err)
			continue
		}
		stored = append(stored, st)
	}
	log.Printf("refresh: %d stations stored", len(stored))
	return stored, nil
}

// RefreshMetrics computes and stores seasonal metrics for each station,
// with a bounded number of stations in flight. Results may complete in any
// order; one station's failure is isolated to that station.
func (r *Refresher) RefreshMetrics(ctx context.Context, stations []models.Station) {
	jobs := make(chan models.Station)
	var wg sync.WaitGroup

	for i := 0; i < stationWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for st := range jobs {
				if err := r.refreshStation(ctx, st); err != nil {
					log.Printf("refresh: station %d (%s): %v", st.ID, st.Name, err)
					metrics.StationsRefreshed.WithLabelValues("error").Inc()
					continue
				}
				metrics.StationsRefreshed.WithLabelValues("ok").Inc()
			}
		}()
	}

	done := 0
	for _, st := range stations {
		select {
		case <-ctx.Done():
			log.Printf("refresh: cancelled after %d stations", done)
			close(jobs)
			wg.Wait()
			return
		case jobs <- st:
			done++
		}
	}
	close(jobs)
	wg.Wait()
	log.Printf("refresh: metrics complete for %d stations", done)
}

// refreshStation fetches a station's daily history, extracts per-year
// transition days and stores the cross-year averages keyed by the current
// year.
func (r *Refresher) refreshStation(ctx context.Context, st models.Station) error {
	now := r.client.now().UTC()
	startYear := now.Year() - r.client.policy.HistoryYears

	var all []models.DailyObservation
	for year := startYear; year <= now.Year(); year++ {
		for month := 1; month <= 12; month++ {
			if year == now.Year() && month > int(now.Month()) {
				break
			}
			obs, err := r.client.FetchDailyObservations(ctx, st.ID, year, month)
			if err != nil {
				return err
			}
			all = append(all, obs...)
		}
	}
	if len(all) == 0 {
		return nil
	}

	m := ComputeMetrics(all, r.cfg)
	m.StationID = st.ID
	m.Year = int64(now.Year())
	return r.store.UpsertMetrics(m)
}

// ComputeMetrics groups a station's observations by calendar year, extracts
// each year's transition days and collapses them into one averaged metrics
// row. Metrics with no contributing year stay null.
func ComputeMetrics(observations []models.DailyObservation, cfg season.Config) models.SeasonalMetrics {
	byYear := make(map[int][]models.DailyObservation)
	for _, obs := range observations {
		byYear[obs.Date.Year()] = append(byYear[obs.Date.Year()], obs)
	}

	var springDays, fallDays, firstSnowDays, lastSnowDays []int
	for _, records := range byYear {
		ym := season.ExtractYear(records, cfg)
		if ym.SpringDay != nil {
			springDays = append(springDays, *ym.SpringDay)
		}
		if ym.FallDay != nil {
			fallDays = append(fallDays, *ym.FallDay)
		}
		if ym.FirstSnowDay != nil {
			firstSnowDays = append(firstSnowDays, *ym.FirstSnowDay)
		}
		if ym.LastSnowDay != nil {
			lastSnowDays = append(lastSnowDays, *ym.LastSnowDay)
		}
	}

	return models.SeasonalMetrics{
		SpringDay:    averageNullDay(springDays),
		FallDay:      averageNullDay(fallDays),
		FirstSnowDay: averageNullDay(firstSnowDays),
		LastSnowDay:  averageNullDay(lastSnowDays),
	}
}

func averageNullDay(days []int) sql.NullInt64 {
	avg, ok := season.AverageDay(days)
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(avg), Valid: true}
}
