package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/lox/tireswap/internal/metrics"
	"github.com/lox/tireswap/internal/models"
)

const (
	defaultStationsURL = "https://api.weather.gc.ca/collections/climate-stations/items?limit=99999"
	defaultBulkDataURL = "https://climate.weather.gc.ca/climate_data/bulk_data_e.html"
)

// Policy controls which stations are worth keeping and how much history is
// fetched for each.
type Policy struct {
	// ActiveWindow is how recently a station must have reported to count
	// as active.
	ActiveWindow time.Duration
	// MinHistoryDays is the minimum span between a station's first and
	// last observation. 1825 days covers five years including leap days.
	MinHistoryDays int
	// HistoryYears is how many calendar years of daily data to fetch.
	HistoryYears int
}

func DefaultPolicy() Policy {
	return Policy{
		ActiveWindow:   7 * 24 * time.Hour,
		MinHistoryDays: 1825,
		HistoryYears:   5,
	}
}

// Client fetches station metadata and daily observations from the upstream
// climate data provider.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	stationsURL string
	bulkDataURL string
	policy      Policy
	now         func() time.Time
}

func NewClient(policy Policy) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(20), 10),
		stationsURL: defaultStationsURL,
		bulkDataURL: defaultBulkDataURL,
		policy:      policy,
		now:         time.Now,
	}
}

func (c *Client) get(ctx context.Context, endpoint, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var body []byte
	operation := func() error {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.ClimateAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
			return err
		}
		defer resp.Body.Close()
		metrics.ClimateAPILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			metrics.ClimateAPICallsTotal.WithLabelValues(endpoint, fmt.Sprint(resp.StatusCode)).Inc()
			return fmt.Errorf("fetch %s: status %d", endpoint, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			metrics.ClimateAPICallsTotal.WithLabelValues(endpoint, fmt.Sprint(resp.StatusCode)).Inc()
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d: %s", endpoint, resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		metrics.ClimateAPICallsTotal.WithLabelValues(endpoint, "200").Inc()
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// FetchStations retrieves the upstream station collection, keeping only
// stations that are active and carry enough history to be worth analyzing.
func (c *Client) FetchStations(ctx context.Context) ([]models.Station, error) {
	body, err := c.get(ctx, "stations", c.stationsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch stations: %w", err)
	}

	features := gjson.GetBytes(body, "features")
	if !features.IsArray() {
		return nil, fmt.Errorf("fetch stations: no features array in response")
	}

	var stations []models.Station
	var inactive, insufficient int
	features.ForEach(func(_, feature gjson.Result) bool {
		props := feature.Get("properties")
		id := props.Get("STN_ID")
		name := props.Get("STATION_NAME")
		lon := props.Get("LONGITUDE")
		lat := props.Get("LATITUDE")
		if !id.Exists() || !name.Exists() || !lon.Exists() || !lat.Exists() {
			return true
		}

		st := models.Station{
			ID:   id.Int(),
			Name: name.String(),
			// Upstream encodes coordinates as 1e7-scaled integers.
			Longitude: float64(lon.Int()) / 10000000.0,
			Latitude:  float64(lat.Int()) / 10000000.0,
		}
		if v := props.Get("DLY_FIRST_DATE"); v.Exists() && v.String() != "" {
			st.FirstObserved.String = v.String()
			st.FirstObserved.Valid = true
		}
		if v := props.Get("DLY_LAST_DATE"); v.Exists() && v.String() != "" {
			st.LastObserved.String = v.String()
			st.LastObserved.Valid = true
		}

		if !c.isActive(st) {
			inactive++
			return true
		}
		if !c.hasSufficientHistory(st) {
			insufficient++
			return true
		}
		stations = append(stations, st)
		return true
	})

	log.Printf("ingest: %d stations kept, %d inactive, %d with insufficient history",
		len(stations), inactive, insufficient)
	return stations, nil
}

// isActive reports whether the station reported within the active window.
func (c *Client) isActive(st models.Station) bool {
	if !st.LastObserved.Valid {
		return false
	}
	last, ok := parseObservedDate(st.LastObserved.String)
	if !ok {
		return false
	}
	return !last.Before(c.now().UTC().Add(-c.policy.ActiveWindow))
}

// hasSufficientHistory reports whether the station's observation span
// covers at least the policy minimum.
func (c *Client) hasSufficientHistory(st models.Station) bool {
	if !st.FirstObserved.Valid || !st.LastObserved.Valid {
		return false
	}
	first, ok := parseObservedDate(st.FirstObserved.String)
	if !ok {
		return false
	}
	last, ok := parseObservedDate(st.LastObserved.String)
	if !ok {
		return false
	}
	return last.Sub(first) >= time.Duration(c.policy.MinHistoryDays)*24*time.Hour
}

// parseObservedDate accepts the two upstream date forms, with or without a
// time component.
func parseObservedDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
