package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/lox/tireswap/internal/metrics"
	"github.com/lox/tireswap/internal/models"
)

// Fixed column positions in the upstream bulk daily CSV.
const (
	colDate      = 4
	colMeanTemp  = 13
	colTotalSnow = 21
)

// FetchDailyObservations retrieves one month of daily observations for a
// station. Rows with malformed dates are dropped; missing numeric fields
// ("" or "M") parse to nil, never zero.
func (c *Client) FetchDailyObservations(ctx context.Context, stationID int64, year, month int) ([]models.DailyObservation, error) {
	query := url.Values{
		"format":    {"csv"},
		"stationID": {strconv.FormatInt(stationID, 10)},
		"Year":      {strconv.Itoa(year)},
		"Month":     {strconv.Itoa(month)},
		"Day":       {"1"},
		"timeframe": {"2"}, // daily data
		"submit":    {"Download Data"},
	}

	body, err := c.get(ctx, "daily", c.bulkDataURL+"?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch daily %d %d-%02d: %w", stationID, year, month, err)
	}

	obs := parseDailyCSV(body)
	metrics.ObservationsParsed.WithLabelValues(strconv.FormatInt(stationID, 10)).Add(float64(len(obs)))
	return obs, nil
}

func parseDailyCSV(body []byte) []models.DailyObservation {
	rdr := csv.NewReader(bytes.NewReader(body))
	rdr.FieldsPerRecord = -1

	// Header row, if any.
	if _, err := rdr.Read(); err != nil {
		return nil
	}

	var observations []models.DailyObservation
	for {
		record, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed row is a data problem, not a batch problem.
			continue
		}
		if len(record) <= colDate {
			continue
		}
		date, err := time.Parse("2006-01-02", record[colDate])
		if err != nil {
			continue
		}
		observations = append(observations, models.DailyObservation{
			Date:      date,
			MeanTemp:  parseOptionalFloat(record, colMeanTemp),
			TotalSnow: parseOptionalFloat(record, colTotalSnow),
		})
	}
	return observations
}

// parseOptionalFloat returns nil for the upstream absent markers ("" and
// "M") and for unparseable values.
func parseOptionalFloat(record []string, col int) *float64 {
	if col >= len(record) {
		return nil
	}
	s := record[col]
	if s == "" || s == "M" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
