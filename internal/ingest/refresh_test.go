package ingest

import (
	"testing"
	"time"

	"github.com/lox/tireswap/internal/models"
	"github.com/lox/tireswap/internal/season"
)

func dayObs(year int, month time.Month, day int, temp, snow *float64) models.DailyObservation {
	return models.DailyObservation{
		Date:      time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		MeanTemp:  temp,
		TotalSnow: snow,
	}
}

func fp(v float64) *float64 { return &v }

func TestComputeMetricsAveragesAcrossYears(t *testing.T) {
	// Two years, each with a single spring crossing: 2024 transitions on
	// day 101, 2025 on day 105. The stored metric is their mean, 103.
	observations := []models.DailyObservation{
		dayObs(2024, time.April, 9, fp(4), nil),
		dayObs(2024, time.April, 10, fp(10), nil), // day 101 (leap year)
		dayObs(2024, time.May, 1, fp(15), nil),

		dayObs(2025, time.April, 14, fp(5), nil),
		dayObs(2025, time.April, 15, fp(11), nil), // day 105
		dayObs(2025, time.May, 1, fp(16), nil),
	}

	m := ComputeMetrics(observations, season.DefaultConfig())

	if !m.SpringDay.Valid || m.SpringDay.Int64 != 103 {
		t.Errorf("SpringDay = %+v, want 103", m.SpringDay)
	}
	if m.FallDay.Valid {
		t.Errorf("FallDay = %+v, want null (no fall crossing in either year)", m.FallDay)
	}
	if m.FirstSnowDay.Valid || m.LastSnowDay.Valid {
		t.Errorf("snow days = %+v/%+v, want null/null", m.FirstSnowDay, m.LastSnowDay)
	}
}

func TestComputeMetricsEmpty(t *testing.T) {
	m := ComputeMetrics(nil, season.DefaultConfig())
	if m.SpringDay.Valid || m.FallDay.Valid || m.FirstSnowDay.Valid || m.LastSnowDay.Valid {
		t.Errorf("expected all metrics null, got %+v", m)
	}
}

func TestComputeMetricsYearsAreIndependent(t *testing.T) {
	// A warm->cold pair split across New Year must not register as a fall
	// crossing: extraction is per calendar year.
	observations := []models.DailyObservation{
		dayObs(2024, time.December, 31, fp(9), nil),
		dayObs(2025, time.January, 1, fp(3), nil),
	}

	m := ComputeMetrics(observations, season.DefaultConfig())
	if m.FallDay.Valid {
		t.Errorf("FallDay = %+v, want null", m.FallDay)
	}
}
