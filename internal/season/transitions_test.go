package season

import (
	"testing"
	"time"

	"github.com/lox/tireswap/internal/models"
)

func obs(month time.Month, day int, temp, snow *float64) models.DailyObservation {
	return models.DailyObservation{
		Date:      time.Date(2023, month, day, 0, 0, 0, 0, time.UTC),
		MeanTemp:  temp,
		TotalSnow: snow,
	}
}

func f(v float64) *float64 { return &v }

func TestExtractYearKnownCrossings(t *testing.T) {
	records := []models.DailyObservation{
		obs(time.January, 5, f(-5), f(2.0)),   // first snowfall, day 5
		obs(time.February, 10, f(-2), nil),
		obs(time.March, 15, f(3), f(1.0)),
		obs(time.April, 10, f(5), nil),        // last cold day in spring window, day 100
		obs(time.April, 11, f(9), nil),        // spring transition, day 101
		obs(time.May, 20, f(12), nil),
		obs(time.June, 25, f(18), nil),
		obs(time.August, 15, f(25), nil),
		obs(time.September, 10, nil, nil),     // missing temp must not break the fall scan
		obs(time.October, 20, f(8.5), nil),    // last warm day, day 293
		obs(time.October, 21, f(4), nil),
		obs(time.November, 5, f(2), nil),
		obs(time.December, 1, f(-1), f(3.0)),  // last snowfall, day 335
	}

	m := ExtractYear(records, DefaultConfig())

	if m.SpringDay == nil || *m.SpringDay != 101 {
		t.Errorf("SpringDay = %v, want 101", m.SpringDay)
	}
	if m.FallDay == nil || *m.FallDay != 293 {
		t.Errorf("FallDay = %v, want 293", m.FallDay)
	}
	if m.FirstSnowDay == nil || *m.FirstSnowDay != 5 {
		t.Errorf("FirstSnowDay = %v, want 5", m.FirstSnowDay)
	}
	if m.LastSnowDay == nil || *m.LastSnowDay != 335 {
		t.Errorf("LastSnowDay = %v, want 335", m.LastSnowDay)
	}
}

func TestExtractYearSortsInput(t *testing.T) {
	// Same series as above but shuffled: extraction must not depend on
	// record order within the year.
	records := []models.DailyObservation{
		obs(time.October, 21, f(4), nil),
		obs(time.April, 11, f(9), nil),
		obs(time.December, 1, f(-1), f(3.0)),
		obs(time.April, 10, f(5), nil),
		obs(time.January, 5, f(-5), f(2.0)),
		obs(time.October, 20, f(8.5), nil),
		obs(time.August, 15, f(25), nil),
	}

	m := ExtractYear(records, DefaultConfig())
	if m.SpringDay == nil || *m.SpringDay != 101 {
		t.Errorf("SpringDay = %v, want 101", m.SpringDay)
	}
	if m.FallDay == nil || *m.FallDay != 293 {
		t.Errorf("FallDay = %v, want 293", m.FallDay)
	}
}

func TestExtractYearAbsentOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		records []models.DailyObservation
		check   func(t *testing.T, m YearMetrics)
	}{
		{
			name:    "empty year",
			records: nil,
			check: func(t *testing.T, m YearMetrics) {
				if m.SpringDay != nil || m.FallDay != nil || m.FirstSnowDay != nil || m.LastSnowDay != nil {
					t.Errorf("expected all metrics absent, got %+v", m)
				}
			},
		},
		{
			name: "no cold day in spring window",
			records: []models.DailyObservation{
				obs(time.April, 1, f(10), nil),
				obs(time.May, 1, f(15), nil),
			},
			check: func(t *testing.T, m YearMetrics) {
				if m.SpringDay != nil {
					t.Errorf("SpringDay = %v, want nil", m.SpringDay)
				}
			},
		},
		{
			name: "last cold day is the year's final record",
			records: []models.DailyObservation{
				obs(time.March, 1, f(10), nil),
				obs(time.April, 1, f(3), nil),
			},
			check: func(t *testing.T, m YearMetrics) {
				if m.SpringDay != nil {
					t.Errorf("SpringDay = %v, want nil", m.SpringDay)
				}
			},
		},
		{
			name: "warm to cold pair before fall window is ignored",
			records: []models.DailyObservation{
				obs(time.May, 1, f(10), nil),
				obs(time.May, 2, f(4), nil),
			},
			check: func(t *testing.T, m YearMetrics) {
				if m.FallDay != nil {
					t.Errorf("FallDay = %v, want nil", m.FallDay)
				}
			},
		},
		{
			name: "missing temperatures never qualify",
			records: []models.DailyObservation{
				obs(time.October, 1, f(10), nil),
				obs(time.October, 2, nil, nil),
				obs(time.October, 3, f(10), nil),
			},
			check: func(t *testing.T, m YearMetrics) {
				if m.FallDay != nil {
					t.Errorf("FallDay = %v, want nil", m.FallDay)
				}
			},
		},
		{
			name: "absent snowfall is not zero snowfall",
			records: []models.DailyObservation{
				obs(time.January, 1, f(-5), nil),
				obs(time.January, 2, f(-5), f(0.0)),
			},
			check: func(t *testing.T, m YearMetrics) {
				if m.FirstSnowDay != nil || m.LastSnowDay != nil {
					t.Errorf("snow days = %v/%v, want nil/nil", m.FirstSnowDay, m.LastSnowDay)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ExtractYear(tt.records, DefaultConfig()))
		})
	}
}

// The fall scan takes the first qualifying pair while the spring scan takes
// the last qualifying record. The asymmetry is deliberate: fall wants the
// first cold front, spring the last cold spell.
func TestExtractYearFirstFallCrossingWins(t *testing.T) {
	records := []models.DailyObservation{
		obs(time.September, 1, f(12), nil), // last warm day of first crossing, day 244
		obs(time.September, 2, f(5), nil),
		obs(time.September, 3, f(10), nil),
		obs(time.November, 1, f(9), nil),
		obs(time.November, 2, f(2), nil),   // later crossing, ignored
	}

	m := ExtractYear(records, DefaultConfig())
	if m.FallDay == nil || *m.FallDay != 244 {
		t.Errorf("FallDay = %v, want 244", m.FallDay)
	}
}

func TestExtractYearConfigurableThreshold(t *testing.T) {
	cfg := Config{ThresholdC: 10.0, SpringCutoffDay: 180, FallStartDay: 182}
	records := []models.DailyObservation{
		obs(time.April, 1, f(8), nil), // below the raised threshold
		obs(time.April, 2, f(12), nil),
	}

	m := ExtractYear(records, cfg)
	if m.SpringDay == nil || *m.SpringDay != 92 {
		t.Errorf("SpringDay = %v, want 92", m.SpringDay)
	}
}
