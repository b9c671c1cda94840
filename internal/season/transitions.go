package season

import (
	"sort"

	"github.com/lox/tireswap/internal/models"
)

// Config holds the transition policy thresholds. These are tuning
// parameters, not derived values: 7°C is the conventional all-season tire
// threshold, and the day cutoffs keep the two scans in their own halves of
// the year.
type Config struct {
	// ThresholdC is the mean daily temperature separating the warm and
	// cold regimes.
	ThresholdC float64
	// SpringCutoffDay is the last day-of-year considered part of the
	// spring transition window.
	SpringCutoffDay int
	// FallStartDay is the first day-of-year considered part of the fall
	// transition window.
	FallStartDay int
}

func DefaultConfig() Config {
	return Config{
		ThresholdC:      7.0,
		SpringCutoffDay: 180,
		FallStartDay:    182,
	}
}

// YearMetrics holds the transition days extracted from one calendar year of
// observations. Nil means the year had no qualifying crossing, which is a
// normal outcome.
type YearMetrics struct {
	SpringDay    *int
	FallDay      *int
	FirstSnowDay *int
	LastSnowDay  *int
}

// ExtractYear computes the seasonal transition days from one calendar year
// of daily observations. Records are sorted by date before scanning;
// observations with a missing value never qualify and never break a scan.
func ExtractYear(records []models.DailyObservation, cfg Config) YearMetrics {
	sorted := make([]models.DailyObservation, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var m YearMetrics
	m.SpringDay = springTransition(sorted, cfg)
	m.FallDay = fallTransition(sorted, cfg)
	m.FirstSnowDay, m.LastSnowDay = snowfallDays(sorted)
	return m
}

// springTransition finds the day after the last cold day in the spring
// window: the latest record at or before the cutoff whose mean temperature
// is below the threshold. Deliberately asymmetric with fallTransition —
// spring wants the last cold spell, fall wants the first cold front.
func springTransition(records []models.DailyObservation, cfg Config) *int {
	lastBelow := -1
	for i, r := range records {
		if r.MeanTemp == nil {
			continue
		}
		if *r.MeanTemp < cfg.ThresholdC && r.Date.YearDay() <= cfg.SpringCutoffDay {
			lastBelow = i
		}
	}
	if lastBelow < 0 || lastBelow+1 >= len(records) {
		return nil
	}
	day := records[lastBelow+1].Date.YearDay()
	return &day
}

// fallTransition finds the first warm→cold crossing at or after the fall
// window start: the earliest adjacent pair where today is above the
// threshold and tomorrow below it. The emitted day is the last warm day.
func fallTransition(records []models.DailyObservation, cfg Config) *int {
	for i := 0; i+1 < len(records); i++ {
		if records[i].Date.YearDay() < cfg.FallStartDay {
			continue
		}
		today, tomorrow := records[i].MeanTemp, records[i+1].MeanTemp
		if today == nil || tomorrow == nil {
			continue
		}
		if *today > cfg.ThresholdC && *tomorrow < cfg.ThresholdC {
			day := records[i].Date.YearDay()
			return &day
		}
	}
	return nil
}

func snowfallDays(records []models.DailyObservation) (first, last *int) {
	for _, r := range records {
		if r.TotalSnow != nil && *r.TotalSnow > 0.0 {
			day := r.Date.YearDay()
			first = &day
			break
		}
	}
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.TotalSnow != nil && *r.TotalSnow > 0.0 {
			day := r.Date.YearDay()
			last = &day
			break
		}
	}
	return first, last
}
