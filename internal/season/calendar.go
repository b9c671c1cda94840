package season

import (
	"fmt"
	"time"
)

// Fixed non-leap month lengths. All day-of-year arithmetic in this package
// uses this table, so callers must normalise or drop Feb 29 inputs.
var monthLengths = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DateForDay maps a day-of-year back to a calendar (month, day) under the
// non-leap convention. Day 366 clamps to December 31 since the table only
// sums to 365. Values outside [1, 366] are a caller bug and panic.
func DateForDay(day int) (time.Month, int) {
	if day < 1 || day > 366 {
		panic(fmt.Sprintf("season: day of year out of range: %d", day))
	}
	if day == 366 {
		return time.December, 31
	}
	remaining := day
	for i, days := range monthLengths {
		if remaining <= days {
			return time.Month(i + 1), remaining
		}
		remaining -= days
	}
	// Unreachable: the loop consumes at most 365.
	return time.December, 31
}

// FormatDay renders a day-of-year as "Month Day", e.g. "April 15".
func FormatDay(day int) string {
	month, dom := DateForDay(day)
	return fmt.Sprintf("%s %d", month, dom)
}

// DayOfDate maps a (month, day) pair to its day-of-year under the non-leap
// convention. February 29 collapses onto March 1.
func DayOfDate(month time.Month, day int) int {
	doy := day
	for i := 0; i < int(month)-1; i++ {
		doy += monthLengths[i]
	}
	return doy
}
