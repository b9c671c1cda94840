package season

// AverageDay reduces a collection of day-of-year values to one
// representative day by truncating arithmetic mean. An empty collection
// yields ok=false, never a default day.
//
// This is not a circular mean: days that straddle the year boundary (say
// Dec 30 and Jan 2) average toward mid-year instead of the boundary.
// Transition dates in this domain stay well clear of New Year, so the
// simpler rule is kept; swapping in an angular mean would change every
// historical output.
func AverageDay(days []int) (avg int, ok bool) {
	if len(days) == 0 {
		return 0, false
	}
	sum := 0
	for _, d := range days {
		sum += d
	}
	return sum / len(days), true
}
