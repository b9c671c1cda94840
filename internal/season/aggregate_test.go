package season

import "testing"

func TestAverageDay(t *testing.T) {
	tests := []struct {
		name   string
		days   []int
		want   int
		wantOK bool
	}{
		{"empty is absent", nil, 0, false},
		{"single value", []int{100}, 100, true},
		{"mean truncates toward zero", []int{100, 101}, 100, true},
		{"multiple values", []int{100, 110, 120}, 110, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AverageDay(tt.days)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("AverageDay(%v) = %d, %v, want %d, %v", tt.days, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// Averaging across the year boundary is a documented limitation, not a bug
// to fix: Dec 30 and Jan 2 average to early July under the arithmetic rule
// rather than to the boundary. This test exists so the behavior can only
// change deliberately.
func TestAverageDayYearBoundaryLimitation(t *testing.T) {
	dec30 := DayOfDate(12, 30) // 364
	jan2 := DayOfDate(1, 2)    // 2

	avg, ok := AverageDay([]int{dec30, jan2})
	if !ok {
		t.Fatal("AverageDay returned not ok")
	}
	if avg != 183 {
		t.Errorf("AverageDay([Dec 30, Jan 2]) = %d, want 183", avg)
	}
	if got := FormatDay(avg); got != "July 2" {
		t.Errorf("FormatDay(%d) = %q, want %q", avg, got, "July 2")
	}
}
