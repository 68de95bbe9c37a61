//nolint:lll // readability
package strategy

import (
	"math"
	"testing"
)

func TestStintTime(t *testing.T) {
	tests := []struct {
		name        string
		baseline    float64
		startAge    int
		numLaps     int
		degradation float64
		want        float64
	}{
		{name: "zero laps", baseline: 90, startAge: 5, numLaps: 0, degradation: 0.2, want: 0},
		{name: "fresh tyres no degradation", baseline: 90, startAge: 0, numLaps: 3, degradation: 0, want: 270},
		{name: "fresh tyres degrading", baseline: 90, startAge: 0, numLaps: 3, degradation: 0.5, want: 271.5},
		{name: "worn tyres", baseline: 90, startAge: 10, numLaps: 2, degradation: 0.5, want: 190.5},
		{name: "single lap", baseline: 85.5, startAge: 4, numLaps: 1, degradation: 0.25, want: 86.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StintTime(tt.baseline, tt.startAge, tt.numLaps, tt.degradation)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("StintTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStintTimeIncreasingInAge(t *testing.T) {
	for age := 0; age < 20; age++ {
		younger := StintTime(90, age, 10, 0.2)
		older := StintTime(90, age+1, 10, 0.2)
		if older <= younger {
			t.Errorf("age %d: stint time not increasing (%v -> %v)", age, younger, older)
		}
	}
}

func TestStintTimeNonDecreasingInLaps(t *testing.T) {
	for n := 0; n < 20; n++ {
		shorter := StintTime(90, 3, n, 0.2)
		longer := StintTime(90, 3, n+1, 0.2)
		if longer < shorter {
			t.Errorf("laps %d: stint time decreasing (%v -> %v)", n, shorter, longer)
		}
	}
}
