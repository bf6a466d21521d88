package telemetry

import (
	"math"
	"testing"
)

func TestComputeEARStats(t *testing.T) {
	tests := []struct {
		name                string
		values              []float64
		mean, p10, p50, p90 float64
	}{
		{"empty", nil, 0, 0, 0, 0},
		{"single", []float64{0.3}, 0.3, 0.3, 0.3, 0.3},
		{"unsorted five", []float64{5, 1, 4, 2, 3}, 3, 1, 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, p10, p50, p90 := ComputeEARStats(tt.values)
			got := []float64{mean, p10, p50, p90}
			want := []float64{tt.mean, tt.p10, tt.p50, tt.p90}
			for i := range got {
				if math.Abs(got[i]-want[i]) > 1e-9 {
					t.Errorf("stat %d: expected %f, got %f", i, want[i], got[i])
				}
			}
		})
	}
}

func TestComputeEARStatsDoesNotReorderInput(t *testing.T) {
	values := []float64{0.3, 0.1, 0.2}
	ComputeEARStats(values)
	if values[0] != 0.3 || values[1] != 0.1 {
		t.Errorf("input slice was modified: %v", values)
	}
}
