package metrics

import (
	"testing"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestComputeThresholds(t *testing.T) {
	rates := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	th := ComputeThresholds(rates, 0.25, 0.75)

	// floor(0.25*10)=2 -> 3rd element, floor(0.75*10)=7 -> 8th element
	assert.Equal(t, 3.0, th.Slow)
	assert.Equal(t, 8.0, th.Fast)
}

func TestComputeThresholds_DropsZeroRates(t *testing.T) {
	rates := []float64{0, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	th := ComputeThresholds(rates, 0.25, 0.75)

	assert.Equal(t, 3.0, th.Slow)
	assert.Equal(t, 8.0, th.Fast)
}

func TestComputeThresholds_EmptyPopulation(t *testing.T) {
	assert.Equal(t, Thresholds{}, ComputeThresholds(nil, 0.25, 0.75))
	assert.Equal(t, Thresholds{}, ComputeThresholds([]float64{0, 0}, 0.25, 0.75))
}

func TestComputeThresholds_ClampsTopPercentile(t *testing.T) {
	th := ComputeThresholds([]float64{2, 4, 6}, 0.0, 1.0)

	assert.Equal(t, 2.0, th.Slow)
	assert.Equal(t, 6.0, th.Fast)
}

func TestComputeThresholds_Ordering(t *testing.T) {
	populations := [][]float64{
		{5},
		{1, 1, 1, 1},
		{0.5, 12, 3.25, 7, 9.1, 2},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	}

	for _, rates := range populations {
		th := ComputeThresholds(rates, 0.25, 0.75)
		assert.LessOrEqual(t, th.Slow, th.Fast)
		assert.Contains(t, rates, th.Slow)
		assert.Contains(t, rates, th.Fast)
	}
}

func TestClassify(t *testing.T) {
	th := Thresholds{Slow: 3, Fast: 8}

	tests := []struct {
		name string
		avg  float64
		want domain.Velocity
	}{
		{"zero sales is slow", 0, domain.VelocitySlow},
		{"below slow threshold is still average", 1, domain.VelocityAverage},
		{"at slow threshold is average", 3, domain.VelocityAverage},
		{"mid range is average", 5, domain.VelocityAverage},
		{"at fast threshold is fast", 8, domain.VelocityFast},
		{"above fast threshold is fast", 11.5, domain.VelocityFast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, th.Classify(tt.avg))
		})
	}
}

func TestClassify_ZeroThresholds(t *testing.T) {
	th := Thresholds{}

	// With no non-zero population every selling item is fast, zero is slow.
	assert.Equal(t, domain.VelocitySlow, th.Classify(0))
	assert.Equal(t, domain.VelocityFast, th.Classify(0.25))
}
