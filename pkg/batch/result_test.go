package batch

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome  Outcome
		expected string
	}{
		{Succeeded, "succeeded"},
		{ImportFailed, "import failed"},
		{NoGeometryFound, "no geometry"},
		{OutputFailed, "output failed"},
		{Outcome(42), "unknown"},
	}

	for _, test := range tests {
		if got := test.outcome.String(); got != test.expected {
			t.Errorf("Outcome(%d).String(): expected %q, got %q", int(test.outcome), test.expected, got)
		}
	}
}

func TestSummaryRecord(t *testing.T) {
	var s Summary
	s.Total = 5
	s.record(ProcessResult{Outcome: Succeeded, Elapsed: 3 * time.Second, RenderTime: 2 * time.Second})
	s.record(ProcessResult{Outcome: Succeeded, Elapsed: 5 * time.Second, RenderTime: 4 * time.Second})
	s.record(ProcessResult{Outcome: ImportFailed})
	s.record(ProcessResult{Outcome: NoGeometryFound})
	s.record(ProcessResult{Outcome: OutputFailed})

	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.ImportFailed)
	assert.Equal(t, 1, s.NoGeometry)
	assert.Equal(t, 1, s.OutputFailed)
	assert.Equal(t, 3, s.Failed())
	assert.Equal(t, []float64{2, 4}, s.RenderTimes)
}

func TestSummaryTimingStats(t *testing.T) {
	mean, stdDev, maxTime := Summary{}.TimingStats()
	assert.Zero(t, mean)
	assert.Zero(t, stdDev)
	assert.Zero(t, maxTime)

	mean, stdDev, maxTime = Summary{RenderTimes: []float64{3}}.TimingStats()
	assert.Equal(t, 3.0, mean)
	assert.Zero(t, stdDev)
	assert.Equal(t, 3.0, maxTime)

	// Sample standard deviation of {2, 4, 6} is 2
	mean, stdDev, maxTime = Summary{RenderTimes: []float64{2, 4, 6}}.TimingStats()
	assert.InDelta(t, 4.0, mean, 1e-12)
	assert.InDelta(t, 2.0, stdDev, 1e-12)
	assert.Equal(t, 6.0, maxTime)
	assert.False(t, math.IsNaN(stdDev))
}
