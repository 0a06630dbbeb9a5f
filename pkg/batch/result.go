package batch

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Outcome is the terminal state of one file
type Outcome int

const (
	Succeeded       Outcome = iota // Preview written
	ImportFailed                   // The engine could not import the file
	NoGeometryFound                // Imported, but nothing with triangles
	OutputFailed                   // Output directory or render/write failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case ImportFailed:
		return "import failed"
	case NoGeometryFound:
		return "no geometry"
	case OutputFailed:
		return "output failed"
	default:
		return "unknown"
	}
}

// ProcessResult describes what happened to one input file
type ProcessResult struct {
	Path       string
	OutputPath string // Empty unless the pipeline got as far as choosing one
	Outcome    Outcome
	Err        error
	Elapsed    time.Duration // Whole pipeline, import included
	RenderTime time.Duration // RenderActiveCameraTo only, zero unless it was called
}

// Summary aggregates one batch run. Only counts and timings are kept.
type Summary struct {
	RunID        string
	Total        int
	Succeeded    int
	ImportFailed int
	NoGeometry   int
	OutputFailed int
	RenderTimes  []float64 // Render seconds per successful file
}

// record folds one result into the summary
func (s *Summary) record(result ProcessResult) {
	switch result.Outcome {
	case Succeeded:
		s.Succeeded++
		s.RenderTimes = append(s.RenderTimes, result.RenderTime.Seconds())
	case ImportFailed:
		s.ImportFailed++
	case NoGeometryFound:
		s.NoGeometry++
	case OutputFailed:
		s.OutputFailed++
	}
}

// Failed returns the number of files that did not produce a preview
func (s Summary) Failed() int {
	return s.Total - s.Succeeded
}

// TimingStats returns the mean, standard deviation and maximum render time of
// successful files in seconds; all zero when nothing succeeded
func (s Summary) TimingStats() (mean, stdDev, maxTime float64) {
	switch len(s.RenderTimes) {
	case 0:
		return 0, 0, 0
	case 1:
		return s.RenderTimes[0], 0, s.RenderTimes[0]
	}
	mean, stdDev = stat.MeanStdDev(s.RenderTimes, nil)
	return mean, stdDev, floats.Max(s.RenderTimes)
}
