// Package rates holds the monthly interest-rate series and the
// geometry both chart renderings derive from it.
package rates

import "math"

// MonthsPerYear is the default sampling step: one point per year.
const MonthsPerYear = 12

// Series is the monthly sequence as fetched; position encodes time.
type Series struct {
	monthly   []float64
	startYear int
}

// Point is one sampled value. Year = StartYear + Index.
type Point struct {
	Index int
	Year  int
	Rate  float64
}

// NewSeries copies monthly so later changes by the caller don't leak in.
func NewSeries(monthly []float64, startYear int) *Series {
	return &Series{
		monthly:   append([]float64(nil), monthly...),
		startYear: startYear,
	}
}

func (s *Series) Len() int { return len(s.monthly) }

func (s *Series) StartYear() int { return s.startYear }

// Sample keeps every step-th value starting at index 0, which is
// ceil(Len/step) points. Index counts sampled points, not months.
func (s *Series) Sample(step int) []Point {
	if step < 1 {
		step = 1
	}
	points := make([]Point, 0, (len(s.monthly)+step-1)/step)
	for m := 0; m < len(s.monthly); m += step {
		i := len(points)
		points = append(points, Point{Index: i, Year: s.startYear + i, Rate: s.monthly[m]})
	}
	return points
}

// Yearly is Sample(MonthsPerYear).
func (s *Series) Yearly() []Point { return s.Sample(MonthsPerYear) }

// IsLabelYear reports whether year gets a text label.
func IsLabelYear(year, every int) bool {
	return every > 0 && year%every == 0
}

// Labels filters points down to label years, in order.
func Labels(points []Point, every int) []Point {
	var out []Point
	for _, p := range points {
		if IsLabelYear(p.Year, every) {
			out = append(out, p)
		}
	}
	return out
}

// Scale maps a rate to a vertical bar standing on Baseline.
type Scale struct {
	Baseline      float64 // y of the zero line, top of canvas is 0
	PixelsPerUnit float64
}

// Bar returns the top y and height of the bar for rate, clamped to [0, Baseline].
// Negative and NaN rates give an empty bar at the baseline.
func (s Scale) Bar(rate float64) (top, height float64) {
	h := rate * s.PixelsPerUnit
	if math.IsNaN(h) || h < 0 {
		h = 0
	}
	if h > s.Baseline {
		h = s.Baseline
	}
	return s.Baseline - h, h
}
