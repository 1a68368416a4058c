package charts

import (
	"fmt"
	"image/color"

	"rate-imaging/internal/features/rates"
)

// Layout is the geometry and palette shared by the raster and SVG charts.
type Layout struct {
	Width, Height int
	Baseline      float64 // y of the zero line
	Scale         float64 // px per percentage point
	GridStep      float64
	LabelEvery    int
	LabelOffset   float64 // labels start this many px left of their bar
	FontPath      string
	FontSize      float64

	Background color.RGBA
	Grid       color.RGBA
	Bar        color.RGBA
	Label      color.RGBA
}

// DefaultLayout is a 316x220 canvas: one px per year, 0..20% over y=200..0.
func DefaultLayout() Layout {
	return Layout{
		Width:       316,
		Height:      220,
		Baseline:    200,
		Scale:       10,
		GridStep:    50,
		LabelEvery:  50,
		LabelOffset: 12,
		FontSize:    10,

		Background: color.RGBA{224, 224, 224, 255},
		Grid:       color.RGBA{255, 255, 255, 255},
		Bar:        color.RGBA{108, 108, 108, 255},
		Label:      color.RGBA{0, 0, 0, 255},
	}
}

func (l Layout) scale() rates.Scale {
	return rates.Scale{Baseline: l.Baseline, PixelsPerUnit: l.Scale}
}

// gridLines lists the y of every horizontal rule: GridStep, 2*GridStep, ... up to Baseline.
func (l Layout) gridLines() []float64 {
	var ys []float64
	if l.GridStep <= 0 {
		return ys
	}
	for y := l.GridStep; y <= l.Baseline; y += l.GridStep {
		ys = append(ys, y)
	}
	return ys
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
