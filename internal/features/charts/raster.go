package charts

// Procedural raster chart: the canvas is mutated in place and a PNG
// snapshot is taken after each visual addition (image-0 .. image-3).

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strconv"

	"rate-imaging/internal/features/rates"
	"rate-imaging/internal/infra/fs"
	logging "rate-imaging/internal/infra/log"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

type RasterChart struct {
	layout   Layout
	dc       *gg.Context
	fontPath string
	fontSet  bool
}

func NewRasterChart(l Layout) *RasterChart {
	return &RasterChart{layout: l, dc: gg.NewContext(l.Width, l.Height)}
}

// DrawBackground fills the whole canvas.
func (c *RasterChart) DrawBackground() {
	c.dc.SetColor(c.layout.Background)
	c.dc.Clear()
}

// DrawGrid draws one 1px horizontal rule per grid step, across the full width.
func (c *RasterChart) DrawGrid() {
	c.dc.SetColor(c.layout.Grid)
	c.dc.SetLineWidth(1)
	for _, y := range c.layout.gridLines() {
		// +0.5 centers the stroke on pixel row y
		c.dc.DrawLine(0, y+0.5, float64(c.layout.Width), y+0.5)
		c.dc.Stroke()
	}
}

// DrawBars draws one 1px-wide bar per point at x = Index.
func (c *RasterChart) DrawBars(points []rates.Point) {
	scale := c.layout.scale()
	c.dc.SetColor(c.layout.Bar)
	for _, p := range points {
		top, height := scale.Bar(p.Rate)
		if height == 0 {
			continue
		}
		c.dc.DrawRectangle(float64(p.Index), top, 1, height)
		c.dc.Fill()
	}
}

// DrawLabels writes the year under the baseline for every label year.
func (c *RasterChart) DrawLabels(points []rates.Point) {
	if !c.fontSet {
		c.fontPath = loadLabelFont(c.dc, c.layout.FontPath, c.layout.FontSize)
		c.fontSet = true
	}
	c.dc.SetColor(c.layout.Label)
	for _, p := range rates.Labels(points, c.layout.LabelEvery) {
		x := float64(p.Index) - c.layout.LabelOffset
		// ay=1 hangs the text below the baseline like the SVG's dominant-baseline:hanging
		c.dc.DrawStringAnchored(strconv.Itoa(p.Year), x, c.layout.Baseline, 0, 1)
	}
}

// Image exposes the canvas; later draw calls keep mutating it.
func (c *RasterChart) Image() image.Image { return c.dc.Image() }

func (c *RasterChart) Save(path string) error {
	return fs.WriteAtomic(path, func(w io.Writer) error {
		return c.dc.EncodePNG(w)
	})
}

// RenderRaster draws the chart step by step into outDir, one numbered PNG per step.
func RenderRaster(points []rates.Point, l Layout, outDir string) ([]fs.Artifact, error) {
	chart := NewRasterChart(l)

	steps := []struct {
		caption string
		draw    func()
	}{
		{"Blank canvas", chart.DrawBackground},
		{"Axes", chart.DrawGrid},
		{"Yearly rate bars", func() { chart.DrawBars(points) }},
		{"Year labels", func() { chart.DrawLabels(points) }},
	}

	artifacts := make([]fs.Artifact, 0, len(steps))
	for i, step := range steps {
		step.draw()

		path := filepath.Join(outDir, fmt.Sprintf("image-%d.png", i))
		if err := chart.Save(path); err != nil {
			return artifacts, fmt.Errorf("failed to save raster step %d: %w", i, err)
		}
		artifacts = append(artifacts, fs.Artifact{Path: path, Caption: step.caption, Width: l.Width, Height: l.Height})
	}

	logging.LogInfo("Raster chart rendered",
		zap.String("dir", outDir),
		zap.Int("points", len(points)),
		zap.String("font", chart.fontPath))
	return artifacts, nil
}
