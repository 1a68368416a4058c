package charts

// Vector chart produced by {{tag}} substitution into SVG fragments.
// Geometry comes from the same Layout and rates.Scale as the raster chart.

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"rate-imaging/internal/features/rates"
	"rate-imaging/internal/infra/fs"
	logging "rate-imaging/internal/infra/log"

	"github.com/valyala/fasttemplate"
	"go.uber.org/zap"
)

const (
	documentTemplate = `<svg width="{{width}}" height="{{height}}" viewBox="0 0 {{width}} {{height}}" xmlns="http://www.w3.org/2000/svg">
<rect x="0" y="0" width="{{width}}" height="{{height}}" style="fill:{{background}}"/>
{{grid}}
{{bars}}
<g style="font-family:Arial;font-size:{{font_size}}px" fill="{{label_color}}">
{{labels}}
</g></svg>
`
	gridTemplate  = `<line x1="0" x2="{{width}}" y1="{{y}}" y2="{{y}}" stroke-width="1" stroke="{{color}}"/>`
	barTemplate   = ` <rect x="{{x}}" width="1" y="{{y}}" height="{{height}}" fill="{{color}}" stroke-width="0.1" stroke="#fff" />`
	labelTemplate = `  <text x="{{x}}" y="{{y}}" style="dominant-baseline:hanging">{{year}}</text>`
)

var (
	documentTmpl = fasttemplate.New(documentTemplate, "{{", "}}")
	gridTmpl     = fasttemplate.New(gridTemplate, "{{", "}}")
	barTmpl      = fasttemplate.New(barTemplate, "{{", "}}")
	labelTmpl    = fasttemplate.New(labelTemplate, "{{", "}}")
)

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// RenderSVG returns the chart document. Bars with zero height are still emitted.
func RenderSVG(points []rates.Point, l Layout) []byte {
	scale := l.scale()

	grid := make([]string, 0, 4)
	for _, y := range l.gridLines() {
		grid = append(grid, gridTmpl.ExecuteString(map[string]interface{}{
			"width": strconv.Itoa(l.Width),
			"y":     num(y),
			"color": hexColor(l.Grid),
		}))
	}

	bars := make([]string, 0, len(points))
	for _, p := range points {
		top, height := scale.Bar(p.Rate)
		bars = append(bars, barTmpl.ExecuteString(map[string]interface{}{
			"x":      strconv.Itoa(p.Index),
			"y":      num(top),
			"height": num(height),
			"color":  hexColor(l.Bar),
		}))
	}

	var labels []string
	for _, p := range rates.Labels(points, l.LabelEvery) {
		labels = append(labels, labelTmpl.ExecuteString(map[string]interface{}{
			"x":    num(float64(p.Index) - l.LabelOffset),
			"y":    num(l.Baseline),
			"year": strconv.Itoa(p.Year),
		}))
	}

	doc := documentTmpl.ExecuteString(map[string]interface{}{
		"width":       strconv.Itoa(l.Width),
		"height":      strconv.Itoa(l.Height),
		"background":  hexColor(l.Background),
		"grid":        strings.Join(grid, "\n"),
		"bars":        strings.Join(bars, "\n"),
		"font_size":   num(l.FontSize),
		"label_color": hexColor(l.Label),
		"labels":      strings.Join(labels, "\n"),
	})
	return []byte(doc)
}

// WriteSVG renders graph.svg into outDir.
func WriteSVG(points []rates.Point, l Layout, outDir string) (fs.Artifact, []byte, error) {
	doc := RenderSVG(points, l)
	path := filepath.Join(outDir, "graph.svg")
	if err := fs.WriteFileAtomic(path, doc); err != nil {
		return fs.Artifact{}, nil, fmt.Errorf("failed to save svg chart: %w", err)
	}

	logging.LogInfo("SVG chart rendered",
		zap.String("path", path),
		zap.Int("points", len(points)),
		zap.Int("bytes", len(doc)))
	return fs.Artifact{Path: path, Caption: "SVG chart", Width: l.Width, Height: l.Height}, doc, nil
}
