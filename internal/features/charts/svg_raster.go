package charts

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path/filepath"

	"rate-imaging/internal/infra/fs"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// RasterizeSVG draws an SVG document onto a width x height RGBA image.
// Text elements are skipped by the rasterizer, so labels never appear.
func RasterizeSVG(doc []byte, width, height int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(doc), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)
	return img, nil
}

// WriteSVGPreview rasterizes doc into graph-preview.png next to graph.svg.
func WriteSVGPreview(doc []byte, l Layout, outDir string) (fs.Artifact, error) {
	img, err := RasterizeSVG(doc, l.Width, l.Height)
	if err != nil {
		return fs.Artifact{}, err
	}

	path := filepath.Join(outDir, "graph-preview.png")
	if err := fs.WriteAtomic(path, func(w io.Writer) error { return imaging.Encode(w, img, imaging.PNG) }); err != nil {
		return fs.Artifact{}, fmt.Errorf("failed to save svg preview: %w", err)
	}
	return fs.Artifact{Path: path, Caption: "SVG chart, rasterized", Width: l.Width, Height: l.Height}, nil
}
