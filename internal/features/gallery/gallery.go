package gallery

// index.svg: every artifact of a run stacked top to bottom with its caption,
// in the order it was produced.

import (
	"fmt"
	"io"
	"path/filepath"

	"rate-imaging/internal/infra/fs"

	svg "github.com/ajstarks/svgo"
)

const (
	IndexFile = "index.svg"

	margin      = 20
	captionGap  = 18
	entryGap    = 24
	minWidth    = 360
	captionFont = "font-family:Arial;font-size:13px;fill:#333"
)

// Layout computes the canvas size for entries.
func Layout(entries []fs.Artifact) (width, height int) {
	width = minWidth
	height = margin
	for _, e := range entries {
		if w := e.Width + 2*margin; w > width {
			width = w
		}
		height += captionGap + e.Height + entryGap
	}
	return width, height + margin - entryGap
}

// Render writes the gallery. Image hrefs are relative to dir.
func Render(w io.Writer, dir string, entries []fs.Artifact) {
	width, height := Layout(entries)

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title("Bank of England base rate, drawn three ways")
	canvas.Rect(0, 0, width, height, "fill:#fafafa")

	y := margin
	for i, e := range entries {
		href := e.Path
		if rel, err := filepath.Rel(dir, e.Path); err == nil {
			href = filepath.ToSlash(rel)
		}

		canvas.Text(margin, y+13, fmt.Sprintf("%d. %s (%s)", i+1, e.Caption, e.Name()), captionFont)
		y += captionGap
		canvas.Image(margin, y, e.Width, e.Height, href)
		canvas.Rect(margin, y, e.Width, e.Height, "fill:none;stroke:#ccc;stroke-width:1")
		y += e.Height + entryGap
	}
	canvas.End()
}

// Write renders index.svg into dir.
func Write(dir string, entries []fs.Artifact) (fs.Artifact, error) {
	path := filepath.Join(dir, IndexFile)
	err := fs.WriteAtomic(path, func(w io.Writer) error {
		Render(w, dir, entries)
		return nil
	})
	if err != nil {
		return fs.Artifact{}, fmt.Errorf("failed to write gallery: %w", err)
	}

	width, height := Layout(entries)
	return fs.Artifact{Path: path, Caption: "Gallery", Width: width, Height: height}, nil
}
