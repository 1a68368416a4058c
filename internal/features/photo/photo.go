package photo

// Stock post-processing of a sample photo. Every operation reads its own
// clone of the resized image, so results never chain.

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"path/filepath"

	"rate-imaging/internal/infra/fs"
	logging "rate-imaging/internal/infra/log"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// Options controls the resize target and the enhancement strength.
type Options struct {
	Width, Height int
	Factor        float64 // 1.0 leaves the image unchanged
}

func DefaultOptions() Options {
	return Options{Width: 200, Height: 150, Factor: 2.0}
}

// Operation is one independent transformation of the resized image.
type Operation struct {
	File    string
	Caption string
	Apply   func(img image.Image) *image.NRGBA
}

// Operations lists the transformations in output order.
func Operations(factor float64) []Operation {
	return []Operation{
		{"bright.png", "Brightened", func(img image.Image) *image.NRGBA { return Brightness(img, factor) }},
		{"color.png", "Saturated", func(img image.Image) *image.NRGBA { return Color(img, factor) }},
		{"emboss.png", "Embossed", Emboss},
		{"contour.png", "Contours", Contour},
	}
}

// Brightness scales every colour channel by factor. 0 gives black.
func Brightness(img image.Image, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clampChannel(float64(c.R) * factor),
			G: clampChannel(float64(c.G) * factor),
			B: clampChannel(float64(c.B) * factor),
			A: c.A,
		}
	})
}

// Color moves each pixel away from (factor > 1) or towards (factor < 1)
// its ITU-R 601 luma. 0 gives a grayscale image.
func Color(img image.Image, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		l := luma(c)
		return color.NRGBA{
			R: clampChannel(l + (float64(c.R)-l)*factor),
			G: clampChannel(l + (float64(c.G)-l)*factor),
			B: clampChannel(l + (float64(c.B)-l)*factor),
			A: c.A,
		}
	})
}

// Kernels are laid out top row first, as imaging reads them. The emboss
// light source sits at the bottom left: the neighbour at (x-1, y+1) is subtracted.
var (
	embossKernel = [9]float64{
		0, 0, 0,
		0, 1, 0,
		-1, 0, 0,
	}
	contourKernel = [9]float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}
)

// Emboss shades edges against a mid-gray field. The 1px border is copied unchanged.
func Emboss(img image.Image) *image.NRGBA {
	return keepBorder(img, imaging.Convolve3x3(img, embossKernel, &imaging.ConvolveOptions{Bias: 128}))
}

// Contour leaves edges dark on a white field. The 1px border is copied unchanged.
func Contour(img image.Image) *image.NRGBA {
	return keepBorder(img, imaging.Convolve3x3(img, contourKernel, &imaging.ConvolveOptions{Bias: 255}))
}

// keepBorder overwrites the outermost rows and columns of dst with src,
// since those pixels lack a full 3x3 neighbourhood.
func keepBorder(src image.Image, dst *image.NRGBA) *image.NRGBA {
	orig := imaging.Clone(src)
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x > 0 && x < w-1 && y > 0 && y < h-1 {
				continue
			}
			dst.SetNRGBA(x, y, orig.NRGBAAt(x, y))
		}
	}
	return dst
}

func luma(c color.NRGBA) float64 {
	return (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000
}

func clampChannel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

// Process converts the photo at srcPath, resizes it and writes every operation into outDir.
func Process(srcPath string, opts Options, outDir string) ([]fs.Artifact, error) {
	src, err := imaging.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sample photo: %w", err)
	}

	var artifacts []fs.Artifact
	save := func(img image.Image, file, caption string) error {
		path := filepath.Join(outDir, file)
		format, err := imaging.FormatFromFilename(path)
		if err != nil {
			return err
		}
		if err := fs.WriteAtomic(path, func(w io.Writer) error {
			return imaging.Encode(w, img, format)
		}); err != nil {
			return fmt.Errorf("failed to save %s: %w", file, err)
		}
		b := img.Bounds()
		artifacts = append(artifacts, fs.Artifact{Path: path, Caption: caption, Width: b.Dx(), Height: b.Dy()})
		return nil
	}

	if err := save(src, "sample.png", "Sample photo"); err != nil {
		return artifacts, err
	}

	small := imaging.Resize(src, opts.Width, opts.Height, imaging.NearestNeighbor)
	if err := save(small, "small.png", "Resized"); err != nil {
		return artifacts, err
	}

	for _, op := range Operations(opts.Factor) {
		if err := save(op.Apply(imaging.Clone(small)), op.File, op.Caption); err != nil {
			return artifacts, err
		}
	}

	logging.LogInfo("Sample photo processed",
		zap.String("src", srcPath),
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height),
		zap.Int("outputs", len(artifacts)))
	return artifacts, nil
}
