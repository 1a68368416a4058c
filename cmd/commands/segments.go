package commands

// Commands that run a single demonstration on its own

import (
	"context"

	"rate-imaging/internal/features/pipeline"
	"rate-imaging/internal/infra/fs"

	"github.com/spf13/cobra"
)

var rasterCmd = &cobra.Command{
	Use:   "raster",
	Short: "Draw the rate chart on a PNG canvas, one snapshot per step",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd, false, func(ctx context.Context, p *pipeline.Pipeline) ([]fs.Artifact, error) {
			return p.RunRaster(ctx)
		})
	},
}

var svgCmd = &cobra.Command{
	Use:   "svg",
	Short: "Render the rate chart as SVG from templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd, false, func(ctx context.Context, p *pipeline.Pipeline) ([]fs.Artifact, error) {
			return p.RunSVG(ctx)
		})
	},
}

var photoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Resize the sample photo and apply brightness, colour, emboss and contour",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd, false, func(ctx context.Context, p *pipeline.Pipeline) ([]fs.Artifact, error) {
			return p.RunPhoto()
		})
	},
}
