package commands

// Root command for Cobra CLI
// Registers the config flags on the root so every subcommand shares them
// Registers all subcommands (run, raster, svg, photo)

import (
	"rate-imaging/internal/infra/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rate-imaging",
	Short: "Bank of England base rate drawn as raster and SVG charts, plus photo filters",
	Long: `rate-imaging downloads the monthly Bank of England base-rate series and renders it
twice: step by step onto a PNG canvas, and as an SVG produced from text templates.
It also runs a set of stock filters (resize, brightness, colour, emboss, contour)
over a sample photo. All results land in one output directory.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(rasterCmd)
	rootCmd.AddCommand(svgCmd)
	rootCmd.AddCommand(photoCmd)
}
