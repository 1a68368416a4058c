package pipeline

// Runs the three demonstrations top to bottom: fetch -> raster -> svg, then
// the photo, then the gallery and the optional publish step.

import (
	"context"
	"fmt"
	"time"

	"rate-imaging/internal/clients_api/boe"
	"rate-imaging/internal/features/charts"
	"rate-imaging/internal/features/gallery"
	"rate-imaging/internal/features/photo"
	"rate-imaging/internal/features/rates"
	"rate-imaging/internal/infra/config"
	"rate-imaging/internal/infra/fs"
	logging "rate-imaging/internal/infra/log"

	"go.uber.org/zap"
)

// Publisher delivers artifacts somewhere outside the output directory.
type Publisher interface {
	Publish(artifacts []fs.Artifact) (int, error)
}

type Pipeline struct {
	cfg       *config.Config
	client    *boe.Client
	publisher Publisher
}

func New(cfg *config.Config, publisher Publisher) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		client:    boe.NewClient(cfg.Source.RequestTimeout(), cfg.Source.MaxRetries),
		publisher: publisher,
	}
}

// Layout builds the chart layout from the chart section of the config.
func Layout(c config.ChartConfig) charts.Layout {
	l := charts.DefaultLayout()
	l.Width, l.Height = c.Width, c.Height
	l.Baseline = c.Baseline
	l.Scale = c.Scale
	l.GridStep = c.GridStep
	l.LabelEvery = c.LabelEvery
	l.LabelOffset = c.LabelOffset
	l.FontPath = c.FontPath
	l.FontSize = c.FontSize
	return l
}

func (p *Pipeline) source() string {
	if p.cfg.Source.File != "" {
		return p.cfg.Source.File
	}
	return p.cfg.Source.URL
}

// LoadSeries fetches (or reads) and parses the monthly rates.
func (p *Pipeline) LoadSeries(ctx context.Context) (*rates.Series, error) {
	var (
		monthly []float64
		err     error
	)
	if p.cfg.Source.File != "" {
		monthly, err = boe.LoadRatesFile(p.cfg.Source.File)
	} else {
		monthly, err = p.client.FetchRates(ctx, p.cfg.Source.URL)
	}
	if err != nil {
		return nil, err
	}
	return rates.NewSeries(monthly, p.cfg.Source.StartYear), nil
}

func (p *Pipeline) points(ctx context.Context) ([]rates.Point, error) {
	series, err := p.LoadSeries(ctx)
	if err != nil {
		return nil, err
	}
	points := series.Sample(p.cfg.Source.SampleStep)
	logging.LogInfo("Series sampled",
		zap.Int("monthly", series.Len()),
		zap.Int("step", p.cfg.Source.SampleStep),
		zap.Int("points", len(points)))
	return points, nil
}

// RunRaster writes image-0.png .. image-3.png.
func (p *Pipeline) RunRaster(ctx context.Context) ([]fs.Artifact, error) {
	points, err := p.points(ctx)
	if err != nil {
		return nil, err
	}
	return charts.RenderRaster(points, Layout(p.cfg.Chart), p.cfg.App.OutputDir)
}

// RunSVG writes graph.svg and graph-preview.png.
func (p *Pipeline) RunSVG(ctx context.Context) ([]fs.Artifact, error) {
	points, err := p.points(ctx)
	if err != nil {
		return nil, err
	}
	return p.svg(points)
}

func (p *Pipeline) svg(points []rates.Point) ([]fs.Artifact, error) {
	layout := Layout(p.cfg.Chart)
	art, doc, err := charts.WriteSVG(points, layout, p.cfg.App.OutputDir)
	if err != nil {
		return nil, err
	}
	preview, err := charts.WriteSVGPreview(doc, layout, p.cfg.App.OutputDir)
	if err != nil {
		return []fs.Artifact{art}, err
	}
	return []fs.Artifact{art, preview}, nil
}

// RunPhoto processes the sample photo.
func (p *Pipeline) RunPhoto() ([]fs.Artifact, error) {
	return photo.Process(p.cfg.Photo.Path, photo.Options{
		Width:  p.cfg.Photo.Width,
		Height: p.cfg.Photo.Height,
		Factor: p.cfg.Photo.Factor,
	}, p.cfg.App.OutputDir)
}

// Run executes every segment once, in order, and returns all artifacts.
func (p *Pipeline) Run(ctx context.Context) ([]fs.Artifact, error) {
	start := time.Now()
	outDir := p.cfg.App.OutputDir
	if err := fs.EnsureDir(outDir); err != nil {
		return nil, err
	}

	points, err := p.points(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate series: %w", err)
	}

	var artifacts []fs.Artifact

	raster, err := charts.RenderRaster(points, Layout(p.cfg.Chart), outDir)
	artifacts = append(artifacts, raster...)
	if err != nil {
		return artifacts, err
	}

	vector, err := p.svg(points)
	artifacts = append(artifacts, vector...)
	if err != nil {
		return artifacts, err
	}

	photos, err := p.RunPhoto()
	artifacts = append(artifacts, photos...)
	if err != nil {
		return artifacts, err
	}

	index, err := gallery.Write(outDir, artifacts)
	if err != nil {
		return artifacts, err
	}

	if err := fs.SaveManifest(outDir, p.source(), len(points), artifacts); err != nil {
		return artifacts, err
	}

	if p.publisher != nil {
		if _, err := p.publisher.Publish(artifacts); err != nil {
			return artifacts, fmt.Errorf("failed to publish artifacts: %w", err)
		}
	}

	artifacts = append(artifacts, index)
	logging.LogSuccess("Run complete",
		zap.String("output_dir", outDir),
		zap.Int("artifacts", len(artifacts)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return artifacts, nil
}
