package commands

// Command to run every demonstration once
// Loads configuration, initializes file logging and the optional Telegram publisher
// Cancels the fetch on SIGINT/SIGTERM

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rate-imaging/internal/clients_api/telegram"
	"rate-imaging/internal/features/pipeline"
	"rate-imaging/internal/infra/config"
	"rate-imaging/internal/infra/fs"
	logging "rate-imaging/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the series and produce every chart, photo and the gallery",
	Long:  `Fetch the rate series, draw the raster snapshots and the SVG chart, process the sample photo, write index.svg and manifest.json, and publish to Telegram when configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd, true, func(ctx context.Context, p *pipeline.Pipeline) ([]fs.Artifact, error) {
			return p.Run(ctx)
		})
	},
}

// newPublisher connects to Telegram. Replaced in tests.
var newPublisher = func(token, chatID string) (pipeline.Publisher, error) {
	pub, err := telegram.NewPublisher(token, chatID)
	if err != nil {
		return nil, err
	}
	return pub, nil
}

// lazyPublisher connects on the first Publish, so a bad token or a dead
// network only fails the run after every file is on disk.
type lazyPublisher struct {
	token, chatID string
	pub           pipeline.Publisher
}

func (l *lazyPublisher) Publish(artifacts []fs.Artifact) (int, error) {
	if l.pub == nil {
		pub, err := newPublisher(l.token, l.chatID)
		if err != nil {
			logging.LogError("Failed to initialize Telegram publisher", zap.Error(err))
			return 0, err
		}
		l.pub = pub
	}
	return l.pub.Publish(artifacts)
}

// setup loads config and prepares logging; every subcommand starts here.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		logging.LogError("Failed to load config", zap.Error(err))
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logging.Init(cfg.App.LogDir); err != nil {
		return nil, err
	}
	logging.LogInfo("Config loaded",
		zap.String("output_dir", cfg.App.OutputDir),
		zap.String("source_url", cfg.Source.URL),
		zap.String("source_file", cfg.Source.File),
		zap.Bool("telegram", cfg.Telegram.Enabled()))
	return cfg, nil
}

func withPipeline(cmd *cobra.Command, publish bool, fn func(ctx context.Context, p *pipeline.Pipeline) ([]fs.Artifact, error)) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logging.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var publisher pipeline.Publisher
	if publish && cfg.Telegram.Enabled() {
		publisher = &lazyPublisher{token: cfg.Telegram.BotToken, chatID: cfg.Telegram.ChatID}
	}

	artifacts, err := fn(ctx, pipeline.New(cfg, publisher))
	if err != nil {
		logging.LogError("Run failed", zap.Error(err), zap.Int("artifacts_written", len(artifacts)))
		return err
	}

	for _, a := range artifacts {
		fmt.Fprintln(cmd.OutOrStdout(), a.Path)
	}
	return nil
}
