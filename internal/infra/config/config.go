package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultSourceURL is the published Bank of England base-rate sheet, one monthly value per row.
const DefaultSourceURL = "https://spreadsheets.google.com/pub?key=0AonYZs4MzlZbcGhOdG0zTG1EWkVQTjBYWm9pWHVRWkE&output=csv&range=B2:B3798"

type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Photo    PhotoConfig    `mapstructure:"photo"`
	App      AppConfig      `mapstructure:"app"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// SourceConfig - where the monthly rate series comes from
type SourceConfig struct {
	URL        string `mapstructure:"url"`
	File       string `mapstructure:"file"` // local CSV, wins over URL when set
	Timeout    int    `mapstructure:"timeout"`
	MaxRetries int    `mapstructure:"max_retries"`
	SampleStep int    `mapstructure:"sample_step"` // 12 = one point per year
	StartYear  int    `mapstructure:"start_year"`
}

// ChartConfig - geometry shared by the raster and SVG renderings
type ChartConfig struct {
	Width       int     `mapstructure:"width"`
	Height      int     `mapstructure:"height"`
	Baseline    float64 `mapstructure:"baseline"`
	Scale       float64 `mapstructure:"scale"` // pixels per percentage point
	GridStep    float64 `mapstructure:"grid_step"`
	LabelEvery  int     `mapstructure:"label_every"`
	LabelOffset float64 `mapstructure:"label_offset"`
	FontPath    string  `mapstructure:"font_path"`
	FontSize    float64 `mapstructure:"font_size"`
}

type PhotoConfig struct {
	Path   string  `mapstructure:"path"`
	Width  int     `mapstructure:"width"`
	Height int     `mapstructure:"height"`
	Factor float64 `mapstructure:"factor"` // brightness and color enhancement
}

type AppConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	LogDir    string `mapstructure:"log_dir"`
}

// TelegramConfig - optional delivery of the results; empty token disables it
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// Enabled reports whether results should be published.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// RequestTimeout converts Source.Timeout (seconds).
func (s SourceConfig) RequestTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// RegisterFlags declares every config key on fs so cobra can parse them.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("source.url", DefaultSourceURL, "URL of the monthly rate CSV (env: RATES_SOURCE_URL)")
	fs.String("source.file", "", "Read the rate CSV from this file instead of the URL (env: RATES_SOURCE_FILE)")
	fs.Int("source.timeout", 30, "Request timeout in seconds (env: RATES_SOURCE_TIMEOUT)")
	fs.Int("source.max_retries", 3, "Max retries for failed requests (env: RATES_SOURCE_MAX_RETRIES)")
	fs.Int("source.sample_step", 12, "Keep every Nth monthly value (env: RATES_SAMPLE_STEP)")
	fs.Int("source.start_year", 1694, "Year of the first value (env: RATES_START_YEAR)")

	fs.Int("chart.width", 316, "Canvas width in px")
	fs.Int("chart.height", 220, "Canvas height in px")
	fs.Float64("chart.baseline", 200, "Y of the zero line")
	fs.Float64("chart.scale", 10, "Pixels per percentage point")
	fs.Float64("chart.grid_step", 50, "Distance between grid lines in px")
	fs.Int("chart.label_every", 50, "Label years divisible by this")
	fs.Float64("chart.label_offset", 12, "Shift labels left by this many px")
	fs.String("chart.font_path", "", "TrueType font for labels (env: RATES_FONT_PATH)")
	fs.Float64("chart.font_size", 10, "Label font size")

	fs.String("photo.path", "sample.jpg", "Sample photo to process (env: RATES_PHOTO_PATH)")
	fs.Int("photo.width", 200, "Resize width")
	fs.Int("photo.height", 150, "Resize height")
	fs.Float64("photo.factor", 2.0, "Brightness and color enhancement factor")

	fs.String("app.output_dir", "out", "Output directory (env: RATES_OUTPUT_DIR)")
	fs.String("app.log_dir", "logs", "Log directory (env: RATES_LOG_DIR)")

	fs.String("telegram.bot_token", "", "Bot token for publishing results (env: TELEGRAM_BOT_TOKEN)")
	fs.String("telegram.chat_id", "", "Chat ID for publishing results (env: TELEGRAM_CHAT_ID)")
}

// LoadConfig resolves defaults, config.yaml, .env, environment and flags, in that order of precedence (last wins).
// fs may be nil.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	}

	setupEnvAliases(v)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("source.url", "RATES_SOURCE_URL")
	v.BindEnv("source.file", "RATES_SOURCE_FILE")
	v.BindEnv("source.timeout", "RATES_SOURCE_TIMEOUT")
	v.BindEnv("source.max_retries", "RATES_SOURCE_MAX_RETRIES")
	v.BindEnv("source.sample_step", "RATES_SAMPLE_STEP")
	v.BindEnv("source.start_year", "RATES_START_YEAR")

	v.BindEnv("chart.font_path", "RATES_FONT_PATH")

	v.BindEnv("photo.path", "RATES_PHOTO_PATH")

	v.BindEnv("app.output_dir", "RATES_OUTPUT_DIR")
	v.BindEnv("app.log_dir", "RATES_LOG_DIR")

	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
}

func setDefaults(v *viper.Viper) {
	// Source
	v.SetDefault("source.url", DefaultSourceURL)
	v.SetDefault("source.file", "")
	v.SetDefault("source.timeout", 30)
	v.SetDefault("source.max_retries", 3)
	v.SetDefault("source.sample_step", 12)
	v.SetDefault("source.start_year", 1694)

	// Chart
	v.SetDefault("chart.width", 316) // one px per year, 1694..2009
	v.SetDefault("chart.height", 220)
	v.SetDefault("chart.baseline", 200.0) // y = 0..200 plots 0..20%
	v.SetDefault("chart.scale", 10.0)
	v.SetDefault("chart.grid_step", 50.0)
	v.SetDefault("chart.label_every", 50)
	v.SetDefault("chart.label_offset", 12.0)
	v.SetDefault("chart.font_path", "")
	v.SetDefault("chart.font_size", 10.0)

	// Photo
	v.SetDefault("photo.path", "sample.jpg")
	v.SetDefault("photo.width", 200)
	v.SetDefault("photo.height", 150)
	v.SetDefault("photo.factor", 2.0)

	// App
	v.SetDefault("app.output_dir", "out")
	v.SetDefault("app.log_dir", "logs")

	// Telegram
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
}

// Default returns the configuration with every key at its default value.
// It panics if the defaults don't decode into Config.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Validate(cfg *Config) error {
	if cfg.Source.URL == "" && cfg.Source.File == "" {
		return fmt.Errorf("one of source.url or source.file is required")
	}
	if cfg.Source.SampleStep < 1 {
		return fmt.Errorf("source.sample_step must be >= 1, got %d", cfg.Source.SampleStep)
	}
	if cfg.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive, got %d", cfg.Source.Timeout)
	}
	if cfg.Chart.Width <= 0 || cfg.Chart.Height <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", cfg.Chart.Width, cfg.Chart.Height)
	}
	if cfg.Chart.Baseline <= 0 || cfg.Chart.Baseline > float64(cfg.Chart.Height) {
		return fmt.Errorf("chart.baseline must be within (0, %d], got %g", cfg.Chart.Height, cfg.Chart.Baseline)
	}
	if cfg.Chart.Scale <= 0 {
		return fmt.Errorf("chart.scale must be positive, got %g", cfg.Chart.Scale)
	}
	if cfg.Chart.GridStep <= 0 {
		return fmt.Errorf("chart.grid_step must be positive, got %g", cfg.Chart.GridStep)
	}
	if cfg.Chart.LabelEvery <= 0 {
		return fmt.Errorf("chart.label_every must be positive, got %d", cfg.Chart.LabelEvery)
	}
	if cfg.Photo.Width <= 0 || cfg.Photo.Height <= 0 {
		return fmt.Errorf("photo size must be positive, got %dx%d", cfg.Photo.Width, cfg.Photo.Height)
	}
	if cfg.App.OutputDir == "" {
		return fmt.Errorf("app.output_dir is required")
	}
	return nil
}
