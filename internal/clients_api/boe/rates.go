package boe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"rate-imaging/internal/infra/log"

	"go.uber.org/zap"
)

var (
	// ErrEmptySeries is returned when the source holds no values at all.
	ErrEmptySeries = errors.New("rate series is empty")
	// ErrMalformedRow wraps every per-line parse failure.
	ErrMalformedRow = errors.New("malformed rate row")
)

// FetchRates downloads the sheet at url and parses it.
func (c *Client) FetchRates(ctx context.Context, url string) ([]float64, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	rates, err := ParseRates(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rates from %s: %w", url, err)
	}
	log.LogInfo("Fetched rate series", zap.String("url", url), zap.Int("values", len(rates)))
	return rates, nil
}

// LoadRatesFile reads the same newline-delimited text from disk.
func LoadRatesFile(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates file: %w", err)
	}
	rates, err := ParseRates(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rates from %s: %w", path, err)
	}
	log.LogInfo("Loaded rate series", zap.String("path", path), zap.Int("values", len(rates)))
	return rates, nil
}

// ParseRates turns one-value-per-line text into floats, one per line.
// Trailing newlines are dropped; any other empty or non-numeric line is an error.
func ParseRates(raw []byte) ([]float64, error) {
	text := string(bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n")))
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptySeries
	}

	lines := strings.Split(text, "\n")
	rates := make([]float64, 0, len(lines))
	for i, line := range lines {
		token := strings.Trim(strings.TrimSpace(line), `"`)
		if token == "" {
			return nil, fmt.Errorf("%w: line %d is empty", ErrMalformedRow, i+1)
		}
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedRow, i+1, token)
		}
		rates = append(rates, v)
	}
	return rates, nil
}
