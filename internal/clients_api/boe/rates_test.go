package boe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"rate-imaging/internal/infra/retry"

	"github.com/stretchr/testify/require"
)

func TestParseRatesCountsTokens(t *testing.T) {
	cases := map[string]struct {
		in   string
		want []float64
	}{
		"plain":             {"6\n5.5\n4", []float64{6, 5.5, 4}},
		"trailing newline":  {"6\n5.5\n", []float64{6, 5.5}},
		"crlf":              {"6\r\n5.5\r\n", []float64{6, 5.5}},
		"quoted and spaced": {"\"6\"\n  5.5 \n", []float64{6, 5.5}},
		"single":            {"17", []float64{17}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseRates([]byte(tc.in))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseRatesLengthMatchesLines(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 3797; i++ {
		b.WriteString("5\n")
	}
	got, err := ParseRates([]byte(b.String()))
	require.NoError(t, err)
	require.Len(t, got, 3797)
}

func TestParseRatesErrors(t *testing.T) {
	_, err := ParseRates([]byte("\n\n"))
	require.ErrorIs(t, err, ErrEmptySeries)

	_, err = ParseRates([]byte("6\n\n5"))
	require.ErrorIs(t, err, ErrMalformedRow)
	require.ErrorContains(t, err, "line 2")

	_, err = ParseRates([]byte("6\nabc"))
	require.ErrorIs(t, err, ErrMalformedRow)
	require.ErrorContains(t, err, `"abc"`)
}

func TestLoadRatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.csv")
	require.NoError(t, os.WriteFile(path, []byte("6\n6\n5\n"), 0644))

	got, err := LoadRatesFile(path)
	require.NoError(t, err)
	require.Equal(t, []float64{6, 6, 5}, got)

	_, err = LoadRatesFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func fastClient(retries int) *Client {
	return NewClient(time.Second, retries, WithRetry(retry.Options{
		MaxRetries: retries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
	}))
}

func TestFetchRatesRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("6\n5.5\n"))
	}))
	defer srv.Close()

	got, err := fastClient(3).FetchRates(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, []float64{6, 5.5}, got)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestFetchRatesDoesNotRetryNotFound(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := fastClient(3).FetchRates(context.Background(), srv.URL)
	require.ErrorContains(t, err, "http error (404)")
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestFetchRatesRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("1\n", 100)))
	}))
	defer srv.Close()

	c := NewClient(time.Second, 0, WithMaxResponseSize(16))
	_, err := c.FetchRates(context.Background(), srv.URL)
	require.ErrorContains(t, err, "exceeds 16 bytes")
}

func TestFetchRatesMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("6\n<html>"))
	}))
	defer srv.Close()

	_, err := fastClient(0).FetchRates(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrMalformedRow)
}
