package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rate-imaging/internal/infra/config"
	"rate-imaging/internal/infra/fs"

	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	got []fs.Artifact
	err error
}

func (f *fakePublisher) Publish(artifacts []fs.Artifact) (int, error) {
	f.got = append(f.got, artifacts...)
	return len(artifacts), f.err
}

func csvBody(months int) string {
	var b strings.Builder
	for i := 0; i < months; i++ {
		b.WriteString("5\n")
	}
	return b.String()
}

func samplePhoto(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 4), uint8(y * 5), 90, 255})
		}
	}
	path := filepath.Join(dir, "sample.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, nil))
	require.NoError(t, f.Close())
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.App.OutputDir = filepath.Join(dir, "out")
	cfg.Photo.Path = samplePhoto(t, dir)
	cfg.Source.Timeout = 5
	cfg.Source.MaxRetries = 0
	return cfg
}

func TestRunProducesEveryArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(csvBody(3797)))
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Source.URL = srv.URL
	pub := &fakePublisher{}

	arts, err := New(cfg, pub).Run(context.Background())
	require.NoError(t, err)

	var names []string
	for _, a := range arts {
		names = append(names, a.Name())
		require.NoError(t, fs.CheckNonEmpty(a.Path))
	}
	require.Equal(t, []string{
		"image-0.png", "image-1.png", "image-2.png", "image-3.png",
		"graph.svg", "graph-preview.png",
		"sample.png", "small.png", "bright.png", "color.png", "emboss.png", "contour.png",
		"index.svg",
	}, names)

	// the gallery itself is not published
	require.Len(t, pub.got, len(arts)-1)

	m, err := fs.LoadManifest(cfg.App.OutputDir)
	require.NoError(t, err)
	require.Equal(t, 317, m.Points)
	require.Equal(t, srv.URL, m.Source)
	require.Len(t, m.Artifacts, len(arts)-1)
}

func TestRunFailsOnMalformedSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("5\nn/a\n"))
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Source.URL = srv.URL

	_, err := New(cfg, nil).Run(context.Background())
	require.ErrorContains(t, err, "line 2")

	_, statErr := os.Stat(filepath.Join(cfg.App.OutputDir, "image-0.png"))
	require.True(t, os.IsNotExist(statErr))
}

func TestRunReportsPublishFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Source.File = filepath.Join(t.TempDir(), "rates.csv")
	require.NoError(t, os.WriteFile(cfg.Source.File, []byte(csvBody(40)), 0644))

	_, err := New(cfg, &fakePublisher{err: errors.New("chat not found")}).Run(context.Background())
	require.ErrorContains(t, err, "chat not found")
}

func TestSegmentsRunAlone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Source.File = filepath.Join(t.TempDir(), "rates.csv")
	require.NoError(t, os.WriteFile(cfg.Source.File, []byte(csvBody(120)), 0644))
	p := New(cfg, nil)

	raster, err := p.RunRaster(context.Background())
	require.NoError(t, err)
	require.Len(t, raster, 4)

	vector, err := p.RunSVG(context.Background())
	require.NoError(t, err)
	require.Len(t, vector, 2)

	photos, err := p.RunPhoto()
	require.NoError(t, err)
	require.Len(t, photos, 6)

	_, err = os.Stat(filepath.Join(cfg.App.OutputDir, "index.svg"))
	require.True(t, os.IsNotExist(err))
}

func TestLayoutFromConfig(t *testing.T) {
	c := config.Default().Chart
	c.Width = 400
	c.Scale = 5
	c.FontPath = "/fonts/a.ttf"

	l := Layout(c)
	require.Equal(t, 400, l.Width)
	require.Equal(t, 5.0, l.Scale)
	require.Equal(t, "/fonts/a.ttf", l.FontPath)
	require.Equal(t, color.RGBA{108, 108, 108, 255}, l.Bar)
}
