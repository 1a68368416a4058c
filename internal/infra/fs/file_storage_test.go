package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "graph.svg")
	require.NoError(t, WriteFileAtomic(path, []byte("<svg/>")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "<svg/>", string(data))

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestWriteAtomicRejectsEmptyOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	err := WriteAtomic(path, func(w io.Writer) error { return nil })
	require.Error(t, err)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestWriteAtomicKeepsOldFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image-0.png")
	require.NoError(t, WriteFileAtomic(path, []byte("old")))

	err := WriteAtomic(path, func(w io.Writer) error { return errors.New("encode failed") })
	require.ErrorContains(t, err, "encode failed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "old", string(data))
}

func TestManifestRoundTripUsesRelativePaths(t *testing.T) {
	dir := t.TempDir()

	m, err := LoadManifest(dir)
	require.NoError(t, err)
	require.Empty(t, m.Artifacts)

	arts := []Artifact{{Path: filepath.Join(dir, "image-0.png"), Caption: "canvas", Width: 316, Height: 220}}
	require.NoError(t, SaveManifest(dir, "rates.csv", 317, arts))

	m, err = LoadManifest(dir)
	require.NoError(t, err)
	require.Equal(t, 317, m.Points)
	require.Equal(t, "rates.csv", m.Source)
	require.Len(t, m.Artifacts, 1)
	require.Equal(t, "image-0.png", m.Artifacts[0].Path)
	require.Equal(t, "image-0.png", m.Artifacts[0].Name())

	_, err = uuid.Parse(m.RunID)
	require.NoError(t, err)

	first := m.RunID
	require.NoError(t, SaveManifest(dir, "rates.csv", 317, arts))
	m, err = LoadManifest(dir)
	require.NoError(t, err)
	require.NotEqual(t, first, m.RunID)
}
