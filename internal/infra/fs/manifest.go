package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ManifestFile is written into the output directory after every run.
const ManifestFile = "manifest.json"

// Manifest lists the artifacts of the last run in production order.
type Manifest struct {
	RunID       string     `json:"run_id"`
	GeneratedAt string     `json:"generated_at"` // RFC3339
	Source      string     `json:"source"`
	Points      int        `json:"points"`
	Artifacts   []Artifact `json:"artifacts"`
}

// LoadManifest returns an empty manifest if the file doesn't exist (not an error).
func LoadManifest(outputDir string) (*Manifest, error) {
	filePath := filepath.Join(outputDir, ManifestFile)

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return &Manifest{Artifacts: []Artifact{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	if len(data) == 0 {
		return &Manifest{Artifacts: []Artifact{}}, nil
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}
	if m.Artifacts == nil {
		m.Artifacts = []Artifact{}
	}
	return &m, nil
}

// SaveManifest overwrites manifest.json in outputDir under a fresh run id.
// Artifact paths are stored relative to outputDir.
func SaveManifest(outputDir, source string, points int, artifacts []Artifact) error {
	rel := make([]Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		if r, err := filepath.Rel(outputDir, a.Path); err == nil {
			a.Path = r
		}
		rel = append(rel, a)
	}

	data, err := json.MarshalIndent(Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Source:      source,
		Points:      points,
		Artifacts:   rel,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest JSON: %w", err)
	}

	return WriteFileAtomic(filepath.Join(outputDir, ManifestFile), data)
}
