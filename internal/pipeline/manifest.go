package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/regulqa/internal/model"
	"github.com/ppiankov/regulqa/internal/util"
)

// ManifestFile is the name of the manifest written next to downloads and harvested CSVs
const ManifestFile = "manifest.json"

// NewManifest starts a manifest for one run
func NewManifest() *model.Manifest {
	return &model.Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

// WriteManifest writes m as indented JSON
func WriteManifest(path string, m *model.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := util.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
