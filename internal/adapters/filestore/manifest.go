package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/jbatch/internal/models"
)

// LoadManifest reads and decodes a manifest file. A file that is not valid
// JSON is a ValidationError: the manifest is the audit trail and a broken
// one must never be executed against.
func LoadManifest(path string) (*models.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m models.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &models.ValidationError{
			Subject: path,
			Reason:  fmt.Sprintf("manifest is not valid JSON: %v", err),
		}
	}
	return &m, nil
}

// SaveManifest persists a manifest atomically: write to a temp file in the
// same directory, fsync, then rename over the target. The executor calls
// this after every item's outcome, so a crash mid-run can only lose the
// in-flight item, never a previously persisted result.
func SaveManifest(path string, m *models.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-ops once the rename has happened
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp manifest: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp manifest: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace manifest: %w", err)
	}
	return nil
}

// WriteArtifact writes one generated XML document.
func WriteArtifact(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}

// ManifestExists reports whether dir already contains a manifest from a
// prior generation run. Only a confirmed absence counts as absence: a stat
// failure (permissions, broken path) surfaces rather than silently waving
// the batch past the conflict check.
func ManifestExists(dir string) (bool, error) {
	_, err := os.Stat(filepath.Join(dir, models.ManifestFileName))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check for existing manifest: %w", err)
}
