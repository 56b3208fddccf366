package filestore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/jbatch/internal/models"
)

func TestReadInputLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "materials.txt")
	content := "# staged batch\n10000001\n\n  10000002  \n# trailing comment\n10000003\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	lines, err := ReadInputLines(path)
	if err != nil {
		t.Fatalf("ReadInputLines failed: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	// line numbers refer to the original file, not the filtered list
	want := []struct {
		number int
		id     string
	}{{2, "10000001"}, {4, "10000002"}, {6, "10000003"}}
	for i, w := range want {
		if lines[i].Number != w.number || lines[i].ID != w.id {
			t.Errorf("lines[%d] = {%d %q}, want {%d %q}", i, lines[i].Number, lines[i].ID, w.number, w.id)
		}
	}
}

func TestReadInputLinesMissingFile(t *testing.T) {
	if _, err := ReadInputLines(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing input file")
	}
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, models.ManifestFileName)

	applied := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	m := &models.Manifest{
		Version:     models.ManifestVersion,
		GeneratedAt: time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC),
		InputFile:   "materials.txt",
		OutputDir:   dir,
		ReasonID:    "ADJUST",
		Items: []models.WorkItem{
			{ID: "10000003", QueryPath: "query_10000003.xml", UpdatePath: "update_10000003.xml", QuantityChange: -1, Status: models.StatusApplied, AppliedAt: &applied},
			{ID: "10000001", QueryPath: "query_10000001.xml", UpdatePath: "update_10000001.xml", QuantityChange: -2, Status: models.StatusFailed, LastError: "transport error: boom"},
			{ID: "10000002", QueryPath: "query_10000002.xml", UpdatePath: "update_10000002.xml", QuantityChange: -1, Status: models.StatusPending},
		},
	}

	if err := SaveManifest(path, m); err != nil {
		t.Fatalf("SaveManifest failed: %v", err)
	}
	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if err := loaded.Validate(); err != nil {
		t.Fatalf("round-tripped manifest invalid: %v", err)
	}

	if len(loaded.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(loaded.Items))
	}
	// order and artifact paths must survive persistence unchanged
	for i, item := range m.Items {
		got := loaded.Items[i]
		if got.ID != item.ID || got.QueryPath != item.QueryPath || got.UpdatePath != item.UpdatePath {
			t.Errorf("item %d changed across round trip: got %+v want %+v", i, got, item)
		}
		if got.Status != item.Status || got.LastError != item.LastError {
			t.Errorf("item %d outcome changed: got %+v want %+v", i, got, item)
		}
	}
	if loaded.Items[0].AppliedAt == nil || !loaded.Items[0].AppliedAt.Equal(applied) {
		t.Errorf("applied_at not preserved: %v", loaded.Items[0].AppliedAt)
	}

	// atomic save leaves no temp files behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("output dir should contain only the manifest, found %d entries", len(entries))
	}
}

func TestLoadManifestRejectsBrokenJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, models.ManifestFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := LoadManifest(path)
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for broken manifest, got %v", err)
	}
}

func TestManifestExists(t *testing.T) {
	dir := t.TempDir()
	exists, err := ManifestExists(dir)
	if err != nil {
		t.Fatalf("ManifestExists failed: %v", err)
	}
	if exists {
		t.Error("empty dir should not report a manifest")
	}

	if err := os.WriteFile(filepath.Join(dir, models.ManifestFileName), []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	exists, err = ManifestExists(dir)
	if err != nil {
		t.Fatalf("ManifestExists failed: %v", err)
	}
	if !exists {
		t.Error("manifest should be detected")
	}
}

func TestManifestExistsSurfacesStatFailure(t *testing.T) {
	dir := t.TempDir()
	// a regular file where the batch directory should be: the stat fails
	// with something other than not-exist, and that must not pass for
	// "no manifest here"
	blocked := filepath.Join(dir, "batch")
	if err := os.WriteFile(blocked, []byte("not a directory"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := ManifestExists(blocked); err == nil {
		t.Error("expected an error when the directory cannot be inspected")
	}
}
