// Package app implements the primary service interfaces.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/example/jbatch/internal/adapters/filestore"
	"github.com/example/jbatch/internal/adapters/jbxml"
	"github.com/example/jbatch/internal/core/material"
	"github.com/example/jbatch/internal/models"
	"github.com/example/jbatch/internal/ports/primary"
)

// GeneratorServiceImpl implements the GeneratorService interface.
type GeneratorServiceImpl struct {
	now func() time.Time
}

var _ primary.GeneratorService = (*GeneratorServiceImpl)(nil)

// NewGeneratorService creates a new GeneratorService.
func NewGeneratorService() *GeneratorServiceImpl {
	return &GeneratorServiceImpl{now: time.Now}
}

// Generate produces one query/update XML pair per identifier plus a single
// manifest, every item pending. All validation happens before anything is
// written; the manifest is written last, so a failed run never leaves a
// manifest behind.
func (s *GeneratorServiceImpl) Generate(ctx context.Context, req primary.GenerateRequest) (*primary.GenerateResponse, error) {
	if req.Quantity == 0 {
		return nil, &models.ValidationError{Subject: "quantity", Reason: "adjustment quantity must be non-zero"}
	}

	lines, err := filestore.ReadInputLines(req.InputPath)
	if err != nil {
		return nil, err
	}
	ids, err := material.ValidateBatch(lines)
	if err != nil {
		return nil, err
	}

	exists, err := filestore.ManifestExists(req.OutputDir)
	if err != nil {
		return nil, err
	}
	if exists && !req.Overwrite {
		return nil, &models.ConflictError{Path: filepath.Join(req.OutputDir, models.ManifestFileName)}
	}

	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manifest := &models.Manifest{
		Version:     models.ManifestVersion,
		GeneratedAt: s.now().UTC(),
		InputFile:   req.InputPath,
		OutputDir:   req.OutputDir,
		ReasonID:    req.ReasonID,
		Items:       make([]models.WorkItem, 0, len(ids)),
	}

	// Track written artifacts so a late failure can clean up: the contract
	// is full batch or nothing.
	var written []string
	cleanup := func() {
		for _, p := range written {
			_ = os.Remove(p)
		}
	}

	items := make([]primary.GeneratedItem, 0, len(ids))
	for _, id := range ids {
		queryName := fmt.Sprintf("query_%s.xml", id)
		updateName := fmt.Sprintf("update_%s.xml", id)

		queryPath := filepath.Join(req.OutputDir, queryName)
		if err := filestore.WriteArtifact(queryPath, jbxml.BuildQuery(id)); err != nil {
			cleanup()
			return nil, fmt.Errorf("material %s: %w", id, err)
		}
		written = append(written, queryPath)

		updatePath := filepath.Join(req.OutputDir, updateName)
		if err := filestore.WriteArtifact(updatePath, jbxml.BuildUpdate(id, req.Quantity, req.ReasonID)); err != nil {
			cleanup()
			return nil, fmt.Errorf("material %s: %w", id, err)
		}
		written = append(written, updatePath)

		manifest.Items = append(manifest.Items, models.WorkItem{
			ID:             id,
			QueryPath:      queryName,
			UpdatePath:     updateName,
			QuantityChange: req.Quantity,
			Status:         models.StatusPending,
		})
		items = append(items, primary.GeneratedItem{ID: id, QueryPath: queryName, UpdatePath: updateName})
	}

	manifestPath := filepath.Join(req.OutputDir, models.ManifestFileName)
	if err := filestore.SaveManifest(manifestPath, manifest); err != nil {
		cleanup()
		return nil, err
	}

	return &primary.GenerateResponse{ManifestPath: manifestPath, Items: items}, nil
}
