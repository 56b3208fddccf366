package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/example/jbatch/internal/ports/primary"
	"github.com/example/jbatch/internal/ports/secondary"
)

// ============================================================================
// Stub transport
// ============================================================================

// stubMaterial is one row of the stub's in-memory material database.
type stubMaterial struct {
	onHand      int
	lastUpdated string
}

// stubTransport implements secondary.Transport against an in-memory material
// table, mimicking the RequestProcessor's behavior: query returns the
// LastUpdated optimistic-lock token, update checks it before applying.
type stubTransport struct {
	t         *testing.T
	materials map[string]*stubMaterial

	// forbidUpdates fails the test if a mutating MaterialModRq arrives.
	// Used by dry-run tests.
	forbidUpdates bool

	queryErrs          map[string]error  // per-material query failure
	updateErrs         map[string]error  // per-material update failure
	rawUpdateResponses map[string]string // per-material canned update response

	queryCalls  []string
	updateCalls []string
	closed      bool
}

var _ secondary.Transport = (*stubTransport)(nil)

func newStubTransport(t *testing.T, ids ...string) *stubTransport {
	materials := make(map[string]*stubMaterial, len(ids))
	for _, id := range ids {
		materials[id] = &stubMaterial{onHand: 100, lastUpdated: "2026-08-20T10:30:00"}
	}
	return &stubTransport{
		t:                  t,
		materials:          materials,
		queryErrs:          make(map[string]error),
		updateErrs:         make(map[string]error),
		rawUpdateResponses: make(map[string]string),
	}
}

var (
	idPattern       = regexp.MustCompile(`<ID>([0-9]+)</ID>`)
	quantityPattern = regexp.MustCompile(`<Quantity>(-?[0-9]+)</Quantity>`)
	lastUpdPattern  = regexp.MustCompile(`<LastUpdated>([^<]*)</LastUpdated>`)
)

func (s *stubTransport) Submit(ctx context.Context, doc string) (string, error) {
	switch {
	case strings.Contains(doc, "<MaterialQueryRq>"):
		return s.handleQuery(doc)
	case strings.Contains(doc, "<MaterialModRq>"):
		return s.handleUpdate(doc)
	default:
		return "", fmt.Errorf("stub: unknown request type:\n%s", doc)
	}
}

func (s *stubTransport) Close(ctx context.Context) error {
	s.closed = true
	return nil
}

func (s *stubTransport) handleQuery(doc string) (string, error) {
	id := extract(idPattern, doc)
	s.queryCalls = append(s.queryCalls, id)

	if err := s.queryErrs[id]; err != nil {
		return "", err
	}
	mat, ok := s.materials[id]
	if !ok {
		return errorResponse("Material not found: " + id), nil
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<JBXML>
    <JBXMLRespond>
        <MaterialQueryRs>
            <StatusCode>0</StatusCode>
            <StatusMessage>Success</StatusMessage>
            <Material>
                <ID>%s</ID>
                <OnHand>%d</OnHand>
                <LastUpdated>%s</LastUpdated>
            </Material>
        </MaterialQueryRs>
    </JBXMLRespond>
</JBXML>`, id, mat.onHand, mat.lastUpdated), nil
}

func (s *stubTransport) handleUpdate(doc string) (string, error) {
	if s.forbidUpdates {
		s.t.Fatalf("mutating MaterialModRq submitted during a dry run:\n%s", doc)
	}

	id := extract(idPattern, doc)
	s.updateCalls = append(s.updateCalls, id)

	if err := s.updateErrs[id]; err != nil {
		return "", err
	}
	if raw, ok := s.rawUpdateResponses[id]; ok {
		return raw, nil
	}
	// the live transport owns session binding, so the session placeholder
	// may legitimately still be present here; LastUpdated must not be
	if strings.Contains(doc, "{{LAST_UPDATED}}") {
		return errorResponse("unresolved LastUpdated placeholder in request"), nil
	}

	mat, ok := s.materials[id]
	if !ok {
		return errorResponse("Material not found: " + id), nil
	}
	if got := extract(lastUpdPattern, doc); got != mat.lastUpdated {
		return errorResponse(fmt.Sprintf("LastUpdated mismatch. Expected: %s, Got: %s", mat.lastUpdated, got)), nil
	}

	qty, err := strconv.Atoi(extract(quantityPattern, doc))
	if err != nil {
		return errorResponse("No Quantity in update"), nil
	}
	mat.onHand += qty
	mat.lastUpdated = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC).Format("2006-01-02T15:04:05")

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<JBXML>
    <JBXMLRespond>
        <MaterialModRs>
            <StatusCode>0</StatusCode>
            <StatusMessage>Success</StatusMessage>
            <MaterialRet>
                <ID>%s</ID>
                <OnHand>%d</OnHand>
            </MaterialRet>
        </MaterialModRs>
    </JBXMLRespond>
</JBXML>`, id, mat.onHand), nil
}

func errorResponse(message string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<JBXML>
    <JBXMLRespond>
        <StatusCode>1</StatusCode>
        <StatusMessage>%s</StatusMessage>
    </JBXMLRespond>
</JBXML>`, message)
}

func extract(re *regexp.Regexp, doc string) string {
	m := re.FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	return m[1]
}

// ============================================================================
// Stub run repository
// ============================================================================

type stubRunRepository struct {
	created   []*secondary.RunRecord
	createErr error
}

var _ secondary.RunRepository = (*stubRunRepository)(nil)

func (s *stubRunRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("RUN-%03d", len(s.created)+1), nil
}

func (s *stubRunRepository) Create(ctx context.Context, rec *secondary.RunRecord) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, rec)
	return nil
}

func (s *stubRunRepository) List(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	return s.created, nil
}

// ============================================================================
// Batch fixtures
// ============================================================================

// writeInputFile writes a generator input file with one identifier per line.
func writeInputFile(t *testing.T, dir string, ids []string) string {
	t.Helper()
	path := filepath.Join(dir, "materials.txt")
	content := "# test batch\n" + strings.Join(ids, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write input file: %v", err)
	}
	return path
}

// generateBatch runs the real generator and returns the manifest path.
func generateBatch(t *testing.T, ids []string) string {
	t.Helper()
	dir := t.TempDir()
	input := writeInputFile(t, dir, ids)

	resp, err := NewGeneratorService().Generate(context.Background(), primary.GenerateRequest{
		InputPath: input,
		OutputDir: filepath.Join(dir, "batch"),
		ReasonID:  "ADJUST",
		Quantity:  -1,
	})
	if err != nil {
		t.Fatalf("failed to generate batch: %v", err)
	}
	return resp.ManifestPath
}
