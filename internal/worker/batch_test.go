package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tanwk/counselor/internal/model"
)

// mockProcessor implements Processor
type mockProcessor struct {
	shouldErr bool
}

func (m *mockProcessor) Process(ctx context.Context, query string) *model.Result {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.shouldErr {
		return &model.Result{
			Status:    model.StatusError,
			Query:     query,
			ErrorKind: model.ErrKindBackendUnavailable,
			Error:     "backend down",
		}
	}
	return &model.Result{
		Status:   model.StatusSuccess,
		Query:    query,
		KeyTerms: []string{"personal data"},
	}
}

func TestBatchProcessor_ProcessQueries(t *testing.T) {
	processor := NewBatchProcessor(&mockProcessor{}, 2)

	queries := []string{
		"Can an employee access her appraisals?",
		"Does a breach need to be reported?",
		"Can data be sent overseas?",
	}
	results := processor.ProcessQueries(context.Background(), queries)

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	successCount := 0
	for _, res := range results {
		if res.GetError() == nil {
			successCount++
			if res.Result == nil || res.Result.Status != model.StatusSuccess {
				t.Errorf("expected success result for %q", res.Query)
			}
		} else {
			t.Errorf("unexpected error for %q: %v", res.Query, res.GetError())
		}
	}

	if successCount != 3 {
		t.Errorf("expected 3 successes, got %d", successCount)
	}
}

func TestBatchProcessor_ProcessQueries_Error(t *testing.T) {
	processor := NewBatchProcessor(&mockProcessor{shouldErr: true}, 2)

	results := processor.ProcessQueries(context.Background(), []string{"query"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].GetError() == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Result.Status != model.StatusError {
		t.Errorf("expected error status, got %s", results[0].Result.Status)
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockProcessor{}, 2)

	results := processor.ProcessQueries(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestReadQueriesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	content := `# batch of test queries
Can an employee access her appraisals?

Does a breach need to be reported?

# trailing comment
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	queries, err := ReadQueriesFromFile(path)
	if err != nil {
		t.Fatalf("ReadQueriesFromFile failed: %v", err)
	}

	if len(queries) != 2 {
		t.Fatalf("expected 2 queries, got %d: %v", len(queries), queries)
	}
	if queries[0] != "Can an employee access her appraisals?" {
		t.Errorf("unexpected first query: %q", queries[0])
	}
}

func TestReadQueriesFromFile_Missing(t *testing.T) {
	if _, err := ReadQueriesFromFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	if err := os.WriteFile(path, []byte("query one\nquery two\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	processor := NewBatchProcessor(&mockProcessor{}, 2)
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}
