package publish

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/tanwk/counselor/internal/model"
)

func sampleResult(query string) *model.Result {
	analysis := model.NewAnalysisResult()
	analysis.Set("S 21(1) PDPA", "The organisation must provide access.")
	return &model.Result{
		Status:   model.StatusSuccess,
		Query:    query,
		KeyTerms: []string{"access", "personal data"},
		Analysis: analysis,
	}
}

func TestPublish_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.json")
	p := NewPublisher(path)

	if err := p.Publish(sampleResult("query one")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read published file: %v", err)
	}

	var got model.Result
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Published file is not valid JSON: %v", err)
	}
	if got.Status != model.StatusSuccess || got.Query != "query one" {
		t.Errorf("Round trip mismatch: %+v", got)
	}
	if got.Seq != 1 {
		t.Errorf("Seq = %d, want 1", got.Seq)
	}
	if got.ContentHash == "" || len(got.ContentHash) != 64 {
		t.Errorf("Expected sha256 hex content hash, got %q", got.ContentHash)
	}
	if got.PublishedAt.IsZero() {
		t.Error("Expected PublishedAt set")
	}
	if keys := got.Analysis.Keys(); len(keys) != 1 || keys[0] != "S 21(1) PDPA" {
		t.Errorf("Analysis keys = %v", keys)
	}
}

func TestPublish_MonotonicSeq(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.json")
	p := NewPublisher(path)

	for i := 1; i <= 3; i++ {
		r := sampleResult("same query")
		if err := p.Publish(r); err != nil {
			t.Fatalf("Publish %d failed: %v", i, err)
		}
		if r.Seq != uint64(i) {
			t.Errorf("Seq = %d, want %d", r.Seq, i)
		}
	}

	// Identical payloads from distinct publications remain distinguishable
	if p.Latest().Seq != 3 {
		t.Errorf("Latest().Seq = %d, want 3", p.Latest().Seq)
	}
}

func TestPublish_ReplacesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.json")
	p := NewPublisher(path)

	if err := p.Publish(sampleResult("first")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := p.Publish(sampleResult("second")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "second") || strings.Contains(string(data), "first") {
		t.Errorf("Expected only the latest result in the file")
	}
}

func TestPublish_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	p := NewPublisher(filepath.Join(dir, "output.json"))

	if err := p.Publish(sampleResult("query")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".publish-") {
			t.Errorf("Temp file left behind: %s", e.Name())
		}
	}
}

func TestPublish_MissingDirectory(t *testing.T) {
	p := NewPublisher(filepath.Join(t.TempDir(), "missing", "output.json"))

	if err := p.Publish(sampleResult("query")); err == nil {
		t.Error("Expected error for missing parent directory")
	}
}

func TestPublish_ConcurrentPublishers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.json")
	p := NewPublisher(path)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Publish(sampleResult("concurrent"))
		}()
	}
	wg.Wait()

	// The file must always hold one complete document
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read published file: %v", err)
	}
	var got model.Result
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Published file torn or invalid: %v", err)
	}
	if p.Latest().Seq != 10 {
		t.Errorf("Latest().Seq = %d, want 10", p.Latest().Seq)
	}
}

func TestLatest_NilBeforeFirstPublish(t *testing.T) {
	p := NewPublisher(filepath.Join(t.TempDir(), "output.json"))
	if p.Latest() != nil {
		t.Error("Expected nil before first publish")
	}
}
