package term

import (
	"context"
	"errors"
	"testing"

	"github.com/tanwk/counselor/internal/model"
	"github.com/tanwk/counselor/internal/ner"
)

// fakeRecognizer implements Recognizer
type fakeRecognizer struct {
	spans []ner.Span
	err   error
}

func (f *fakeRecognizer) Recognize(ctx context.Context, text string) ([]ner.Span, error) {
	return f.spans, f.err
}

func hasTerm(terms []model.ExtractedTerm, text string) bool {
	for _, t := range terms {
		if t.Text == text {
			return true
		}
	}
	return false
}

func TestExtract_EmployeeAccessQuery(t *testing.T) {
	e := NewExtractor(nil, model.ExtractConfig{})

	query := "An employee asks her employer for a copy of her performance appraisals. Must the company provide access to this personal data?"
	terms, degraded, err := e.Extract(context.Background(), query)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if degraded {
		t.Error("nil recognizer must not report degradation")
	}

	for _, want := range []string{"employee", "employer", "access", "personal data", "performance appraisals", "company"} {
		if !hasTerm(terms, want) {
			t.Errorf("Expected term %q in %v", want, terms)
		}
	}
}

func TestExtract_NoLegalContent(t *testing.T) {
	e := NewExtractor(nil, model.ExtractConfig{})

	terms, _, err := e.Extract(context.Background(), "What is the weather like today?")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(terms) != 0 {
		t.Errorf("Expected no terms for a non-legal query, got %v", terms)
	}
}

func TestExtract_EmptyQuery(t *testing.T) {
	e := NewExtractor(nil, model.ExtractConfig{})

	if _, _, err := e.Extract(context.Background(), "   \t  "); err == nil {
		t.Error("Expected error for empty query")
	}
}

func TestExtract_ScoringOrder(t *testing.T) {
	e := NewExtractor(nil, model.ExtractConfig{})

	// "consent" appears twice and is high priority; it must outrank
	// single-occurrence generic terms.
	query := "The company collected personal data without consent and later asked for consent to disclose it."
	terms, _, err := e.Extract(context.Background(), query)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(terms) < 2 {
		t.Fatalf("Expected several terms, got %v", terms)
	}
	if terms[0].Text != "consent" && terms[0].Text != "personal data" {
		t.Errorf("Expected a high-priority term ranked first, got %q", terms[0].Text)
	}
	for i := 1; i < len(terms); i++ {
		if terms[i].Score > terms[i-1].Score {
			t.Errorf("Terms out of score order at %d: %v", i, terms)
		}
	}
}

func TestExtract_MaxTerms(t *testing.T) {
	e := NewExtractor(nil, model.ExtractConfig{MaxTerms: 3})

	query := "A hospital disclosed patient records and medical records and contact details without consent, then transferred financial information overseas after a breach."
	terms, _, err := e.Extract(context.Background(), query)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(terms) > 3 {
		t.Errorf("Expected at most 3 terms, got %d: %v", len(terms), terms)
	}
}

func TestExtract_SynonymDedup(t *testing.T) {
	e := NewExtractor(nil, model.ExtractConfig{})

	terms, _, err := e.Extract(context.Background(), "The organisation is a company that holds customer information.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// "organisation" collapses into canonical "company"
	if !hasTerm(terms, "company") {
		t.Errorf("Expected canonical term 'company' in %v", terms)
	}
	if hasTerm(terms, "organisation") {
		t.Errorf("Expected 'organisation' collapsed into 'company', got %v", terms)
	}
}

func TestExtract_RecognizerMergesAndFilters(t *testing.T) {
	rec := &fakeRecognizer{spans: []ner.Span{
		{Text: "retention period", Confidence: 0.9},
		{Text: "low confidence term", Confidence: 0.2},
		{Text: "the", Confidence: 0.95},
	}}
	e := NewExtractor(rec, model.ExtractConfig{NERConfidence: 0.6})

	terms, degraded, err := e.Extract(context.Background(), "How long is the retention period for personal data?")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if degraded {
		t.Error("Expected no degradation with a working recognizer")
	}
	if !hasTerm(terms, "retention period") {
		t.Errorf("Expected recognizer term 'retention period' in %v", terms)
	}
	if hasTerm(terms, "low confidence term") {
		t.Errorf("Expected low-confidence span filtered, got %v", terms)
	}
	if hasTerm(terms, "the") {
		t.Errorf("Expected stop word filtered, got %v", terms)
	}
}

func TestExtract_RecognizerFailureDegrades(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("backend down")}
	e := NewExtractor(rec, model.ExtractConfig{})

	terms, degraded, err := e.Extract(context.Background(), "Can a bank disclose customer information without consent?")
	if err != nil {
		t.Fatalf("Recognizer failure must not fail extraction, got %v", err)
	}
	if !degraded {
		t.Error("Expected degraded=true when recognizer fails")
	}
	// Lexical layer still produces terms
	if !hasTerm(terms, "consent") || !hasTerm(terms, "bank") {
		t.Errorf("Expected lexical terms despite recognizer failure, got %v", terms)
	}
}
