// Package ner provides legal-domain entity recognition over a generative
// backend. The recognizer asks the model for candidate term spans with
// confidence scores; the term extractor filters and merges them with its
// lexical layer. The recognizer is best-effort: consumers must tolerate
// errors and degrade to lexical-only extraction.
package ner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tanwk/counselor/internal/llm"
)

// Span is a candidate legal term with the model's confidence.
type Span struct {
	Text       string  `json:"term"`
	Confidence float64 `json:"confidence"`
}

// Recognizer extracts candidate legal terms from text.
type Recognizer struct {
	provider llm.Provider
}

// New creates a recognizer backed by the given provider.
func New(provider llm.Provider) *Recognizer {
	return &Recognizer{provider: provider}
}

const recognizeSystem = "You are a legal-domain named entity recognizer for Singapore data protection law."

const recognizeInstructions = `Identify legal and data-protection terms in the text below: data types, processing actions, parties, obligations, and qualifiers with legal significance.

Return ONLY a JSON array, no other text:
[{"term": "<span text>", "confidence": <0.0-1.0>}]

Each term must appear in the text. Maximum 20 terms.

TEXT:
%s`

// Recognize returns candidate spans for the text. Errors (provider down,
// malformed output) are returned as-is; the caller decides how to degrade.
func (r *Recognizer) Recognize(ctx context.Context, text string) ([]Span, error) {
	resp, err := r.provider.Complete(ctx, llm.CompletionRequest{
		System:      recognizeSystem,
		Prompt:      fmt.Sprintf(recognizeInstructions, text),
		Temperature: 0.0,
		MaxTokens:   1000,
	})
	if err != nil {
		return nil, fmt.Errorf("entity recognition: %w", err)
	}

	raw := llm.StripFences(resp.Text)

	var spans []Span
	if err := json.Unmarshal([]byte(raw), &spans); err != nil {
		return nil, fmt.Errorf("entity recognition returned malformed output: %w", err)
	}
	return spans, nil
}
