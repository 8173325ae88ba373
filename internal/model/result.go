package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Status is the terminal state of a processed query.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusNoMatches Status = "no_matches"
	StatusError     Status = "error"
)

// Machine-readable error kinds for the error status.
const (
	ErrKindMalformedOutput    = "malformed_output"
	ErrKindBackendTimeout     = "backend_timeout"
	ErrKindBackendUnavailable = "backend_unavailable"
	ErrKindInternal           = "internal"
)

// Result is the published outcome of a single query. The status field is
// always present; error fields only when status is "error".
type Result struct {
	Status       Status          `json:"status"`
	Query        string          `json:"query"`
	KeyTerms     []string        `json:"key_terms"`
	LegalContext string          `json:"legal_context"`
	Analysis     *AnalysisResult `json:"analysis"`
	ErrorKind    string          `json:"error_kind,omitempty"`
	Error        string          `json:"error,omitempty"`

	// Degraded is set when entity recognition was unavailable and term
	// extraction fell back to lexical rules only.
	Degraded bool `json:"degraded_extraction,omitempty"`

	// Publication metadata, set by the publisher. Seq increases
	// monotonically per process so pollers can detect fresh results
	// without comparing whole documents.
	Seq         uint64    `json:"seq,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
	PublishedAt time.Time `json:"published_at,omitzero"`
}

// AnalysisResult maps citation keys to reasoning text, preserving the
// order in which the backend generated them. A plain Go map would
// serialize keys alphabetically and lose generation order.
type AnalysisResult struct {
	keys    []string
	entries map[string]string
}

// NewAnalysisResult returns an empty result.
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{entries: make(map[string]string)}
}

// Set adds or replaces a citation key's reasoning. First insertion fixes
// the key's position.
func (r *AnalysisResult) Set(key, reasoning string) {
	if r.entries == nil {
		r.entries = make(map[string]string)
	}
	if _, exists := r.entries[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.entries[key] = reasoning
}

// Get returns the reasoning for a citation key.
func (r *AnalysisResult) Get(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r.entries[key]
	return v, ok
}

// Keys returns citation keys in insertion order.
func (r *AnalysisResult) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of entries.
func (r *AnalysisResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// MarshalJSON renders the entries as a JSON object in insertion order.
func (r *AnalysisResult) MarshalJSON() ([]byte, error) {
	if r == nil || len(r.keys) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.entries[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object preserving key order. encoding/json's
// map decoding would scramble it, so the token stream is walked directly.
func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	r.keys = nil
	r.entries = make(map[string]string)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		val, ok := valTok.(string)
		if !ok {
			return fmt.Errorf("expected string value for key %q, got %v", key, valTok)
		}
		r.Set(key, val)
	}

	// Consume closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
