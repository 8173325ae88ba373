// Package analysis orchestrates a query end to end: term extraction,
// layered context retrieval, generation, output validation and
// filtering. Every failure mode terminates in a result document with a
// status field; nothing escapes as a request crash.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tanwk/counselor/internal/citation"
	"github.com/tanwk/counselor/internal/llm"
	"github.com/tanwk/counselor/internal/model"
	"github.com/tanwk/counselor/internal/retrieve"
	"github.com/tanwk/counselor/internal/worker"
)

// Extractor is the term extraction stage.
type Extractor interface {
	Extract(ctx context.Context, query string) (terms []model.ExtractedTerm, degraded bool, err error)
}

// ContextBuilder is the layered retrieval stage.
type ContextBuilder interface {
	Build(ctx context.Context, terms []model.ExtractedTerm) (*retrieve.BuildResult, error)
}

// Analyzer runs the full pipeline for independent, stateless queries.
// The only shared state behind it is the read-only knowledge base.
type Analyzer struct {
	extractor       Extractor
	builder         ContextBuilder
	provider        llm.Provider
	limiter         *worker.Limiter
	maxParseRetries int
	verbose         bool
}

// New creates an analyzer. limiter may be nil to disable rate limiting.
func New(extractor Extractor, builder ContextBuilder, provider llm.Provider, limiter *worker.Limiter, cfg model.LLMConfig, verbose bool) *Analyzer {
	retries := cfg.MaxParseRetries
	if retries < 0 {
		retries = 0
	}
	return &Analyzer{
		extractor:       extractor,
		builder:         builder,
		provider:        provider,
		limiter:         limiter,
		maxParseRetries: retries,
		verbose:         verbose,
	}
}

var _ worker.Processor = (*Analyzer)(nil)

// Process runs one query to a terminal result. The returned result
// always has a status; errors are captured, not propagated.
func (a *Analyzer) Process(ctx context.Context, query string) *model.Result {
	result := &model.Result{
		Query:    query,
		KeyTerms: []string{},
		Analysis: model.NewAnalysisResult(),
	}

	terms, degraded, err := a.extractor.Extract(ctx, query)
	if err != nil {
		return fail(result, model.ErrKindInternal, fmt.Sprintf("extract terms: %v", err))
	}
	result.Degraded = degraded
	for _, t := range terms {
		result.KeyTerms = append(result.KeyTerms, t.Text)
	}

	// No recognizable legal content: short-circuit rather than sending
	// an empty context to the backend.
	if len(terms) == 0 {
		result.Status = model.StatusNoMatches
		return result
	}

	built, err := a.builder.Build(ctx, terms)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fail(result, model.ErrKindBackendTimeout, fmt.Sprintf("build context: %v", err))
		}
		return fail(result, model.ErrKindBackendUnavailable, fmt.Sprintf("build context: %v", err))
	}
	result.LegalContext = built.Context.Flatten()

	if built.Context.IsEmpty() {
		result.Status = model.StatusNoMatches
		return result
	}

	if a.verbose {
		fmt.Fprintf(os.Stderr, "Matched %d categories, %d provisions, %d context segments\n",
			len(built.MatchedCategories), len(built.MatchedProvisionIDs), len(built.Context.Segments))
	}

	analysis, errKind, errMsg := a.generate(ctx, query, result.LegalContext)
	if errKind != "" {
		return fail(result, errKind, errMsg)
	}

	// Drop keys outside the citation grammar and any definitional key.
	// Invalid keys are expected noise, not request failures.
	filtered := model.NewAnalysisResult()
	for _, key := range analysis.Keys() {
		if !citation.Valid(key) {
			if a.verbose {
				fmt.Fprintf(os.Stderr, "Dropped invalid citation key: %q\n", key)
			}
			continue
		}
		reasoning, _ := analysis.Get(key)
		filtered.Set(key, reasoning)
	}

	if filtered.Len() == 0 {
		result.Status = model.StatusNoMatches
		return result
	}

	result.Status = model.StatusSuccess
	result.Analysis = filtered
	return result
}

// generate invokes the backend and parses its output, retrying once with
// a stricter re-prompt on malformed output before surfacing the failure.
func (a *Analyzer) generate(ctx context.Context, query, legalContext string) (*model.AnalysisResult, string, string) {
	var lastParseErr error

	for attempt := 0; attempt <= a.maxParseRetries; attempt++ {
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx, a.provider.Name()); err != nil {
				return nil, model.ErrKindBackendTimeout, fmt.Sprintf("rate limit wait: %v", err)
			}
		}

		resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
			System:      analystSystem,
			Prompt:      buildPrompt(query, legalContext, attempt > 0),
			Temperature: 0.3,
		})
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, model.ErrKindBackendTimeout, fmt.Sprintf("generation timed out: %v", err)
			}
			return nil, model.ErrKindBackendUnavailable, fmt.Sprintf("generation failed: %v", err)
		}

		analysis := model.NewAnalysisResult()
		if err := json.Unmarshal([]byte(llm.StripFences(resp.Text)), analysis); err != nil {
			lastParseErr = err
			if a.verbose {
				fmt.Fprintf(os.Stderr, "Malformed generation output (attempt %d): %v\n", attempt+1, err)
			}
			continue
		}
		return analysis, "", ""
	}

	return nil, model.ErrKindMalformedOutput, fmt.Sprintf("malformed generation output: %v", lastParseErr)
}

func fail(result *model.Result, kind, msg string) *model.Result {
	result.Status = model.StatusError
	result.ErrorKind = kind
	result.Error = msg
	return result
}
