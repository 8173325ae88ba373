// Package term turns a raw user query into a ranked, deduplicated set of
// key legal terms. Two signal sources feed the ranking: a deterministic
// lexical layer over curated word lists (precision) and an entity
// recognition provider (recall). Recognizer failure degrades to
// lexical-only extraction instead of failing the request.
package term

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/tanwk/counselor/internal/model"
	"github.com/tanwk/counselor/internal/ner"
)

// Recognizer is the entity-recognition capability consumed by the
// extractor. Satisfied by *ner.Recognizer; tests substitute fakes.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]ner.Span, error)
}

// Extractor extracts and ranks key terms from queries.
type Extractor struct {
	recognizer    Recognizer // nil disables the entity layer entirely
	maxTerms      int
	minConfidence float64
}

// NewExtractor creates an extractor. recognizer may be nil, in which case
// only the lexical layer runs (not reported as degradation).
func NewExtractor(recognizer Recognizer, cfg model.ExtractConfig) *Extractor {
	maxTerms := cfg.MaxTerms
	if maxTerms <= 0 {
		maxTerms = 15
	}
	minConfidence := cfg.NERConfidence
	if minConfidence <= 0 {
		minConfidence = 0.6
	}
	return &Extractor{
		recognizer:    recognizer,
		maxTerms:      maxTerms,
		minConfidence: minConfidence,
	}
}

// candidate tracks a term's contributing sources before scoring.
type candidate struct {
	text     string
	lexical  bool
	entity   bool
	position int
}

// Extract returns up to maxTerms terms ordered by descending score, with
// ties broken by first occurrence in the query. degraded is true when the
// recognizer was configured but unavailable. An empty result for a
// non-empty query means the query has no recognizable legal content.
func (e *Extractor) Extract(ctx context.Context, query string) (terms []model.ExtractedTerm, degraded bool, err error) {
	normalized := normalize(query)
	if normalized == "" {
		return nil, false, fmt.Errorf("empty query")
	}

	candidates := make(map[string]*candidate)
	add := func(text string, entity bool) {
		text = normalize(text)
		text = canonical(text)
		if len(text) < 2 {
			return
		}
		c, ok := candidates[text]
		if !ok {
			c = &candidate{text: text, position: positionOf(normalized, text)}
			candidates[text] = c
		}
		if entity {
			c.entity = true
		} else {
			c.lexical = true
		}
	}

	// Lexical layer: curated word lists and data-type patterns.
	for _, list := range [][]string{coreTerms, actionVerbs, dataTypeNouns, entityRoles, qualifierWords, places, organisations} {
		for _, t := range list {
			if wholeWordMatch(normalized, t) {
				add(t, false)
			}
		}
	}
	for _, re := range dataTypePatterns {
		for _, m := range re.FindAllStringSubmatch(normalized, -1) {
			text := joinGroups(m)
			if text != "" && len(strings.Fields(text)) <= 4 {
				add(text, false)
			}
		}
	}

	// Entity layer: provider failure degrades, never fails.
	if e.recognizer != nil {
		spans, rerr := e.recognizer.Recognize(ctx, query)
		if rerr != nil {
			degraded = true
			fmt.Fprintf(os.Stderr, "Warning: entity recognition unavailable, falling back to lexical extraction: %v\n", rerr)
		} else {
			for _, s := range spans {
				if s.Confidence < e.minConfidence {
					continue
				}
				text := cleanSpan(s.Text)
				if text == "" || stopWords[text] {
					continue
				}
				add(text, true)
			}
		}
	}

	// Score, rank, truncate.
	for _, c := range candidates {
		score := e.score(c, normalized)
		if score <= 0 {
			continue
		}
		terms = append(terms, model.ExtractedTerm{
			Text:     c.text,
			Score:    score,
			Position: c.position,
		})
	}

	sort.SliceStable(terms, func(i, j int) bool {
		if terms[i].Score != terms[j].Score {
			return terms[i].Score > terms[j].Score
		}
		return terms[i].Position < terms[j].Position
	})

	if len(terms) > e.maxTerms {
		terms = terms[:e.maxTerms]
	}
	return terms, degraded, nil
}

// score combines the signal sources: occurrence count weighted highest,
// then source bonuses, then priority and specificity bumps.
func (e *Extractor) score(c *candidate, normalizedQuery string) int {
	score := countWholeWord(normalizedQuery, c.text) * 3
	if c.lexical {
		score += 2
	}
	if c.entity {
		score += 2
	}
	if highPriorityTerms[c.text] {
		score += 3
	}
	for _, ind := range dataIndicators {
		if strings.Contains(c.text, ind) {
			score++
			break
		}
	}
	if strings.Contains(c.text, " ") {
		score++
	}
	return score
}

// normalize lowercases and collapses whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// canonical maps a term through the synonym groups.
func canonical(term string) string {
	for _, group := range synonymGroups {
		for _, member := range group {
			if term == member {
				return group[0]
			}
		}
	}
	return term
}

// cleanSpan strips tokenizer artifacts from recognizer output.
func cleanSpan(s string) string {
	s = strings.NewReplacer("##", "", "[", "", "]", "").Replace(s)
	s = normalize(s)
	if len(s) < 2 {
		return ""
	}
	// Junk: digits/symbols only, or a lone letter
	if regexp.MustCompile(`^[\d@#$%^&*()]+$`).MatchString(s) {
		return ""
	}
	return s
}

func wholeWordMatch(text, term string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
	return re.MatchString(text)
}

func countWholeWord(text, term string) int {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
	return len(re.FindAllString(text, -1))
}

// positionOf returns the term's first occurrence offset, or a large value
// when the term does not appear verbatim (e.g. recognizer paraphrases).
func positionOf(text, term string) int {
	if i := strings.Index(text, term); i >= 0 {
		return i
	}
	return len(text)
}

// joinGroups joins the non-empty capture groups of a submatch.
func joinGroups(m []string) string {
	var parts []string
	for _, g := range m[1:] {
		if g != "" {
			parts = append(parts, g)
		}
	}
	return normalize(strings.Join(parts, " "))
}
