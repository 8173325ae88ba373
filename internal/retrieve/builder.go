// Package retrieve assembles the legal context for a query through four
// ordered layers: semantic category matching, interpretation definitions,
// schedule cross-references and subsidiary legislation. Layer order is
// fixed: Layer 3 scans the text accumulated by Layers 1-2, and Layer 4
// depends on Layer 1's matched provision identifiers.
package retrieve

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tanwk/counselor/internal/embed"
	"github.com/tanwk/counselor/internal/kb"
	"github.com/tanwk/counselor/internal/model"
)

// scheduleOrdinal matches explicit schedule citations like "Fifth Schedule".
var scheduleOrdinal = regexp.MustCompile(`(?i)\b(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth|eleventh)\s+schedule\b`)

// Builder builds context blocks against a fixed knowledge base.
type Builder struct {
	kb            *kb.KnowledgeBase
	embedder      embed.Embedder
	threshold     float64
	maxCategories int
}

// NewBuilder creates a builder. Threshold and cap come from retrieval
// configuration; exact values are policy, not contract.
func NewBuilder(knowledge *kb.KnowledgeBase, embedder embed.Embedder, cfg model.RetrievalConfig) *Builder {
	threshold := cfg.SimilarityThreshold
	if threshold <= 0 {
		threshold = 0.30
	}
	maxCategories := cfg.MaxCategories
	if maxCategories <= 0 {
		maxCategories = 3
	}
	return &Builder{
		kb:            knowledge,
		embedder:      embedder,
		threshold:     threshold,
		maxCategories: maxCategories,
	}
}

// CategoryMatch records a Layer 1 hit for provenance reporting.
type CategoryMatch struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// BuildResult is the assembled context plus the provenance later stages
// and verbose output need.
type BuildResult struct {
	Context *model.ContextBlock

	// MatchedProvisionIDs are the identifiers of every provision Layer 1
	// pulled in, in ranking order. Layer 4 resolves subsidiary
	// legislation from exactly this set.
	MatchedProvisionIDs []string

	// MatchedCategories are Layer 1's category hits with scores.
	MatchedCategories []CategoryMatch
}

// Build runs the four layers in order. Empty layers are legal; an
// entirely empty context means the query matched nothing and the caller
// reports no_matches.
func (b *Builder) Build(ctx context.Context, terms []model.ExtractedTerm) (*BuildResult, error) {
	result := &BuildResult{Context: &model.ContextBlock{}}
	if len(terms) == 0 {
		return result, nil
	}

	if err := b.matchCategories(ctx, terms, result); err != nil {
		return nil, err
	}
	b.matchDefinitions(terms, result)
	b.matchSchedules(result)
	b.matchSubsidiary(result)

	return result, nil
}

// matchCategories is Layer 1: embed every extracted term and every
// category's key-term list, take each category's best-scoring term, keep
// categories above the threshold ranked by score. Equal scores keep
// knowledge-base declaration order.
func (b *Builder) matchCategories(ctx context.Context, terms []model.ExtractedTerm, result *BuildResult) error {
	texts := make([]string, 0, len(terms)+len(b.kb.Categories))
	for _, t := range terms {
		texts = append(texts, t.Text)
	}
	for _, c := range b.kb.Categories {
		texts = append(texts, strings.Join(c.KeyTerms, ", "))
	}

	vectors, err := b.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed terms and categories: %w", err)
	}
	termVecs := vectors[:len(terms)]
	catVecs := vectors[len(terms):]

	type scored struct {
		index int
		score float64
	}
	var matched []scored
	for i := range b.kb.Categories {
		best := 0.0
		for _, tv := range termVecs {
			if s := embed.Cosine(tv, catVecs[i]); s > best {
				best = s
			}
		}
		if best >= b.threshold {
			matched = append(matched, scored{index: i, score: best})
		}
	}

	// Stable sort keeps declaration order for equal scores
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})
	if len(matched) > b.maxCategories {
		matched = matched[:b.maxCategories]
	}

	seen := make(map[string]bool)
	for _, m := range matched {
		cat := b.kb.Categories[m.index]
		result.MatchedCategories = append(result.MatchedCategories, CategoryMatch{Name: cat.Name, Score: m.score})
		for _, p := range cat.Provisions {
			source := p.ID
			if p.Title != "" {
				source = p.ID + " " + p.Title
			}
			result.Context.Append(model.LayerCategories, source, p.Text)
			if !seen[p.ID] {
				seen[p.ID] = true
				result.MatchedProvisionIDs = append(result.MatchedProvisionIDs, p.ID)
			}
		}
	}
	return nil
}

// matchDefinitions is Layer 2: a definition applies when its term occurs
// whole-word (case-insensitive) in the extracted-term set. Independent of
// Layer 1's output.
func (b *Builder) matchDefinitions(terms []model.ExtractedTerm, result *BuildResult) {
	for _, def := range b.kb.Definitions {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(def.Term) + `\b`)
		for _, t := range terms {
			if pattern.MatchString(t.Text) {
				result.Context.Append(model.LayerDefinitions, "Definition: "+def.Term, def.Body)
				break
			}
		}
	}
}

// matchSchedules is Layer 3: a textual-trigger layer, not a similarity
// layer. Schedule cross-references in statute text are explicit citations,
// so the accumulated Layers 1-2 text is scanned literally. Ordinal
// references select specific schedules; a bare trigger pulls in all.
func (b *Builder) matchSchedules(result *BuildResult) {
	accumulated := result.Context.TextThrough(model.LayerDefinitions)
	if !strings.Contains(strings.ToLower(accumulated), "schedule") {
		return
	}

	var labels []string
	seen := make(map[string]bool)
	for _, m := range scheduleOrdinal.FindAllStringSubmatch(accumulated, -1) {
		label := strings.ToLower(m[1])
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}

	appended := false
	for _, label := range labels {
		if entry, ok := b.kb.ScheduleByLabel(label); ok {
			result.Context.Append(model.LayerSchedules, scheduleTitle(entry.Label), entry.Body)
			appended = true
		}
	}

	// Trigger word present but nothing resolvable: no finer
	// disambiguation available, include every schedule.
	if !appended {
		for _, entry := range b.kb.Schedules {
			result.Context.Append(model.LayerSchedules, scheduleTitle(entry.Label), entry.Body)
		}
	}
}

// matchSubsidiary is Layer 4: resolve subsidiary legislation for the
// provisions Layer 1 matched. Its output is always a subset of entries
// keyed by those identifiers, which is why layer order is fixed.
func (b *Builder) matchSubsidiary(result *BuildResult) {
	for _, id := range result.MatchedProvisionIDs {
		for _, entry := range b.kb.SubsidiaryFor(id) {
			source := fmt.Sprintf("Subsidiary Legislation for S %s (%s)", entry.SectionID, entry.Regulation)
			result.Context.Append(model.LayerSubsidiary, source, entry.Body)
		}
	}
}

func scheduleTitle(label string) string {
	if label == "" {
		return "Schedule"
	}
	return strings.ToUpper(label[:1]) + strings.ToLower(label[1:]) + " Schedule"
}
