package model

import "strings"

// ExtractedTerm is a key term pulled from the user query with its relevance
// score. Terms are stored lowercased and punctuation-stripped.
type ExtractedTerm struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
	// Position is the byte offset of the term's first occurrence in the
	// normalized query, used to break score ties (earlier wins).
	Position int `json:"-"`
}

// ContextLayer identifies which retrieval layer produced a context segment.
type ContextLayer int

const (
	LayerCategories  ContextLayer = 1 // semantic category matching
	LayerDefinitions ContextLayer = 2 // interpretation definitions
	LayerSchedules   ContextLayer = 3 // schedule cross-references
	LayerSubsidiary  ContextLayer = 4 // subsidiary legislation
)

func (l ContextLayer) String() string {
	switch l {
	case LayerCategories:
		return "categories"
	case LayerDefinitions:
		return "definitions"
	case LayerSchedules:
		return "schedules"
	case LayerSubsidiary:
		return "subsidiary"
	default:
		return "unknown"
	}
}

// ContextSegment is one retrieved piece of legal text with its provenance.
type ContextSegment struct {
	Layer  ContextLayer `json:"layer"`
	Source string       `json:"source"` // category name, defined term, schedule label, or section id
	Text   string       `json:"text"`
}

// ContextBlock is the ordered accumulation of retrieved context. Segments
// are kept separate (never pre-flattened) so that later layers can inspect
// what earlier layers matched.
type ContextBlock struct {
	Segments []ContextSegment `json:"segments"`
}

// Append adds a segment. Layer order is the caller's responsibility; the
// builder always appends in layer order 1 through 4.
func (c *ContextBlock) Append(layer ContextLayer, source, text string) {
	c.Segments = append(c.Segments, ContextSegment{Layer: layer, Source: source, Text: text})
}

// IsEmpty reports whether no layer produced any content.
func (c *ContextBlock) IsEmpty() bool {
	return c == nil || len(c.Segments) == 0
}

// TextThrough flattens the segments of layers up to and including maxLayer.
// Layer 3 scans this accumulated text for schedule cross-references.
func (c *ContextBlock) TextThrough(maxLayer ContextLayer) string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	for _, s := range c.Segments {
		if s.Layer > maxLayer {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n---\n\n")
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// Flatten renders the full context as a single prompt-ready string with
// section markers, in layer order.
func (c *ContextBlock) Flatten() string {
	if c.IsEmpty() {
		return ""
	}
	var b strings.Builder
	for _, s := range c.Segments {
		if b.Len() > 0 {
			b.WriteString("\n\n---\n\n")
		}
		b.WriteString("### ")
		b.WriteString(s.Source)
		b.WriteString("\n")
		b.WriteString(s.Text)
	}
	return b.String()
}
