// Package kb loads the static knowledge base: categorized statutory
// provisions, interpretation definitions, schedules and subsidiary
// legislation mappings. The knowledge base is loaded once at startup and
// never mutated afterwards, so it is safe for unlimited concurrent readers.
package kb

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tanwk/counselor/internal/model"
)

// KnowledgeBase holds the four reference collections. Ordered collections
// are slices: category declaration order breaks similarity ties, and
// definition order fixes Layer 2 output order.
type KnowledgeBase struct {
	Categories  []model.Category
	Definitions []model.Definition
	Schedules   []model.ScheduleEntry
	Subsidiary  []model.SubsidiaryEntry

	subsidiaryByID map[string][]model.SubsidiaryEntry
	schedulesByKey map[string]model.ScheduleEntry
}

// Load reads and validates all four documents. Any schema violation is
// returned as an error; callers treat that as fatal at startup.
func Load(cfg model.KBConfig) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{}

	if err := readJSON(cfg.CategoriesPath, &kb.Categories); err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if err := readJSON(cfg.DefinitionsPath, &kb.Definitions); err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}
	if err := readJSON(cfg.SchedulesPath, &kb.Schedules); err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}
	if err := readJSON(cfg.SubsidiaryPath, &kb.Subsidiary); err != nil {
		return nil, fmt.Errorf("load subsidiary legislation: %w", err)
	}

	if err := kb.validate(); err != nil {
		return nil, err
	}

	kb.index()
	return kb, nil
}

// New builds a knowledge base from in-memory collections, with the same
// validation and indexing as Load.
func New(categories []model.Category, definitions []model.Definition, schedules []model.ScheduleEntry, subsidiary []model.SubsidiaryEntry) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{
		Categories:  categories,
		Definitions: definitions,
		Schedules:   schedules,
		Subsidiary:  subsidiary,
	}
	if err := kb.validate(); err != nil {
		return nil, err
	}
	kb.index()
	return kb, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (kb *KnowledgeBase) validate() error {
	if len(kb.Categories) == 0 {
		return fmt.Errorf("knowledge base has no categories")
	}
	seen := make(map[string]bool)
	for i, cat := range kb.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category %d has no name", i)
		}
		if seen[cat.Name] {
			return fmt.Errorf("duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true
		if len(cat.KeyTerms) == 0 {
			return fmt.Errorf("category %q has no key terms", cat.Name)
		}
		if len(cat.Provisions) == 0 {
			return fmt.Errorf("category %q has no provisions", cat.Name)
		}
		for _, p := range cat.Provisions {
			if p.ID == "" || p.Text == "" {
				return fmt.Errorf("category %q has a provision with missing id or text", cat.Name)
			}
		}
	}
	for _, d := range kb.Definitions {
		if d.Term == "" || d.Body == "" {
			return fmt.Errorf("definition with missing term or body")
		}
	}
	for _, s := range kb.Schedules {
		if s.Label == "" || s.Body == "" {
			return fmt.Errorf("schedule entry with missing label or body")
		}
	}
	for _, s := range kb.Subsidiary {
		if s.SectionID == "" || s.Regulation == "" {
			return fmt.Errorf("subsidiary entry with missing section id or regulation")
		}
	}
	return nil
}

func (kb *KnowledgeBase) index() {
	kb.subsidiaryByID = make(map[string][]model.SubsidiaryEntry)
	for _, s := range kb.Subsidiary {
		kb.subsidiaryByID[s.SectionID] = append(kb.subsidiaryByID[s.SectionID], s)
	}
	kb.schedulesByKey = make(map[string]model.ScheduleEntry, len(kb.Schedules))
	for _, s := range kb.Schedules {
		kb.schedulesByKey[strings.ToLower(s.Label)] = s
	}
}

// SubsidiaryFor returns subsidiary legislation entries for a provision
// identifier, or nil.
func (kb *KnowledgeBase) SubsidiaryFor(sectionID string) []model.SubsidiaryEntry {
	return kb.subsidiaryByID[sectionID]
}

// ScheduleByLabel looks up a schedule by lowercase label (e.g. "fifth").
func (kb *KnowledgeBase) ScheduleByLabel(label string) (model.ScheduleEntry, bool) {
	s, ok := kb.schedulesByKey[strings.ToLower(label)]
	return s, ok
}

// ProvisionCount returns the total number of provisions across categories.
func (kb *KnowledgeBase) ProvisionCount() int {
	n := 0
	for _, c := range kb.Categories {
		n += len(c.Provisions)
	}
	return n
}
