package model

// Provision is a single citable unit of statutory text. Provisions are
// loaded once at startup and shared read-only across requests.
type Provision struct {
	ID         string   `json:"id"`                   // Section reference, e.g. "21" or "26D"
	Title      string   `json:"title,omitempty"`      // Short heading, e.g. "Access to personal data"
	Text       string   `json:"text"`                 // Full body text
	Categories []string `json:"categories,omitempty"` // Names of categories this provision belongs to
}

// Category groups provisions under a retrieval unit. The KeyTerms list is
// what gets embedded and compared against query terms during category
// matching; the category name alone is too sparse a signal.
type Category struct {
	Name       string      `json:"name"`
	KeyTerms   []string    `json:"key_terms"`
	Provisions []Provision `json:"provisions"`
}

// Definition maps an interpreted statutory term to its definition body.
type Definition struct {
	Term string `json:"term"`
	Body string `json:"body"`
}

// ScheduleEntry maps a schedule label (e.g. "fifth") to its body text.
type ScheduleEntry struct {
	Label string `json:"label"`
	Body  string `json:"body"`
}

// SubsidiaryEntry links a provision identifier to related subsidiary
// legislation (regulations made under the parent section).
type SubsidiaryEntry struct {
	SectionID  string `json:"section_id"`
	Regulation string `json:"regulation"`
	Body       string `json:"body"`
}
