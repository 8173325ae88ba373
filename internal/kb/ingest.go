package kb

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/tanwk/counselor/internal/model"
)

// sectionHeading matches "21. Access to personal data" style headings in a
// statute export.
var sectionHeading = regexp.MustCompile(`^(\d+[A-Z]?)\.?\s+(.+)$`)

// ImportHTML converts an HTML statute export into a categories document.
// Each h2 becomes a category (key terms seeded from the heading words);
// numbered headings under it become provisions. This is an offline
// curation aid: the output is meant to be hand-edited before use.
func ImportHTML(htmlPath, outPath string) error {
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		return fmt.Errorf("read html: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	categories := collectCategories(doc)
	if len(categories) == 0 {
		return fmt.Errorf("no categories found in %s (expected h2 headings)", htmlPath)
	}

	out, err := json.MarshalIndent(categories, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	if err := os.WriteFile(outPath, out, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}

// collectCategories walks the document in order, opening a category at
// each h2 and a provision at each h3 whose text looks like a numbered
// section heading. Intervening text accumulates into the open provision.
func collectCategories(doc *html.Node) []model.Category {
	var categories []model.Category
	var current *model.Category
	var provision *model.Provision
	var body strings.Builder

	flushProvision := func() {
		if provision == nil || current == nil {
			return
		}
		provision.Text = strings.TrimSpace(body.String())
		if provision.Text != "" {
			current.Provisions = append(current.Provisions, *provision)
		}
		provision = nil
		body.Reset()
	}
	flushCategory := func() {
		flushProvision()
		if current != nil && len(current.Provisions) > 0 {
			categories = append(categories, *current)
		}
		current = nil
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "h2":
				flushCategory()
				name := strings.TrimSpace(nodeText(n))
				if name != "" {
					current = &model.Category{
						Name:     strings.ToLower(name),
						KeyTerms: headingKeyTerms(name),
					}
				}
				return
			case "h3":
				heading := strings.TrimSpace(nodeText(n))
				if m := sectionHeading.FindStringSubmatch(heading); m != nil && current != nil {
					flushProvision()
					provision = &model.Provision{
						ID:         m[1],
						Title:      strings.ToLower(m[2]),
						Categories: []string{current.Name},
					}
				}
				return
			}
		}
		if n.Type == html.TextNode && provision != nil {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if body.Len() > 0 {
					body.WriteString(" ")
				}
				body.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	flushCategory()

	return categories
}

// nodeText extracts the concatenated text content of a node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// headingKeyTerms seeds a key-term list from a heading, dropping filler
// words. Curators are expected to expand these by hand.
func headingKeyTerms(heading string) []string {
	filler := map[string]bool{
		"of": true, "the": true, "and": true, "to": true, "for": true,
		"in": true, "on": true, "by": true, "a": true, "an": true,
	}
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(heading)) {
		w = strings.Trim(w, ".,;:")
		if w != "" && !filler[w] {
			terms = append(terms, w)
		}
	}
	if len(terms) == 0 {
		terms = []string{strings.ToLower(heading)}
	}
	return terms
}
