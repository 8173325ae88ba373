package llm

import "strings"

// StripFences removes markdown code fences that models wrap around JSON
// output despite instructions not to.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	stripped := false
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		stripped = true
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		stripped = true
	}
	if stripped {
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
