package analysis

import "fmt"

const analystSystem = "You are a Singapore-qualified lawyer specializing in the Personal Data Protection Act (PDPA). You analyze legal scenarios strictly against the statutory context you are given."

const promptTemplate = `Analyze the legal scenario and return a JSON object mapping the most relevant provisions to legal reasoning.

LEGAL SCENARIO TO ANALYZE:
%s

RELEVANT PDPA PROVISIONS AND CONTEXT:
The following provisions, definitions, schedules and subsidiary legislation have been identified as relevant:

%s

INSTRUCTIONS:
1. Use ONLY the provided context above.
2. Identify at most 5 relevant provisions; output fewer if fewer apply.
3. Use definitions, schedules and subsidiary legislation as supporting context inside the reasoning, never as keys.

KEY FORMAT - ONLY THESE FORMS ARE ACCEPTED:
- "S [number] PDPA", e.g. "S 21(1) PDPA", "S 21(1) and (2) PDPA"
- "Ss [numbers] PDPA" for multiple sections, e.g. "Ss 21(5) and (7) PDPA"
- "Reg [number] PDPR", e.g. "Reg 4 PDPR", "Regs 4 and 5 PDPR"
- "para [reference] of [Schedule name] PDPA", e.g. "para 1(a) of Fifth Schedule PDPA"

PROHIBITED KEYS:
- "Section 21(1) PDPA" (must use "S", not "Section")
- "Definition: personal data" (definitions are never keys)
- "Fifth Schedule" (schedules need the para form)
- "21(1) PDPA" (missing "S")
- "S 21 of PDPA" (no "of" before the document name)

REASONING REQUIREMENTS:
- Explain why each provision applies to the specific facts of the scenario.
- 3-4 precise sentences per provision.

Return ONLY the JSON object, no additional text:
{
    "[VALID KEY]": "[Legal reasoning referencing the scenario's facts.]"
}`

// strictRetrySuffix is appended when the first response failed to parse;
// one retry with a harder instruction before surfacing the failure.
const strictRetrySuffix = `

YOUR PREVIOUS RESPONSE WAS NOT VALID JSON. Return a single flat JSON object whose keys are citation strings and whose values are reasoning strings. No markdown fences, no commentary, no trailing text.`

// buildPrompt renders the analysis prompt. strict adds the re-prompt
// instruction used after a malformed response.
func buildPrompt(query, legalContext string, strict bool) string {
	p := fmt.Sprintf(promptTemplate, query, legalContext)
	if strict {
		p += strictRetrySuffix
	}
	return p
}
