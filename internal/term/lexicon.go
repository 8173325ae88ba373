package term

import "regexp"

// Curated legal-domain word lists. These drive the deterministic lexical
// layer of extraction; the entity recognizer supplements them for recall.

// coreTerms are central data protection vocabulary.
var coreTerms = []string{
	"personal data", "sensitive data", "data protection", "privacy",
	"consent", "breach", "notification", "pdpa", "pdpc",
}

// actionVerbs are data processing actions.
var actionVerbs = []string{
	"collect", "use", "disclose", "process", "store", "transfer",
	"share", "access", "expose", "leak", "send", "transmit", "correct",
}

// dataTypeNouns name kinds of data and records.
var dataTypeNouns = []string{
	"records", "information", "data", "details",
	"patient records", "medical records", "health records",
	"customer information", "financial information",
	"email", "phone", "contact", "location",
}

// entityRoles are organisations and parties that appear in scenarios.
var entityRoles = []string{
	"hospital", "bank", "company", "organisation", "business",
	"insurance company", "data controller", "data intermediary",
	"individual", "patient", "customer", "employee", "employer", "third party",
}

// qualifierWords are negation and qualification words that change the
// legal character of an act.
var qualifierWords = []string{
	"without", "not", "no", "unauthorized", "improper", "inadequate",
	"proper", "adequate", "appropriate", "explicit", "informed",
	"overseas", "international", "cross-border", "foreign", "domestic",
	"immediately", "promptly", "delayed", "failed",
	"major", "minor", "significant", "massive", "widespread", "limited",
}

// dataTypePatterns match specific data types with optional qualifiers,
// e.g. "performance appraisals", "credit card details".
var dataTypePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(email|emails)\b`),
	regexp.MustCompile(`\b(phone|telephone|mobile)\s*(number|numbers)?\b`),
	regexp.MustCompile(`\b(sms|text)\s*(messages?|marketing)\b`),
	regexp.MustCompile(`\b(credit card|payment)\s*(information|data|details)?\b`),
	regexp.MustCompile(`\b(location|gps)\s*(data|information|history)?\b`),
	regexp.MustCompile(`\b(user\s+profiles?|customer\s+profiles?)\b`),
	regexp.MustCompile(`\b(biometric|fingerprint|facial)\s*(data|information)?\b`),
	regexp.MustCompile(`\b(health|medical|patient)\s*(records|information|data)\b`),
	regexp.MustCompile(`\b(financial|banking)\s*(information|data|records|statements)\b`),
	regexp.MustCompile(`\b(performance\s+appraisals?|performance\s+reviews?)\b`),
	regexp.MustCompile(`\b(account\s+balances?|bank\s+statements?)\b`),
	regexp.MustCompile(`\b(contact\s+information|contact\s+details)\b`),
	regexp.MustCompile(`\b(customer|client|patient|employee|alumni)\s+(information|data|records)\b`),
}

// places are jurisdictions that signal cross-border questions.
var places = []string{
	"singapore", "malaysia", "thailand", "indonesia", "vietnam", "philippines",
	"usa", "america", "europe", "china", "india", "japan", "korea", "australia",
}

// organisations are well-known companies that appear in scenarios.
var organisations = []string{
	"grab", "shopee", "lazada", "gojek", "foodpanda",
	"dbs", "ocbc", "uob", "maybank", "citibank",
	"google", "facebook", "microsoft", "apple", "amazon",
}

// highPriorityTerms get a scoring bonus regardless of source.
var highPriorityTerms = map[string]bool{
	"personal data": true,
	"consent":       true,
	"breach":        true,
	"without":       true,
	"unauthorized":  true,
	"access":        true,
}

// dataIndicators bump terms that name a kind of data.
var dataIndicators = []string{"email", "phone", "records", "information", "data"}

// synonymGroups collapse near-duplicate terms to a canonical form. The
// first element of each group is the canonical term.
var synonymGroups = [][]string{
	{"email", "emails", "email address"},
	{"phone number", "phone", "telephone"},
	{"data", "information"},
	{"company", "organisation", "organization"},
	{"customer", "client"},
	{"records", "record"},
}

// stopWords filter recognizer output that is plain English, not a term.
var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true,
	"on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "up": true, "about": true,
	"into": true, "during": true, "before": true, "after": true,
	"such": true, "than": true, "can": true, "will": true, "just": true,
	"should": true, "now": true, "may": true, "also": true, "were": true,
	"been": true, "her": true, "his": true, "their": true, "asks": true,
}
