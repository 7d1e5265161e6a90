// Package signals derives keyword and seniority indicators from free-text
// role titles and preview snippets. Everything here is pure and total:
// any string input produces a result, never an error.
package signals

import (
	"math"
	"strings"
)

// Vocabulary is the fixed, ordered list of skill keywords scanned for during
// signal extraction. Hits are reported in this order regardless of where they
// appear in the text.
var Vocabulary = []string{
	"SQL", "Python", "Excel", "Tableau", "Power BI", "CRM", "UAT",
	"Analytics", "Agile", "Scrum", "JIRA", "Confluence", "SAP",
	"Salesforce", "Data", "KPI", "Dashboard", "Automation", "API",
	"ETL", "A/B Testing", "Stakeholder", "Requirements", "Process",
	"Strategy", "Reporting", "Forecasting", "Machine Learning", "AI",
}

// SeniorityHintWords flags any explicit seniority marker in a role title.
// Mid-level words (analyst, specialist, coordinator, consultant) are
// deliberately absent so a plain "Business Analyst" does not flag.
var SeniorityHintWords = []string{
	"junior", "associate", "entry", "intern", "graduate", "trainee",
	"senior", "lead", "principal", "staff", "head",
	"director", "manager", "vp", "chief", "executive",
}

// Signals is the extraction result stored on a snapshot at ingest time.
type Signals struct {
	KeywordHits   []string `json:"keyword_hits"`
	KeywordScore  int      `json:"keyword_score"`
	SeniorityHint bool     `json:"seniority_hint"`
}

// Extract scans role plus an optional preview snippet for vocabulary terms
// and the role alone for seniority markers. The score is normalized against
// the full vocabulary size; in practice it stays well below 100 unless
// nearly every term appears, which is the intended calibration.
func Extract(role, previewSnippet string) Signals {
	text := strings.ToLower(role + " " + previewSnippet)

	hits := make([]string, 0, 4)
	for _, kw := range Vocabulary {
		if strings.Contains(text, strings.ToLower(kw)) {
			hits = append(hits, kw)
		}
	}

	score := int(math.Round(math.Min(100, float64(len(hits))/float64(len(Vocabulary))*100)))

	roleLower := strings.ToLower(role)
	hint := false
	for _, w := range SeniorityHintWords {
		if strings.Contains(roleLower, w) {
			hint = true
			break
		}
	}

	return Signals{KeywordHits: hits, KeywordScore: score, SeniorityHint: hint}
}
