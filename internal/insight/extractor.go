// Package insight scans document text for domain signals: requirements,
// compliance clauses, risks and deadlines. The extraction is deliberately
// pattern-based; overlapping matches may emit near-duplicate candidates and
// are not deduplicated.
package insight

import (
	"regexp"
	"strings"

	"tenderbolt/models"
)

// Candidate is an unsaved insight produced by Extract.
type Candidate struct {
	Type             models.InsightType
	Content          string
	Citation         string
	SourceDocumentID string
	SourceFilename   string
}

// Per-document output caps keep noisy documents from flooding a tender.
// Deadlines are uncapped.
const (
	maxRequirements = 5
	maxCompliance   = 3
	maxRisks        = 3
)

var (
	deadlineKeywords    = regexp.MustCompile(`(?i)\b(due|deadline|submission|closing|expires|by)\b`)
	requirementKeywords = regexp.MustCompile(`(?i)\b(must|shall|required|requirement|specification|criteria|mandatory|obligatory)\b`)
	complianceKeywords  = regexp.MustCompile(`(?i)\b(compliance|certification|standard|iso|ansi|astm|fda|ce|ul|rohs)\b`)
	riskKeywords        = regexp.MustCompile(`(?i)\b(risk|hazard|warning|caution|danger|liability|penalty|fine)\b`)

	// Numeric (12/31/2025, 31-12-25, 2025-12-31) and written-out dates.
	datePattern = regexp.MustCompile(`(?i)\b(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}|\d{4}-\d{2}-\d{2}|(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:,)?\s+\d{4})\b`)

	sentenceSplit = regexp.MustCompile(`[.!?\n]+`)
)

// Extract produces insight candidates from raw document text. It is a pure
// function: no side effects, never an error, empty input yields nil.
func Extract(text, documentID, filename string) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []Candidate
	sentences := splitSentences(text)

	out = append(out, matchDeadlines(sentences, documentID, filename)...)
	out = append(out, matchKeyword(sentences, requirementKeywords, models.InsightRequirement, maxRequirements, documentID, filename)...)
	out = append(out, matchKeyword(sentences, complianceKeywords, models.InsightCompliance, maxCompliance, documentID, filename)...)
	out = append(out, matchKeyword(sentences, riskKeywords, models.InsightRisk, maxRisks, documentID, filename)...)

	return out
}

func splitSentences(text string) []string {
	parts := sentenceSplit.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// matchDeadlines emits one candidate per date-like substring found in a
// sentence that also carries a deadline keyword.
func matchDeadlines(sentences []string, documentID, filename string) []Candidate {
	var out []Candidate
	for _, sentence := range sentences {
		if !deadlineKeywords.MatchString(sentence) {
			continue
		}
		for _, date := range datePattern.FindAllString(sentence, -1) {
			out = append(out, Candidate{
				Type:             models.InsightDeadline,
				Content:          sentence + " (" + date + ")",
				Citation:         filename,
				SourceDocumentID: documentID,
				SourceFilename:   filename,
			})
		}
	}
	return out
}

func matchKeyword(sentences []string, keywords *regexp.Regexp, typ models.InsightType, limit int, documentID, filename string) []Candidate {
	var out []Candidate
	for _, sentence := range sentences {
		if !keywords.MatchString(sentence) {
			continue
		}
		out = append(out, Candidate{
			Type:             typ,
			Content:          sentence,
			Citation:         filename,
			SourceDocumentID: documentID,
			SourceFilename:   filename,
		})
		if len(out) == limit {
			break
		}
	}
	return out
}
