package insight_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tenderbolt/internal/insight"
	"tenderbolt/models"
)

func byType(candidates []insight.Candidate, typ models.InsightType) []insight.Candidate {
	var out []insight.Candidate
	for _, c := range candidates {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

func TestExtractEmptyText(t *testing.T) {
	require.Empty(t, insight.Extract("", "doc-1", "empty.txt"))
	require.Empty(t, insight.Extract("   \n\t  ", "doc-1", "blank.txt"))
}

func TestExtractNoMatches(t *testing.T) {
	text := "The weather was pleasant. Everyone enjoyed the lunch."
	require.Empty(t, insight.Extract(text, "doc-1", "notes.txt"))
}

func TestExtractDeadline(t *testing.T) {
	candidates := insight.Extract("The deadline is 12/31/2025", "doc-1", "rfp.txt")

	deadlines := byType(candidates, models.InsightDeadline)
	require.NotEmpty(t, deadlines)
	require.Contains(t, deadlines[0].Content, "12/31/2025")
	require.Equal(t, "rfp.txt", deadlines[0].Citation)
	require.Equal(t, "doc-1", deadlines[0].SourceDocumentID)
}

func TestExtractDeadlineWrittenDate(t *testing.T) {
	candidates := insight.Extract("Proposals are due by January 15 2026.", "doc-1", "rfp.txt")
	require.NotEmpty(t, byType(candidates, models.InsightDeadline))
}

func TestExtractDeadlineKeywordWithoutDate(t *testing.T) {
	// A deadline keyword without a date-like substring yields nothing.
	candidates := insight.Extract("The submission process is straightforward.", "doc-1", "rfp.txt")
	require.Empty(t, byType(candidates, models.InsightDeadline))
}

func TestExtractRequirementCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		sb.WriteString("The contractor must provide insurance. ")
	}
	candidates := insight.Extract(sb.String(), "doc-1", "terms.txt")

	require.Len(t, byType(candidates, models.InsightRequirement), 5)
}

func TestExtractComplianceCap(t *testing.T) {
	text := "ISO 9001 applies. ISO 14001 applies. ISO 27001 applies. ISO 45001 applies."
	candidates := insight.Extract(text, "doc-1", "standards.txt")

	require.Len(t, byType(candidates, models.InsightCompliance), 3)
}

func TestExtractRiskCap(t *testing.T) {
	text := "There is a penalty clause. High liability exposure. Warning about delays. Danger of cost overrun."
	candidates := insight.Extract(text, "doc-1", "risks.txt")

	require.Len(t, byType(candidates, models.InsightRisk), 3)
}

func TestExtractMixedDocument(t *testing.T) {
	text := "Suppliers must hold ISO 9001 certification. " +
		"Late delivery carries a penalty of 2% per week. " +
		"Bids are due by 03/15/2026."
	candidates := insight.Extract(text, "doc-7", "tender.txt")

	require.NotEmpty(t, byType(candidates, models.InsightRequirement))
	require.NotEmpty(t, byType(candidates, models.InsightCompliance))
	require.NotEmpty(t, byType(candidates, models.InsightRisk))
	require.NotEmpty(t, byType(candidates, models.InsightDeadline))
}

func TestExtractKeywordsAreWordBounded(t *testing.T) {
	// "byte" and "musty" contain keyword substrings but are not keywords.
	text := "A byte array holds the musty archive data."
	require.Empty(t, insight.Extract(text, "doc-1", "notes.txt"))
}

func TestExtractOverlappingCategoriesKeepDuplicates(t *testing.T) {
	// One sentence can land in several categories; duplicates are kept.
	text := "The supplier must carry liability insurance per the ISO standard."
	candidates := insight.Extract(text, "doc-1", "terms.txt")

	require.NotEmpty(t, byType(candidates, models.InsightRequirement))
	require.NotEmpty(t, byType(candidates, models.InsightCompliance))
	require.NotEmpty(t, byType(candidates, models.InsightRisk))
}
