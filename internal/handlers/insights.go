package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"tenderbolt/internal/insight"
	"tenderbolt/models"
)

// GetInsightsHandler handles GET /api/insights?tenderId=&type=. Insights
// come back newest first.
func (h *Handler) GetInsightsHandler(w http.ResponseWriter, r *http.Request) {
	tenderID := r.URL.Query().Get("tenderId")
	if tenderID == "" {
		respondError(w, http.StatusBadRequest, "tenderId is required")
		return
	}

	typeFilter := models.InsightType(r.URL.Query().Get("type"))
	if typeFilter != "" && !models.ValidInsightType(typeFilter) {
		respondError(w, http.StatusBadRequest, "invalid insight type")
		return
	}

	insights, err := h.Store.GetInsights(r.Context(), tenderID, typeFilter)
	if err != nil {
		h.Log.Error("list insights", "tender", tenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get insights")
		return
	}
	respondJSON(w, http.StatusOK, insights)
}

// AnalyzeDocumentHandler handles POST /api/insights: runs analysis over one
// document and persists the resulting insights against the tender. The LLM
// is used when configured; on any LLM failure (or when disabled) the
// pattern extractor takes over. LLM calls are not retried.
//
// Insight rows are written independently of each other and of the summary
// backfill; a crash mid-run leaves partial state.
func (h *Handler) AnalyzeDocumentHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	defer r.Body.Close()

	var input struct {
		DocumentID string `json:"documentId"`
		TenderID   string `json:"tenderId"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if input.DocumentID == "" {
		respondError(w, http.StatusBadRequest, "documentId is required")
		return
	}

	doc, err := h.Store.GetDocument(r.Context(), input.DocumentID)
	if err != nil {
		if isNoRows(err) {
			respondError(w, http.StatusNotFound, "document not found")
			return
		}
		h.Log.Error("get document", "document", input.DocumentID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get document")
		return
	}

	// Global supporting/company documents carry no tender; the caller
	// must say which tender the insights belong to.
	tenderID := input.TenderID
	if tenderID == "" && doc.TenderID != nil {
		tenderID = *doc.TenderID
	}
	if tenderID == "" {
		respondError(w, http.StatusBadRequest, "tenderId is required for documents without an owning tender")
		return
	}

	if _, err := h.Store.GetTender(r.Context(), tenderID); err != nil {
		if isNoRows(err) {
			respondError(w, http.StatusNotFound, "tender not found")
			return
		}
		h.Log.Error("get tender", "tender", tenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get tender")
		return
	}

	candidates, summary := h.analyze(r, doc)

	insights := make([]models.Insight, 0, len(candidates))
	for _, c := range candidates {
		insights = append(insights, models.Insight{
			TenderID: tenderID,
			Type:     c.Type,
			Content:  c.Content,
			Citation: c.Citation,
		})
	}

	saved, err := h.Store.CreateInsights(r.Context(), insights)
	if err != nil {
		h.Log.Error("save insights", "tender", tenderID, "saved", saved, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to save insights")
		return
	}

	if summary != "" && doc.Summary == "" {
		if err := h.Store.UpdateDocumentSummary(r.Context(), doc.ID, summary); err != nil {
			h.Log.Warn("summary backfill", "document", doc.ID, "err", err)
		}
	}

	h.Notifier.InsightsExtracted(r.Context(), tenderID, doc.Filename, len(insights))
	respondJSON(w, http.StatusCreated, insights)
}

// analyze runs the LLM analysis when available, otherwise (or on failure)
// the pattern extractor.
func (h *Handler) analyze(r *http.Request, doc *models.Document) ([]insight.Candidate, string) {
	if h.Analyzer != nil && h.Analyzer.Enabled() {
		analysis, err := h.Analyzer.AnalyzeDocument(r.Context(), doc.ID, doc.Filename, doc.Text)
		if err == nil {
			return analysis.Candidates, analysis.Summary
		}
		h.Log.Warn("llm analysis failed, falling back to pattern extraction",
			"document", doc.ID, "err", err)
	}
	return insight.Extract(doc.Text, doc.ID, doc.Filename), ""
}
