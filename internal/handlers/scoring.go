package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"tenderbolt/internal/scoring"
)

// scoresResponse is the wire shape shared by the scoring GET and POST.
type scoresResponse struct {
	TenderID        string `json:"tenderId"`
	TechnicalScore  int    `json:"technicalScore"`
	CommercialScore int    `json:"commercialScore"`
	ComplianceScore int    `json:"complianceScore"`
	RiskScore       int    `json:"riskScore"`
	WinProbability  int    `json:"winProbability"`
}

// SubmitScoresHandler handles POST /api/tenders/scoring: stores the four
// sub-scores, recomputes the win probability and stamps lastScoredAt.
// Concurrent submissions for the same tender race last-write-wins.
func (h *Handler) SubmitScoresHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	defer r.Body.Close()

	var input struct {
		TenderID   string `json:"tenderId"`
		Technical  int    `json:"technical"`
		Commercial int    `json:"commercial"`
		Compliance int    `json:"compliance"`
		Risk       int    `json:"risk"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if input.TenderID == "" {
		respondError(w, http.StatusBadRequest, "tenderId is required")
		return
	}
	for _, score := range []int{input.Technical, input.Commercial, input.Compliance, input.Risk} {
		if !scoring.InRange(score) {
			respondError(w, http.StatusBadRequest, "scores must be between 0 and 100")
			return
		}
	}

	tender, err := h.Store.GetTender(r.Context(), input.TenderID)
	if err != nil {
		if isNoRows(err) {
			respondError(w, http.StatusNotFound, "tender not found")
			return
		}
		h.Log.Error("get tender", "tender", input.TenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get tender")
		return
	}

	winProbability := scoring.WinProbability(input.Technical, input.Commercial, input.Compliance, input.Risk)

	err = h.Store.UpdateTenderScores(r.Context(), input.TenderID,
		input.Technical, input.Commercial, input.Compliance, input.Risk, winProbability)
	if err != nil {
		h.Log.Error("update scores", "tender", input.TenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to update scores")
		return
	}

	tender.TechnicalScore = input.Technical
	tender.CommercialScore = input.Commercial
	tender.ComplianceScore = input.Compliance
	tender.RiskScore = input.Risk
	tender.WinProbability = winProbability
	h.Notifier.ScoringCompleted(r.Context(), tender)

	respondJSON(w, http.StatusOK, scoresResponse{
		TenderID:        tender.ID,
		TechnicalScore:  tender.TechnicalScore,
		CommercialScore: tender.CommercialScore,
		ComplianceScore: tender.ComplianceScore,
		RiskScore:       tender.RiskScore,
		WinProbability:  tender.WinProbability,
	})
}

// GetScoresHandler handles GET /api/tenders/scoring?tenderId=. A tender
// that has never been scored reports all zeros.
func (h *Handler) GetScoresHandler(w http.ResponseWriter, r *http.Request) {
	tenderID := r.URL.Query().Get("tenderId")
	if tenderID == "" {
		respondError(w, http.StatusBadRequest, "tenderId is required")
		return
	}

	tender, err := h.Store.GetTender(r.Context(), tenderID)
	if err != nil {
		if isNoRows(err) {
			respondError(w, http.StatusNotFound, "tender not found")
			return
		}
		h.Log.Error("get tender", "tender", tenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get tender")
		return
	}

	respondJSON(w, http.StatusOK, scoresResponse{
		TenderID:        tender.ID,
		TechnicalScore:  tender.TechnicalScore,
		CommercialScore: tender.CommercialScore,
		ComplianceScore: tender.ComplianceScore,
		RiskScore:       tender.RiskScore,
		WinProbability:  tender.WinProbability,
	})
}
