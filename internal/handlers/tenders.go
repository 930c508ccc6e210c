package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tenderbolt/internal/scoring"
	"tenderbolt/models"
)

// CreateTenderHandler handles POST /api/tenders. A new tender starts in
// discovery with zeroed scores and the four default pipeline stages.
func (h *Handler) CreateTenderHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	var input struct {
		Title    string              `json:"title"`
		Status   models.TenderStatus `json:"status"`
		Value    float64             `json:"value"`
		Deadline *time.Time          `json:"deadline"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	if input.Title == "" || len(input.Title) > 200 {
		respondError(w, http.StatusBadRequest, "title is required and max length 200")
		return
	}
	if input.Status != "" && !models.ValidTenderStatus(input.Status) {
		respondError(w, http.StatusBadRequest, "invalid status value")
		return
	}

	tender := models.Tender{
		Title:    input.Title,
		Status:   input.Status,
		Value:    input.Value,
		Deadline: input.Deadline,
	}
	if err := h.Store.CreateTender(r.Context(), &tender); err != nil {
		h.Log.Error("create tender", "err", err)
		respondError(w, http.StatusInternalServerError, "failed to create tender")
		return
	}

	// Materialize the default stage set. Stage inserts are independent
	// writes; a failure leaves the tender with fewer stages and is logged,
	// not surfaced.
	for _, st := range models.DefaultStages() {
		st.TenderID = tender.ID
		if err := h.Store.CreateStage(r.Context(), &st); err != nil {
			h.Log.Error("create default stage", "tender", tender.ID, "stage", st.Name, "err", err)
		}
	}

	respondJSON(w, http.StatusCreated, tender)
}

// GetTendersHandler handles GET /api/tenders with pagination and an
// optional status filter.
func (h *Handler) GetTendersHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	status := models.TenderStatus(r.URL.Query().Get("status"))
	if status != "" && !models.ValidTenderStatus(status) {
		respondError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	tenders, err := h.Store.GetTenders(r.Context(), status, params.Limit, params.Offset)
	if err != nil {
		h.Log.Error("list tenders", "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get tenders")
		return
	}
	respondJSON(w, http.StatusOK, tenders)
}

// GetTenderHandler handles GET /api/tenders/{tenderID}.
func (h *Handler) GetTenderHandler(w http.ResponseWriter, r *http.Request) {
	tenderID := chi.URLParam(r, "tenderID")

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
	respondJSON(w, http.StatusOK, tender)
}

// PatchTenderHandler handles PATCH /api/tenders/{tenderID}. Absent fields
// are left untouched. Changing any sub-score recomputes the win
// probability; lastScoredAt is stamped only by the scoring endpoint.
func (h *Handler) PatchTenderHandler(w http.ResponseWriter, r *http.Request) {
	tenderID := chi.URLParam(r, "tenderID")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	defer r.Body.Close()

	var input struct {
		Title           *string              `json:"title"`
		Status          *models.TenderStatus `json:"status"`
		Value           *float64             `json:"value"`
		Deadline        *time.Time           `json:"deadline"`
		TechnicalScore  *int                 `json:"technicalScore"`
		CommercialScore *int                 `json:"commercialScore"`
		ComplianceScore *int                 `json:"complianceScore"`
		RiskScore       *int                 `json:"riskScore"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
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

	fields := map[string]any{}

	if input.Title != nil {
		if *input.Title == "" || len(*input.Title) > 200 {
			respondError(w, http.StatusBadRequest, "title must be non-empty and max length 200")
			return
		}
		tender.Title = *input.Title
		fields["title"] = tender.Title
	}
	if input.Status != nil {
		if !models.ValidTenderStatus(*input.Status) {
			respondError(w, http.StatusBadRequest, "invalid status value")
			return
		}
		tender.Status = *input.Status
		fields["status"] = tender.Status
	}
	if input.Value != nil {
		tender.Value = *input.Value
		fields["value"] = tender.Value
	}
	if input.Deadline != nil {
		tender.Deadline = input.Deadline
		fields["deadline"] = tender.Deadline
	}

	scoresChanged := false
	applyScore := func(dst *int, column string, v *int) bool {
		if v == nil {
			return true
		}
		if !scoring.InRange(*v) {
			return false
		}
		*dst = *v
		fields[column] = *v
		scoresChanged = true
		return true
	}
	if !applyScore(&tender.TechnicalScore, "technical_score", input.TechnicalScore) ||
		!applyScore(&tender.CommercialScore, "commercial_score", input.CommercialScore) ||
		!applyScore(&tender.ComplianceScore, "compliance_score", input.ComplianceScore) ||
		!applyScore(&tender.RiskScore, "risk_score", input.RiskScore) {
		respondError(w, http.StatusBadRequest, "scores must be between 0 and 100")
		return
	}

	if scoresChanged {
		tender.WinProbability = scoring.WinProbability(
			tender.TechnicalScore, tender.CommercialScore, tender.ComplianceScore, tender.RiskScore)
		fields["win_probability"] = tender.WinProbability
	}

	if len(fields) == 0 {
		respondJSON(w, http.StatusOK, tender)
		return
	}

	if err := h.Store.UpdateTenderFields(r.Context(), tenderID, fields); err != nil {
		h.Log.Error("patch tender", "tender", tenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to update tender")
		return
	}
	respondJSON(w, http.StatusOK, tender)
}

// DeleteTenderHandler handles DELETE /api/tenders/{tenderID}. Stages,
// documents, insights and team members cascade.
func (h *Handler) DeleteTenderHandler(w http.ResponseWriter, r *http.Request) {
	tenderID := chi.URLParam(r, "tenderID")

	if _, err := h.Store.GetTender(r.Context(), tenderID); err != nil {
		if isNoRows(err) {
			respondError(w, http.StatusNotFound, "tender not found")
			return
		}
		h.Log.Error("get tender", "tender", tenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get tender")
		return
	}

	if err := h.Store.DeleteTender(r.Context(), tenderID); err != nil {
		h.Log.Error("delete tender", "tender", tenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to delete tender")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
