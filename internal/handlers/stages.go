package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tenderbolt/models"
)

// CreateStageHandler handles POST /api/tenders/{tenderID}/stages.
func (h *Handler) CreateStageHandler(w http.ResponseWriter, r *http.Request) {
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

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	defer r.Body.Close()

	var input struct {
		Name    string             `json:"name"`
		Order   int                `json:"order"`
		Status  models.StageStatus `json:"status"`
		DueDate *time.Time         `json:"dueDate"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if input.Name == "" || len(input.Name) > 100 {
		respondError(w, http.StatusBadRequest, "name is required and max length 100")
		return
	}
	if input.Status != "" && !models.ValidStageStatus(input.Status) {
		respondError(w, http.StatusBadRequest, "invalid stage status")
		return
	}

	stage := models.Stage{
		TenderID: tenderID,
		Name:     input.Name,
		Order:    input.Order,
		Status:   input.Status,
		DueDate:  input.DueDate,
	}
	if err := h.Store.CreateStage(r.Context(), &stage); err != nil {
		h.Log.Error("create stage", "tender", tenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to create stage")
		return
	}
	respondJSON(w, http.StatusCreated, stage)
}

// GetStagesHandler handles GET /api/tenders/{tenderID}/stages, ordered by
// stage order.
func (h *Handler) GetStagesHandler(w http.ResponseWriter, r *http.Request) {
	tenderID := chi.URLParam(r, "tenderID")

	stages, err := h.Store.GetStages(r.Context(), tenderID)
	if err != nil {
		h.Log.Error("list stages", "tender", tenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get stages")
		return
	}
	respondJSON(w, http.StatusOK, stages)
}

// ReorderStagesHandler handles PUT /api/tenders/{tenderID}/stages: a bulk
// order update from {id, order} pairs. Orders need not be contiguous.
func (h *Handler) ReorderStagesHandler(w http.ResponseWriter, r *http.Request) {
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

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	defer r.Body.Close()

	var input []struct {
		ID    string `json:"id"`
		Order int    `json:"order"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(input) == 0 {
		respondError(w, http.StatusBadRequest, "at least one {id, order} pair is required")
		return
	}

	orders := make(map[string]int, len(input))
	for _, pair := range input {
		if pair.ID == "" {
			respondError(w, http.StatusBadRequest, "stage id is required in every pair")
			return
		}
		orders[pair.ID] = pair.Order
	}

	if err := h.Store.ReorderStages(r.Context(), tenderID, orders); err != nil {
		h.Log.Error("reorder stages", "tender", tenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to reorder stages")
		return
	}

	stages, err := h.Store.GetStages(r.Context(), tenderID)
	if err != nil {
		h.Log.Error("list stages", "tender", tenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get stages")
		return
	}
	respondJSON(w, http.StatusOK, stages)
}

// UpdateStageHandler handles PATCH /api/stages/{stageID}.
func (h *Handler) UpdateStageHandler(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")

	stage, err := h.Store.GetStage(r.Context(), stageID)
	if err != nil {
		if isNoRows(err) {
			respondError(w, http.StatusNotFound, "stage not found")
			return
		}
		h.Log.Error("get stage", "stage", stageID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get stage")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	defer r.Body.Close()

	var input struct {
		Name    *string             `json:"name"`
		Order   *int                `json:"order"`
		Status  *models.StageStatus `json:"status"`
		DueDate *time.Time          `json:"dueDate"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if input.Name != nil {
		if *input.Name == "" || len(*input.Name) > 100 {
			respondError(w, http.StatusBadRequest, "name must be non-empty and max length 100")
			return
		}
		stage.Name = *input.Name
	}
	if input.Order != nil {
		stage.Order = *input.Order
	}
	if input.Status != nil {
		if !models.ValidStageStatus(*input.Status) {
			respondError(w, http.StatusBadRequest, "invalid stage status")
			return
		}
		stage.Status = *input.Status
	}
	if input.DueDate != nil {
		stage.DueDate = input.DueDate
	}

	if err := h.Store.UpdateStage(r.Context(), stage); err != nil {
		h.Log.Error("update stage", "stage", stageID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to update stage")
		return
	}
	respondJSON(w, http.StatusOK, stage)
}

// DeleteStageHandler handles DELETE /api/stages/{stageID}.
func (h *Handler) DeleteStageHandler(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")

	if _, err := h.Store.GetStage(r.Context(), stageID); err != nil {
		if isNoRows(err) {
			respondError(w, http.StatusNotFound, "stage not found")
			return
		}
		h.Log.Error("get stage", "stage", stageID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get stage")
		return
	}

	if err := h.Store.DeleteStage(r.Context(), stageID); err != nil {
		h.Log.Error("delete stage", "stage", stageID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to delete stage")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
