package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tenderbolt/models"
)

// CreateTeamMemberHandler handles POST /api/tenders/{tenderID}/members.
func (h *Handler) CreateTeamMemberHandler(w http.ResponseWriter, r *http.Request) {
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
		Name  string `json:"name"`
		Role  string `json:"role"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if input.Name == "" || len(input.Name) > 100 {
		respondError(w, http.StatusBadRequest, "name is required and max length 100")
		return
	}

	member := models.TeamMember{
		TenderID: tenderID,
		Name:     input.Name,
		Role:     input.Role,
		Email:    input.Email,
	}
	if err := h.Store.CreateTeamMember(r.Context(), &member); err != nil {
		h.Log.Error("create team member", "tender", tenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to create team member")
		return
	}
	respondJSON(w, http.StatusCreated, member)
}

// GetTeamMembersHandler handles GET /api/tenders/{tenderID}/members.
func (h *Handler) GetTeamMembersHandler(w http.ResponseWriter, r *http.Request) {
	tenderID := chi.URLParam(r, "tenderID")

	members, err := h.Store.GetTeamMembers(r.Context(), tenderID)
	if err != nil {
		h.Log.Error("list team members", "tender", tenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get team members")
		return
	}
	respondJSON(w, http.StatusOK, members)
}

// DeleteTeamMemberHandler handles DELETE /api/members/{memberID}.
func (h *Handler) DeleteTeamMemberHandler(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")

	if err := h.Store.DeleteTeamMember(r.Context(), memberID); err != nil {
		h.Log.Error("delete team member", "member", memberID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to delete team member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
