package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tenderbolt/models"
)

// CreateDocumentHandler handles POST /api/documents. Tender-category
// documents require an owning tender; supporting and company documents are
// stored without one and become visible across all tenders.
func (h *Handler) CreateDocumentHandler(w http.ResponseWriter, r *http.Request) {
	// Document text can be large but not unbounded.
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	var input struct {
		TenderID string                  `json:"tenderId"`
		Filename string                  `json:"filename"`
		Text     string                  `json:"text"`
		Category models.DocumentCategory `json:"category"`
		DocType  string                  `json:"docType"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	if input.Filename == "" {
		respondError(w, http.StatusBadRequest, "filename is required")
		return
	}
	if input.Category == "" {
		input.Category = models.CategoryTender
	}
	if !models.ValidDocumentCategory(input.Category) {
		respondError(w, http.StatusBadRequest, "invalid document category")
		return
	}

	doc := models.Document{
		Filename:  input.Filename,
		Text:      input.Text,
		Category:  input.Category,
		DocType:   input.DocType,
		SizeBytes: int64(len(input.Text)),
	}

	if input.Category == models.CategoryTender {
		if input.TenderID == "" {
			respondError(w, http.StatusBadRequest, "tenderId is required for tender documents")
			return
		}
		if _, err := h.Store.GetTender(r.Context(), input.TenderID); err != nil {
			if isNoRows(err) {
				respondError(w, http.StatusNotFound, "tender not found")
				return
			}
			h.Log.Error("get tender", "tender", input.TenderID, "err", err)
			respondError(w, http.StatusInternalServerError, "failed to get tender")
			return
		}
		doc.TenderID = &input.TenderID
	}

	if err := h.Store.CreateDocument(r.Context(), &doc); err != nil {
		h.Log.Error("create document", "filename", input.Filename, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to create document")
		return
	}
	respondJSON(w, http.StatusCreated, doc)
}

// GetDocumentsHandler handles GET /api/documents?tenderId=: the tender's
// own documents plus the globally visible ones. Without tenderId only the
// global documents are listed.
func (h *Handler) GetDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	tenderID := r.URL.Query().Get("tenderId")

	docs, err := h.Store.GetDocuments(r.Context(), tenderID)
	if err != nil {
		h.Log.Error("list documents", "tender", tenderID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get documents")
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// GetDocumentHandler handles GET /api/documents/{documentID}.
func (h *Handler) GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	doc, err := h.Store.GetDocument(r.Context(), documentID)
	if err != nil {
		if isNoRows(err) {
			respondError(w, http.StatusNotFound, "document not found")
			return
		}
		h.Log.Error("get document", "document", documentID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get document")
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// DeleteDocumentHandler handles DELETE /api/documents/{documentID}.
func (h *Handler) DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	if _, err := h.Store.GetDocument(r.Context(), documentID); err != nil {
		if isNoRows(err) {
			respondError(w, http.StatusNotFound, "document not found")
			return
		}
		h.Log.Error("get document", "document", documentID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to get document")
		return
	}

	if err := h.Store.DeleteDocument(r.Context(), documentID); err != nil {
		h.Log.Error("delete document", "document", documentID, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
