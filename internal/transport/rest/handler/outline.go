package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"advisor/internal/model"
	"advisor/internal/service"
)

// OutlineHandler handles outline library endpoints (admin only)
type OutlineHandler struct {
	outlineSvc *service.OutlineService
}

// NewOutlineHandler creates a new outline handler
func NewOutlineHandler(outlineSvc *service.OutlineService) *OutlineHandler {
	return &OutlineHandler{outlineSvc: outlineSvc}
}

// Create handles POST /v1/outlines
func (h *OutlineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var outline model.Outline
	if err := json.NewDecoder(r.Body).Decode(&outline); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.outlineSvc.CreateOutline(r.Context(), &outline)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /v1/outlines/{outlineId}
func (h *OutlineHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["outlineId"]

	outline, err := h.outlineSvc.GetOutline(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if outline == nil {
		writeError(w, http.StatusNotFound, "outline not found")
		return
	}

	writeJSON(w, http.StatusOK, outline)
}

// List handles GET /v1/outlines
func (h *OutlineHandler) List(w http.ResponseWriter, r *http.Request) {
	outlines, err := h.outlineSvc.ListOutlines(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"outlines": outlines})
}

// Update handles PUT /v1/outlines/{outlineId}
func (h *OutlineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["outlineId"]

	var outline model.Outline
	if err := json.NewDecoder(r.Body).Decode(&outline); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	outline.ID = id

	if err := h.outlineSvc.UpdateOutline(r.Context(), &outline); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, outline)
}

// Delete handles DELETE /v1/outlines/{outlineId}
func (h *OutlineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["outlineId"]

	if err := h.outlineSvc.DeleteOutline(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
