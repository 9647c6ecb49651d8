package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"advisor/internal/model"
	"advisor/internal/service"
	"advisor/internal/transport/rest/middleware"
)

// SessionHandler handles session and advisory chat endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
	advisorSvc *service.AdvisorService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, advisorSvc *service.AdvisorService) *SessionHandler {
	return &SessionHandler{
		sessionSvc: sessionSvc,
		advisorSvc: advisorSvc,
	}
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.sessionSvc.CreateSession(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/sessions/{sessionId}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	if !h.authorized(w, r, id) {
		return
	}

	session, err := h.sessionSvc.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if session == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// List handles GET /v1/sessions (admin)
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessionSvc.ListSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// Delete handles DELETE /v1/sessions/{sessionId} (admin)
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]

	if err := h.sessionSvc.DeleteSession(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ImportNew handles POST /v1/sessions/import
func (h *SessionHandler) ImportNew(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1 MB cap
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	resp, err := h.sessionSvc.ImportSession(r.Context(), raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Message handles POST /v1/sessions/{sessionId}/messages
func (h *SessionHandler) Message(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	if !h.authorized(w, r, id) {
		return
	}

	var req model.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	resp, err := h.advisorSvc.HandleMessage(r.Context(), id, &req)
	if err != nil {
		writeAdvisorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SetTopicRequest is the request body for switching the active topic
type SetTopicRequest struct {
	TopicID string `json:"topicId"`
}

// SetTopic handles POST /v1/sessions/{sessionId}/topic
func (h *SessionHandler) SetTopic(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	if !h.authorized(w, r, id) {
		return
	}

	var req SetTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.advisorSvc.SetActiveTopic(r.Context(), id, req.TopicID)
	if err != nil {
		writeAdvisorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Hydrate handles PUT /v1/sessions/{sessionId}/company
func (h *SessionHandler) Hydrate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	if !h.authorized(w, r, id) {
		return
	}

	var data model.CompanyData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.advisorSvc.Hydrate(r.Context(), id, &data)
	if err != nil {
		writeAdvisorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Next handles GET /v1/sessions/{sessionId}/next
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	if !h.authorized(w, r, id) {
		return
	}

	next, err := h.advisorSvc.NextQuestion(r.Context(), id)
	if err != nil {
		writeAdvisorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, next)
}

// Preview handles GET /v1/sessions/{sessionId}/preview
func (h *SessionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	if !h.authorized(w, r, id) {
		return
	}

	preview, err := h.advisorSvc.Preview(r.Context(), id)
	if err != nil {
		writeAdvisorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

// Export handles GET /v1/sessions/{sessionId}/export
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	if !h.authorized(w, r, id) {
		return
	}

	data, err := h.advisorSvc.Export(r.Context(), id)
	if err != nil {
		writeAdvisorError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=model-state.json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Import handles POST /v1/sessions/{sessionId}/import
func (h *SessionHandler) Import(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	if !h.authorized(w, r, id) {
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1 MB cap
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	resp, err := h.advisorSvc.Import(r.Context(), id, raw)
	if err != nil {
		writeAdvisorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// authorized verifies the session token in context matches the path session
func (h *SessionHandler) authorized(w http.ResponseWriter, r *http.Request, sessionID string) bool {
	if middleware.GetSessionID(r.Context()) != sessionID {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return false
	}
	return true
}

func writeAdvisorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionBusy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidSnapshot):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
