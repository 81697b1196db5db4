package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"aiinterviewer/internal/model"
	"aiinterviewer/internal/service"
)

// InterviewHandler handles interview endpoints
type InterviewHandler struct {
	interviewSvc *service.InterviewService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewSvc *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewSvc: interviewSvc}
}

// Start handles POST /v1/interviews
// @Summary Start an interview
// @Tags interviews
// @Accept json
// @Produce json
// @Param body body model.StartInterviewRequest false "template id or ad-hoc topic"
// @Success 201 {object} model.StartInterviewResponse
// @Router /interviews [post]
func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req model.StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.interviewSvc.Start(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Message handles POST /v1/interviews/{sessionId}/messages
// @Summary Answer the current question
// @Tags interviews
// @Security RespondentToken
// @Param sessionId path string true "session id"
// @Param body body model.MessageRequest true "answer"
// @Success 200 {object} model.TurnResult
// @Failure 404 {object} map[string]string
// @Router /interviews/{sessionId}/messages [post]
func (h *InterviewHandler) Message(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req model.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.interviewSvc.ProcessTurn(r.Context(), sessionID, req.Message)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// End handles POST /v1/interviews/{sessionId}/end
// @Summary End an interview early
// @Tags interviews
// @Security RespondentToken
// @Param sessionId path string true "session id"
// @Success 200 {object} model.EndInterviewResponse
// @Router /interviews/{sessionId}/end [post]
func (h *InterviewHandler) End(w http.ResponseWriter, r *http.Request) {
	resp, err := h.interviewSvc.End(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Summary handles GET /v1/interviews/{sessionId}/summary
// @Summary Get the summary of a finished interview
// @Tags interviews
// @Security ResearcherToken
// @Param sessionId path string true "session id"
// @Success 200 {object} model.Summary
// @Failure 409 {object} map[string]string
// @Router /interviews/{sessionId}/summary [get]
func (h *InterviewHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.interviewSvc.GetSummary(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// TranscriptResponse is the researcher view of a session
type TranscriptResponse struct {
	Session   *model.Session          `json:"session"`
	Responses []*model.ResponseRecord `json:"responses"`
}

// Transcript handles GET /v1/interviews/{sessionId}/transcript
// @Summary Get the transcript and analyzed responses of an interview
// @Tags interviews
// @Security ResearcherToken
// @Param sessionId path string true "session id"
// @Success 200 {object} TranscriptResponse
// @Router /interviews/{sessionId}/transcript [get]
func (h *InterviewHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	sess, err := h.interviewSvc.Transcript(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	responses, err := h.interviewSvc.Responses(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if responses == nil {
		responses = []*model.ResponseRecord{}
	}

	writeJSON(w, http.StatusOK, TranscriptResponse{Session: sess, Responses: responses})
}
