package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"aiinterviewer/internal/model"
	"aiinterviewer/internal/service"
	"aiinterviewer/internal/transport/rest/middleware"
)

// TemplateHandler handles interview template endpoints
type TemplateHandler struct {
	templateSvc *service.TemplateService
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateSvc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateSvc: templateSvc}
}

// Create handles POST /v1/templates
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	researcherID := middleware.GetResearcherID(r.Context())
	if researcherID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var tpl model.Template
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.templateSvc.Create(r.Context(), researcherID, &tpl)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"templateId": id})
}

// List handles GET /v1/templates
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateSvc.List(r.Context(), middleware.GetResearcherID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if templates == nil {
		templates = []*model.Template{}
	}

	writeJSON(w, http.StatusOK, templates)
}

// Get handles GET /v1/templates/{templateId}
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.templateSvc.Get(r.Context(), mux.Vars(r)["templateId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}
