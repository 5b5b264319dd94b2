package handler

import (
	"log/slog"
	"net/http"

	"github.com/specia/specia-server/internal/model"
	"github.com/specia/specia-server/internal/service"
)

// ContentHandler serves the public site content (company profile and the
// service catalog) plus the admin endpoints that edit it.
type ContentHandler struct {
	content *service.ContentService
	logger  *slog.Logger
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(content *service.ContentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{content: content, logger: logger}
}

// HandleGetCompany returns the company profile, or null data when no admin
// has saved one yet — the frontend falls back to its built-in copy.
//
// HTTP: GET /api/company (public)
func (h *ContentHandler) HandleGetCompany(w http.ResponseWriter, r *http.Request) {
	profile, err := h.content.Company(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if profile == nil {
		writeJSON(w, http.StatusOK, envelope{Success: true, Message: "no company profile saved yet"})
		return
	}
	writeData(w, http.StatusOK, profile)
}

// companyRequest is the admin's profile edit payload.
type companyRequest struct {
	CompanyName string `json:"companyName"`
	Description string `json:"description"`
	Vision      string `json:"vision"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	Values      string `json:"values"`
}

// HandleSaveCompany replaces the company profile.
//
// HTTP: POST /api/company (admin)
func (h *ContentHandler) HandleSaveCompany(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.content.SaveCompany(r.Context(), service.CompanyInput{
		CompanyName: req.CompanyName,
		Description: req.Description,
		Vision:      req.Vision,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Values:      req.Values,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, profile, "company profile saved")
}

// HandleGetCatalog returns the public service catalog.
//
// HTTP: GET /api/services (public)
func (h *ContentHandler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.Catalog(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, items)
}

// catalogRequest is the admin's catalog edit payload. The list replaces
// whatever was saved before.
type catalogRequest struct {
	Services []model.CatalogItem `json:"services"`
}

// HandleSaveCatalog replaces the service catalog.
//
// HTTP: PUT /api/services (admin)
func (h *ContentHandler) HandleSaveCatalog(w http.ResponseWriter, r *http.Request) {
	var req catalogRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	items, err := h.content.SaveCatalog(r.Context(), req.Services)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, items, "service catalog saved")
}
