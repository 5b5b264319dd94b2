package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/specia/specia-server/internal/model"
	"github.com/specia/specia-server/internal/pagination"
	"github.com/specia/specia-server/internal/service"
)

// ContactHandler serves the public contact form and the admin inbox.
type ContactHandler struct {
	inquiries *service.InquiryService
	logger    *slog.Logger
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(inquiries *service.InquiryService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{inquiries: inquiries, logger: logger}
}

// contactRequest is the public submission payload.
type contactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

// HandleSubmit accepts a contact-form submission.
//
// HTTP: POST /api/contact (public)
func (h *ContactHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	inquiry, err := h.inquiries.Submit(r.Context(), service.InquiryInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Subject:  req.Subject,
		Message:  req.Message,
		Category: req.Category,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, inquiry, "your inquiry has been received")
}

// HandleList returns one page of the inbox, newest first.
//
// HTTP: GET /api/contact?page=N&limit=M (admin)
func (h *ContactHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	items, meta, err := h.inquiries.List(r.Context(), page, r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, listPayload[model.Inquiry]{Items: items, Pagination: meta})
}

// HandleGet returns one inquiry. Viewing a pending inquiry marks it read.
//
// HTTP: GET /api/contact/{id} (admin)
func (h *ContactHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	inquiry, err := h.inquiries.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, inquiry)
}

// statusRequest is the status-change payload.
type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus sets an inquiry's handling state.
//
// HTTP: PUT /api/contact/{id}/status (admin)
func (h *ContactHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	inquiry, err := h.inquiries.SetStatus(r.Context(), chi.URLParam(r, "id"), model.InquiryStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, inquiry, "status updated")
}

// deleteManyRequest is the batch-delete payload.
type deleteManyRequest struct {
	IDs []string `json:"ids"`
}

// HandleDeleteMany removes a batch of inquiries.
//
// HTTP: DELETE /api/contact (admin)
func (h *ContactHandler) HandleDeleteMany(w http.ResponseWriter, r *http.Request) {
	var req deleteManyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	deleted, err := h.inquiries.DeleteMany(r.Context(), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, map[string]int{"deleted": deleted}, "inquiries deleted")
}
