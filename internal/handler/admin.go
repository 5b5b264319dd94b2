package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/specia/specia-server/internal/model"
	"github.com/specia/specia-server/internal/pagination"
	"github.com/specia/specia-server/internal/service"
)

// AdminHandler serves the member-management console. Every route sits
// behind the admin role check; the target member comes from the URL.
type AdminHandler struct {
	admin  *service.AdminService
	logger *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(admin *service.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

// HandleListUsers returns one page of members, newest signup first.
//
// HTTP: GET /api/admin/users?page=N
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	users, meta, err := h.admin.ListUsers(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, listPayload[model.User]{Items: users, Pagination: meta})
}

// HandleUserOverview returns one member's profile with every record.
//
// HTTP: GET /api/admin/users/{userID}/mypage
func (h *AdminHandler) HandleUserOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.admin.UserOverview(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, overview)
}

// userUpdateRequest is the member edit payload. Pointer fields distinguish
// "not sent" (nil, keep the old value) from "sent empty" (clear it).
type userUpdateRequest struct {
	CompanyName *string `json:"companyName"`
	Memo        *string `json:"memo"`
}

// HandleUpdateUser edits a member's company name and memo.
//
// HTTP: PUT /api/admin/users/{userID}
func (h *AdminHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.admin.UpdateUser(r.Context(), chi.URLParam(r, "userID"), service.UserUpdate{
		CompanyName: req.CompanyName,
		Memo:        req.Memo,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, user, "user updated")
}

// HandleDeleteUser removes a member and, via cascade, all their records.
//
// HTTP: DELETE /api/admin/users/{userID}
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteUser(r.Context(), chi.URLParam(r, "userID")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "user deleted"})
}

// HandleCreateUserService adds a contracted service to a member.
//
// HTTP: POST /api/admin/users/{userID}/services
func (h *AdminHandler) HandleCreateUserService(w http.ResponseWriter, r *http.Request) {
	var req serviceRecordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.admin.CreateUserService(r.Context(), chi.URLParam(r, "userID"), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, rec, "service registered")
}

// serviceUpdateRequest is the partial edit payload for a contracted
// service, with the same nil-means-keep convention as userUpdateRequest.
type serviceUpdateRequest struct {
	Status           *string  `json:"status"`
	ContractDate     *string  `json:"contractDate"`
	CompanyName      *string  `json:"companyName"`
	ManagerName      *string  `json:"managerName"`
	ProjectName      *string  `json:"projectName"`
	TotalAmount      *float64 `json:"totalAmount"`
	ModificationList *string  `json:"modificationList"`
	SubscriptionType *string  `json:"subscriptionType"`
	ModificationMemo *string  `json:"modificationMemo"`
}

func (req serviceUpdateRequest) toUpdate() service.ServiceRecordUpdate {
	return service.ServiceRecordUpdate{
		Status:           req.Status,
		ContractDate:     req.ContractDate,
		CompanyName:      req.CompanyName,
		ManagerName:      req.ManagerName,
		ProjectName:      req.ProjectName,
		TotalAmount:      req.TotalAmount,
		ModificationList: req.ModificationList,
		SubscriptionType: req.SubscriptionType,
		ModificationMemo: req.ModificationMemo,
	}
}

// HandleUpdateUserService edits one of a member's contracted services.
//
// HTTP: PUT /api/admin/users/{userID}/services/{id}
func (h *AdminHandler) HandleUpdateUserService(w http.ResponseWriter, r *http.Request) {
	var req serviceUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.admin.UpdateUserService(r.Context(),
		chi.URLParam(r, "userID"), chi.URLParam(r, "id"), req.toUpdate())
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, rec, "service updated")
}

// HandleDeleteUserService removes one of a member's contracted services.
//
// HTTP: DELETE /api/admin/users/{userID}/services/{id}
func (h *AdminHandler) HandleDeleteUserService(w http.ResponseWriter, r *http.Request) {
	err := h.admin.DeleteUserService(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "service deleted"})
}

// HandleCreateUserDC adds a discount record to a member.
//
// HTTP: POST /api/admin/users/{userID}/dc
func (h *AdminHandler) HandleCreateUserDC(w http.ResponseWriter, r *http.Request) {
	var req dcRecordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.admin.CreateUserDC(r.Context(), chi.URLParam(r, "userID"), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, rec, "dc record registered")
}

// dcUpdateRequest is the partial edit payload for a discount record.
type dcUpdateRequest struct {
	RecommendedCompanyName *string  `json:"recommendedCompanyName"`
	ManagerName            *string  `json:"managerName"`
	MeetingStatus          *string  `json:"meetingStatus"`
	ContractStatus         *string  `json:"contractStatus"`
	ContractName           *string  `json:"contractName"`
	DiscountRate           *float64 `json:"discountRate"`
	CumulativeDiscountRate *float64 `json:"cumulativeDiscountRate"`
}

func (req dcUpdateRequest) toUpdate() service.DCRecordUpdate {
	return service.DCRecordUpdate{
		RecommendedCompanyName: req.RecommendedCompanyName,
		ManagerName:            req.ManagerName,
		MeetingStatus:          req.MeetingStatus,
		ContractStatus:         req.ContractStatus,
		ContractName:           req.ContractName,
		DiscountRate:           req.DiscountRate,
		CumulativeDiscountRate: req.CumulativeDiscountRate,
	}
}

// HandleUpdateUserDC edits one of a member's discount records.
//
// HTTP: PUT /api/admin/users/{userID}/dc/{id}
func (h *AdminHandler) HandleUpdateUserDC(w http.ResponseWriter, r *http.Request) {
	var req dcUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.admin.UpdateUserDC(r.Context(),
		chi.URLParam(r, "userID"), chi.URLParam(r, "id"), req.toUpdate())
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, rec, "dc record updated")
}

// HandleDeleteUserDC removes one of a member's discount records.
//
// HTTP: DELETE /api/admin/users/{userID}/dc/{id}
func (h *AdminHandler) HandleDeleteUserDC(w http.ResponseWriter, r *http.Request) {
	err := h.admin.DeleteUserDC(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "dc record deleted"})
}
