package handler

import (
	"log/slog"
	"net/http"

	"github.com/specia/specia-server/internal/auth"
	"github.com/specia/specia-server/internal/model"
	"github.com/specia/specia-server/internal/pagination"
	"github.com/specia/specia-server/internal/service"
)

// MyPageHandler serves the logged-in member's dashboard: record counts and
// the paged lists of their own service and discount records.
//
// Every route here sits behind the authentication middleware, so the owner
// is always the context user — there is no user id in the URL to tamper with.
type MyPageHandler struct {
	records *service.RecordService
	logger  *slog.Logger
}

// NewMyPageHandler creates a MyPageHandler.
func NewMyPageHandler(records *service.RecordService, logger *slog.Logger) *MyPageHandler {
	return &MyPageHandler{records: records, logger: logger}
}

// contextUser pulls the authenticated user out of the request context.
func contextUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "authentication required"})
		return nil, false
	}
	return user, true
}

// HandleCounts returns how many records of each kind the member has.
//
// HTTP: GET /api/mypage/services/counts
func (h *MyPageHandler) HandleCounts(w http.ResponseWriter, r *http.Request) {
	user, ok := contextUser(w, r)
	if !ok {
		return
	}

	counts, err := h.records.Counts(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, counts)
}

// serviceRecordRequest is the create payload for a contracted service.
type serviceRecordRequest struct {
	ServiceType      string  `json:"serviceType"`
	Status           string  `json:"status"`
	ContractDate     string  `json:"contractDate"`
	CompanyName      string  `json:"companyName"`
	ManagerName      string  `json:"managerName"`
	ProjectName      string  `json:"projectName"`
	TotalAmount      float64 `json:"totalAmount"`
	ModificationList string  `json:"modificationList"`
	SubscriptionType string  `json:"subscriptionType"`
	ModificationMemo string  `json:"modificationMemo"`
}

func (req serviceRecordRequest) toInput() service.ServiceRecordInput {
	return service.ServiceRecordInput{
		ServiceType:      req.ServiceType,
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

// HandleCreateService records a new contracted service for the member.
//
// HTTP: POST /api/mypage/services
func (h *MyPageHandler) HandleCreateService(w http.ResponseWriter, r *http.Request) {
	user, ok := contextUser(w, r)
	if !ok {
		return
	}

	var req serviceRecordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.records.CreateService(r.Context(), user.ID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, rec, "service registered")
}

// HandleListServices returns one page of the member's records of one type.
//
// HTTP: GET /api/mypage/services/{type}?page=N  (type ∈ general, subscription)
func (h *MyPageHandler) HandleListServices(serviceType model.ServiceType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := contextUser(w, r)
		if !ok {
			return
		}

		page := pagination.ParsePage(r.URL.Query().Get("page"))
		items, meta, err := h.records.ListServices(r.Context(), user.ID, serviceType, page)
		if err != nil {
			writeError(w, err)
			return
		}

		writeData(w, http.StatusOK, listPayload[model.ServiceRecord]{Items: items, Pagination: meta})
	}
}

// dcRecordRequest is the create payload for a discount record.
type dcRecordRequest struct {
	RecommendedCompanyName string  `json:"recommendedCompanyName"`
	ManagerName            string  `json:"managerName"`
	MeetingStatus          string  `json:"meetingStatus"`
	ContractStatus         string  `json:"contractStatus"`
	ContractName           string  `json:"contractName"`
	DiscountRate           float64 `json:"discountRate"`
	CumulativeDiscountRate float64 `json:"cumulativeDiscountRate"`
}

func (req dcRecordRequest) toInput() service.DCRecordInput {
	return service.DCRecordInput{
		RecommendedCompanyName: req.RecommendedCompanyName,
		ManagerName:            req.ManagerName,
		MeetingStatus:          req.MeetingStatus,
		ContractStatus:         req.ContractStatus,
		ContractName:           req.ContractName,
		DiscountRate:           req.DiscountRate,
		CumulativeDiscountRate: req.CumulativeDiscountRate,
	}
}

// HandleCreateDC records a new discount entry for the member.
//
// HTTP: POST /api/mypage/dc
func (h *MyPageHandler) HandleCreateDC(w http.ResponseWriter, r *http.Request) {
	user, ok := contextUser(w, r)
	if !ok {
		return
	}

	var req dcRecordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.records.CreateDC(r.Context(), user.ID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, rec, "dc record registered")
}

// HandleListDC returns one page of the member's discount records.
//
// HTTP: GET /api/mypage/dc?page=N
func (h *MyPageHandler) HandleListDC(w http.ResponseWriter, r *http.Request) {
	user, ok := contextUser(w, r)
	if !ok {
		return
	}

	page := pagination.ParsePage(r.URL.Query().Get("page"))
	items, meta, err := h.records.ListDC(r.Context(), user.ID, page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, listPayload[model.DCRecord]{Items: items, Pagination: meta})
}
