package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/specia/specia-server/internal/apperror"
	"github.com/specia/specia-server/internal/model"
	"github.com/specia/specia-server/internal/pagination"
	"github.com/specia/specia-server/internal/repository"
)

// MyPageListLimit is the fixed page size for every my-page list. The admin
// console pages users at AdminUserListLimit; neither is client-tunable.
const (
	MyPageListLimit    = 10
	AdminUserListLimit = 20
)

// ServiceRecordInput carries a create request for a contracted service.
// ContractDate arrives as a string ("2006-01-02" or RFC 3339) because both
// the admin console and the my-page form submit bare dates.
type ServiceRecordInput struct {
	ServiceType      string
	Status           string
	ContractDate     string
	CompanyName      string
	ManagerName      string
	ProjectName      string
	TotalAmount      float64
	ModificationList string
	SubscriptionType string
	ModificationMemo string
}

// ServiceRecordUpdate carries a partial update. Nil fields mean "leave
// unchanged" — the handler maps absent JSON keys to nil pointers, matching
// the PUT semantics the clients already rely on.
type ServiceRecordUpdate struct {
	Status           *string
	ContractDate     *string
	CompanyName      *string
	ManagerName      *string
	ProjectName      *string
	TotalAmount      *float64
	ModificationList *string
	SubscriptionType *string
	ModificationMemo *string
}

// DCRecordInput carries a create request for a discount record. Every
// field is optional; numeric rates default to 0.
type DCRecordInput struct {
	RecommendedCompanyName string
	ManagerName            string
	MeetingStatus          string
	ContractStatus         string
	ContractName           string
	DiscountRate           float64
	CumulativeDiscountRate float64
}

// DCRecordUpdate carries a partial update with the same nil-means-keep
// convention as ServiceRecordUpdate.
type DCRecordUpdate struct {
	RecommendedCompanyName *string
	ManagerName            *string
	MeetingStatus          *string
	ContractStatus         *string
	ContractName           *string
	DiscountRate           *float64
	CumulativeDiscountRate *float64
}

// ServiceCounts is the my-page dashboard aggregate.
type ServiceCounts struct {
	General      int `json:"general"`
	Subscription int `json:"subscription"`
	DC           int `json:"dc"`
}

// RecordService owns the business rules for per-user service and discount
// records. Ownership is explicit: every method takes the owning user's id,
// and the repositories scope every query by it. The my-page handlers pass
// the authenticated user's id; the admin handlers pass a verified target
// user's id — same rules either way.
type RecordService struct {
	services repository.ServiceRecordRepository
	dcs      repository.DCRecordRepository
	logger   *slog.Logger
}

// NewRecordService creates a RecordService.
func NewRecordService(
	services repository.ServiceRecordRepository,
	dcs repository.DCRecordRepository,
	logger *slog.Logger,
) *RecordService {
	return &RecordService{services: services, dcs: dcs, logger: logger}
}

// Counts returns how many records of each kind the user has.
func (s *RecordService) Counts(ctx context.Context, userID string) (*ServiceCounts, error) {
	general, err := s.services.CountByUser(ctx, userID, model.ServiceGeneral)
	if err != nil {
		return nil, fmt.Errorf("counting general services: %w", err)
	}
	subscription, err := s.services.CountByUser(ctx, userID, model.ServiceSubscription)
	if err != nil {
		return nil, fmt.Errorf("counting subscription services: %w", err)
	}
	dc, err := s.dcs.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting dc records: %w", err)
	}

	return &ServiceCounts{General: general, Subscription: subscription, DC: dc}, nil
}

// CreateService validates and stores a new contracted service for userID.
//
// Required: service type, contract date, company name. Status defaults to
// progress; anything other than "completed" is progress. TotalAmount
// defaults to 0 and must not be negative. The subscription-only fields are
// dropped on general records so the two shapes stay mutually exclusive.
func (s *RecordService) CreateService(ctx context.Context, userID string, in ServiceRecordInput) (*model.ServiceRecord, error) {
	if in.ServiceType == "" || in.ContractDate == "" || strings.TrimSpace(in.CompanyName) == "" {
		return nil, apperror.ValidationFailed("serviceType", "service type, contract date, and company name are required")
	}

	serviceType := model.ServiceGeneral
	if in.ServiceType == string(model.ServiceSubscription) {
		serviceType = model.ServiceSubscription
	}

	contractDate, err := parseContractDate(in.ContractDate)
	if err != nil {
		return nil, apperror.ValidationFailed("contractDate", "contract date must be YYYY-MM-DD")
	}

	if in.TotalAmount < 0 {
		return nil, apperror.ValidationFailed("totalAmount", "total amount must not be negative")
	}

	rec := &model.ServiceRecord{
		UserID:           userID,
		ServiceType:      serviceType,
		Status:           coerceStatus(in.Status),
		ContractDate:     contractDate,
		CompanyName:      strings.TrimSpace(in.CompanyName),
		ManagerName:      strings.TrimSpace(in.ManagerName),
		ProjectName:      strings.TrimSpace(in.ProjectName),
		TotalAmount:      in.TotalAmount,
		ModificationList: strings.TrimSpace(in.ModificationList),
	}
	if serviceType == model.ServiceSubscription {
		rec.SubscriptionType = strings.TrimSpace(in.SubscriptionType)
		rec.ModificationMemo = strings.TrimSpace(in.ModificationMemo)
	}

	if err := s.services.Create(ctx, rec); err != nil {
		s.logger.Error("failed to create service record",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating service record: %w", err)
	}

	s.logger.Info("service record created",
		slog.String("id", rec.ID),
		slog.String("userID", userID),
		slog.String("type", string(rec.ServiceType)),
	)

	return rec, nil
}

// ListServices returns one page (fixed size 10) of the user's records of
// the given type, newest contract first.
func (s *RecordService) ListServices(ctx context.Context, userID string, t model.ServiceType, page int) ([]model.ServiceRecord, pagination.Meta, error) {
	items, total, err := s.services.ListByUser(ctx, userID, t, repository.ListOptions{
		Limit:  MyPageListLimit,
		Offset: pagination.Offset(page, MyPageListLimit),
	})
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("listing %s services: %w", t, err)
	}
	return items, pagination.NewMeta(page, MyPageListLimit, total), nil
}

// UpdateService applies a partial update to one of userID's records.
// Fetch-then-update: the missing-record error comes from GetByUser, so a
// record owned by someone else 404s before any field is touched.
func (s *RecordService) UpdateService(ctx context.Context, userID, id string, in ServiceRecordUpdate) (*model.ServiceRecord, error) {
	rec, err := s.services.GetByUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		rec.Status = coerceStatus(*in.Status)
	}
	if in.ContractDate != nil {
		contractDate, err := parseContractDate(*in.ContractDate)
		if err != nil {
			return nil, apperror.ValidationFailed("contractDate", "contract date must be YYYY-MM-DD")
		}
		rec.ContractDate = contractDate
	}
	if in.CompanyName != nil {
		if strings.TrimSpace(*in.CompanyName) == "" {
			return nil, apperror.ValidationFailed("companyName", "company name is required")
		}
		rec.CompanyName = strings.TrimSpace(*in.CompanyName)
	}
	if in.ManagerName != nil {
		rec.ManagerName = strings.TrimSpace(*in.ManagerName)
	}
	if in.ProjectName != nil {
		rec.ProjectName = strings.TrimSpace(*in.ProjectName)
	}
	if in.TotalAmount != nil {
		if *in.TotalAmount < 0 {
			return nil, apperror.ValidationFailed("totalAmount", "total amount must not be negative")
		}
		rec.TotalAmount = *in.TotalAmount
	}
	if in.ModificationList != nil {
		rec.ModificationList = strings.TrimSpace(*in.ModificationList)
	}
	if rec.ServiceType == model.ServiceSubscription {
		if in.SubscriptionType != nil {
			rec.SubscriptionType = strings.TrimSpace(*in.SubscriptionType)
		}
		if in.ModificationMemo != nil {
			rec.ModificationMemo = strings.TrimSpace(*in.ModificationMemo)
		}
	}

	if err := s.services.Update(ctx, rec); err != nil {
		s.logger.Error("failed to update service record",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating service record: %w", err)
	}

	s.logger.Info("service record updated", slog.String("id", id))
	return rec, nil
}

// DeleteService removes one of userID's records.
func (s *RecordService) DeleteService(ctx context.Context, userID, id string) error {
	if err := s.services.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("service record deleted", slog.String("id", id))
	return nil
}

// CreateDC stores a new discount record for userID. No field is required;
// the rates default to 0 and must not be negative.
func (s *RecordService) CreateDC(ctx context.Context, userID string, in DCRecordInput) (*model.DCRecord, error) {
	if in.DiscountRate < 0 || in.CumulativeDiscountRate < 0 {
		return nil, apperror.ValidationFailed("discountRate", "discount rates must not be negative")
	}

	rec := &model.DCRecord{
		UserID:                 userID,
		RecommendedCompanyName: strings.TrimSpace(in.RecommendedCompanyName),
		ManagerName:            strings.TrimSpace(in.ManagerName),
		MeetingStatus:          strings.TrimSpace(in.MeetingStatus),
		ContractStatus:         strings.TrimSpace(in.ContractStatus),
		ContractName:           strings.TrimSpace(in.ContractName),
		DiscountRate:           in.DiscountRate,
		CumulativeDiscountRate: in.CumulativeDiscountRate,
	}

	if err := s.dcs.Create(ctx, rec); err != nil {
		s.logger.Error("failed to create dc record",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating dc record: %w", err)
	}

	s.logger.Info("dc record created", slog.String("id", rec.ID), slog.String("userID", userID))
	return rec, nil
}

// ListDC returns one page (fixed size 10) of the user's discount records,
// newest first.
func (s *RecordService) ListDC(ctx context.Context, userID string, page int) ([]model.DCRecord, pagination.Meta, error) {
	items, total, err := s.dcs.ListByUser(ctx, userID, repository.ListOptions{
		Limit:  MyPageListLimit,
		Offset: pagination.Offset(page, MyPageListLimit),
	})
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("listing dc records: %w", err)
	}
	return items, pagination.NewMeta(page, MyPageListLimit, total), nil
}

// UpdateDC applies a partial update to one of userID's discount records.
func (s *RecordService) UpdateDC(ctx context.Context, userID, id string, in DCRecordUpdate) (*model.DCRecord, error) {
	rec, err := s.dcs.GetByUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.RecommendedCompanyName != nil {
		rec.RecommendedCompanyName = strings.TrimSpace(*in.RecommendedCompanyName)
	}
	if in.ManagerName != nil {
		rec.ManagerName = strings.TrimSpace(*in.ManagerName)
	}
	if in.MeetingStatus != nil {
		rec.MeetingStatus = strings.TrimSpace(*in.MeetingStatus)
	}
	if in.ContractStatus != nil {
		rec.ContractStatus = strings.TrimSpace(*in.ContractStatus)
	}
	if in.ContractName != nil {
		rec.ContractName = strings.TrimSpace(*in.ContractName)
	}
	if in.DiscountRate != nil {
		if *in.DiscountRate < 0 {
			return nil, apperror.ValidationFailed("discountRate", "discount rates must not be negative")
		}
		rec.DiscountRate = *in.DiscountRate
	}
	if in.CumulativeDiscountRate != nil {
		if *in.CumulativeDiscountRate < 0 {
			return nil, apperror.ValidationFailed("cumulativeDiscountRate", "discount rates must not be negative")
		}
		rec.CumulativeDiscountRate = *in.CumulativeDiscountRate
	}

	if err := s.dcs.Update(ctx, rec); err != nil {
		s.logger.Error("failed to update dc record",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating dc record: %w", err)
	}

	s.logger.Info("dc record updated", slog.String("id", id))
	return rec, nil
}

// DeleteDC removes one of userID's discount records.
func (s *RecordService) DeleteDC(ctx context.Context, userID, id string) error {
	if err := s.dcs.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("dc record deleted", slog.String("id", id))
	return nil
}

// coerceStatus mirrors the form behaviour: anything that isn't exactly
// "completed" is in progress.
func coerceStatus(raw string) model.ServiceStatus {
	if raw == string(model.StatusCompleted) {
		return model.StatusCompleted
	}
	return model.StatusProgress
}

// parseContractDate accepts the bare date the forms submit, or a full
// RFC 3339 timestamp.
func parseContractDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
