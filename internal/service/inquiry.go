package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/specia/specia-server/internal/apperror"
	"github.com/specia/specia-server/internal/model"
	"github.com/specia/specia-server/internal/pagination"
	"github.com/specia/specia-server/internal/repository"
)

// Inquiry list paging. The limit is the one client-tunable page size in the
// API, and it is clamped hard so a crafted query can't dump the table.
const (
	InquiryDefaultLimit = 50
	InquiryMaxLimit     = 50
)

// InquiryInput is a contact-form submission.
type InquiryInput struct {
	Name     string
	Email    string
	Phone    string
	Subject  string
	Message  string
	Category string
}

// InquiryMetrics is the slice of the metrics collector this service
// reports to. May be nil in tests.
type InquiryMetrics interface {
	RecordInquiry()
}

// InquiryService handles the public contact form and the admin inbox.
type InquiryService struct {
	inquiries repository.InquiryRepository
	metrics   InquiryMetrics
	logger    *slog.Logger
}

// NewInquiryService creates an InquiryService.
func NewInquiryService(inquiries repository.InquiryRepository, metrics InquiryMetrics, logger *slog.Logger) *InquiryService {
	return &InquiryService{inquiries: inquiries, metrics: metrics, logger: logger}
}

// Submit validates and stores a contact-form submission. Name, email,
// subject, and message are required; an unknown category falls back to
// general rather than rejecting the message — losing a lead over a bad
// dropdown value is worse than mislabelling it.
func (s *InquiryService) Submit(ctx context.Context, in InquiryInput) (*model.Inquiry, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	subject := strings.TrimSpace(in.Subject)
	message := strings.TrimSpace(in.Message)

	if name == "" || email == "" || subject == "" || message == "" {
		return nil, apperror.ValidationFailed("message", "name, email, subject, and message are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperror.ValidationFailed("email", "invalid email format")
	}

	category := model.InquiryCategory(in.Category)
	if !model.ValidCategory(category) {
		category = model.CategoryGeneral
	}

	inquiry := &model.Inquiry{
		Name:     name,
		Email:    email,
		Phone:    strings.TrimSpace(in.Phone),
		Subject:  subject,
		Message:  message,
		Category: category,
		Status:   model.InquiryPending,
	}

	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		s.logger.Error("failed to store inquiry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating inquiry: %w", err)
	}

	s.logger.Info("inquiry received",
		slog.String("id", inquiry.ID),
		slog.String("category", string(inquiry.Category)),
	)
	if s.metrics != nil {
		s.metrics.RecordInquiry()
	}

	return inquiry, nil
}

// List returns one page of the inbox, newest first. rawLimit comes straight
// from the query string; it is clamped to 1..50 with 50 as the default.
func (s *InquiryService) List(ctx context.Context, page int, rawLimit string) ([]model.Inquiry, pagination.Meta, error) {
	limit := pagination.ClampLimit(rawLimit, InquiryDefaultLimit, InquiryMaxLimit)

	items, total, err := s.inquiries.List(ctx, repository.ListOptions{
		Limit:  limit,
		Offset: pagination.Offset(page, limit),
	})
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("listing inquiries: %w", err)
	}
	return items, pagination.NewMeta(page, limit, total), nil
}

// Get returns a single inquiry. Opening a pending inquiry marks it read —
// the inbox badge counts pending rows, so the first admin view clears it.
func (s *InquiryService) Get(ctx context.Context, id string) (*model.Inquiry, error) {
	inquiry, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if inquiry.Status == model.InquiryPending {
		if err := s.inquiries.SetStatus(ctx, id, model.InquiryRead); err != nil {
			return nil, fmt.Errorf("marking inquiry read: %w", err)
		}
		inquiry.Status = model.InquiryRead
	}

	return inquiry, nil
}

// SetStatus sets an inquiry's handling state to one of the known statuses.
func (s *InquiryService) SetStatus(ctx context.Context, id string, status model.InquiryStatus) (*model.Inquiry, error) {
	switch status {
	case model.InquiryPending, model.InquiryRead, model.InquiryReplied:
	default:
		return nil, apperror.ValidationFailed("status", "status must be pending, read, or replied")
	}

	if err := s.inquiries.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.inquiries.GetByID(ctx, id)
}

// DeleteMany removes a batch of inquiries and reports how many existed.
func (s *InquiryService) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, apperror.ValidationFailed("ids", "at least one inquiry id is required")
	}

	deleted, err := s.inquiries.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("deleting inquiries: %w", err)
	}

	s.logger.Info("inquiries deleted", slog.Int("count", deleted))
	return deleted, nil
}
