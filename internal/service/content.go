package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/specia/specia-server/internal/apperror"
	"github.com/specia/specia-server/internal/model"
	"github.com/specia/specia-server/internal/repository"
)

// CompanyInput is the admin's edit of the public company profile.
type CompanyInput struct {
	CompanyName string
	Description string
	Vision      string
	Address     string
	Phone       string
	Email       string
	Website     string
	Values      string
}

// ContentService manages the two singleton site-content records: the
// company profile and the service catalog.
type ContentService struct {
	content repository.ContentRepository
	logger  *slog.Logger
}

// NewContentService creates a ContentService.
func NewContentService(content repository.ContentRepository, logger *slog.Logger) *ContentService {
	return &ContentService{content: content, logger: logger}
}

// Company returns the public company profile, or nil when no admin has
// saved one yet. An empty profile is not an error for the public page; the
// frontend renders its built-in copy instead.
func (s *ContentService) Company(ctx context.Context) (*model.CompanyProfile, error) {
	profile, err := s.content.GetCompany(ctx)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading company profile: %w", err)
	}
	return profile, nil
}

// SaveCompany validates and stores the company profile, replacing whatever
// was there before.
func (s *ContentService) SaveCompany(ctx context.Context, in CompanyInput) (*model.CompanyProfile, error) {
	if strings.TrimSpace(in.CompanyName) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, apperror.ValidationFailed("companyName", "company name and description are required")
	}

	profile := &model.CompanyProfile{
		CompanyName: strings.TrimSpace(in.CompanyName),
		Description: strings.TrimSpace(in.Description),
		Vision:      strings.TrimSpace(in.Vision),
		Address:     strings.TrimSpace(in.Address),
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.TrimSpace(in.Email),
		Website:     strings.TrimSpace(in.Website),
		Values:      strings.TrimSpace(in.Values),
	}

	if err := s.content.SaveCompany(ctx, profile); err != nil {
		s.logger.Error("failed to save company profile", slog.String("error", err.Error()))
		return nil, fmt.Errorf("saving company profile: %w", err)
	}

	s.logger.Info("company profile saved")
	return profile, nil
}

// Catalog returns the public service catalog. The repository falls back to
// the built-in default list when no admin has saved one.
func (s *ContentService) Catalog(ctx context.Context) ([]model.CatalogItem, error) {
	items, err := s.content.GetCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading service catalog: %w", err)
	}
	return items, nil
}

// SaveCatalog validates and stores the service catalog as a whole. The
// list replaces the previous one; there is no per-item edit.
func (s *ContentService) SaveCatalog(ctx context.Context, items []model.CatalogItem) ([]model.CatalogItem, error) {
	if len(items) == 0 {
		return nil, apperror.ValidationFailed("services", "at least one service is required")
	}
	for i := range items {
		items[i].Title = strings.TrimSpace(items[i].Title)
		items[i].ShortDesc = strings.TrimSpace(items[i].ShortDesc)
		if items[i].Title == "" || items[i].ShortDesc == "" {
			return nil, apperror.ValidationFailed("services", "every service needs a title and a short description")
		}
	}

	if err := s.content.SaveCatalog(ctx, items); err != nil {
		s.logger.Error("failed to save service catalog", slog.String("error", err.Error()))
		return nil, fmt.Errorf("saving service catalog: %w", err)
	}

	s.logger.Info("service catalog saved", slog.Int("items", len(items)))
	return items, nil
}
