package service

import (
	"context"
	"errors"
	"testing"

	"github.com/specia/specia-server/internal/apperror"
	"github.com/specia/specia-server/internal/model"
)

// =========================================================================
// FAKE
// =========================================================================

type fakeContentRepo struct {
	company *model.CompanyProfile
	catalog []model.CatalogItem
}

func (f *fakeContentRepo) GetCompany(ctx context.Context) (*model.CompanyProfile, error) {
	if f.company == nil {
		return nil, apperror.NotFound("company profile", "1")
	}
	copied := *f.company
	return &copied, nil
}

func (f *fakeContentRepo) SaveCompany(ctx context.Context, p *model.CompanyProfile) error {
	copied := *p
	f.company = &copied
	return nil
}

func (f *fakeContentRepo) GetCatalog(ctx context.Context) ([]model.CatalogItem, error) {
	if f.catalog == nil {
		return model.DefaultCatalog(), nil
	}
	return f.catalog, nil
}

func (f *fakeContentRepo) SaveCatalog(ctx context.Context, items []model.CatalogItem) error {
	f.catalog = items
	return nil
}

func newTestContentService() (*ContentService, *fakeContentRepo) {
	repo := &fakeContentRepo{}
	return NewContentService(repo, testLogger()), repo
}

// =========================================================================
// COMPANY PROFILE TESTS
// =========================================================================

func TestCompany_UnsetReturnsNilWithoutError(t *testing.T) {
	svc, _ := newTestContentService()

	profile, err := svc.Company(context.Background())
	if err != nil {
		t.Fatalf("Company() error = %v, unset profile is not an error", err)
	}
	if profile != nil {
		t.Errorf("profile = %+v, want nil", profile)
	}
}

func TestSaveCompany_RoundTrip(t *testing.T) {
	svc, _ := newTestContentService()
	ctx := context.Background()

	saved, err := svc.SaveCompany(ctx, CompanyInput{
		CompanyName: "Specia",
		Description: "3D modelling and AR studio",
		Vision:      "  spaces anyone can walk through  ",
	})
	if err != nil {
		t.Fatalf("SaveCompany() error = %v", err)
	}
	if saved.Vision != "spaces anyone can walk through" {
		t.Errorf("Vision not trimmed: %q", saved.Vision)
	}

	got, err := svc.Company(ctx)
	if err != nil {
		t.Fatalf("Company() error = %v", err)
	}
	if got.CompanyName != "Specia" {
		t.Errorf("CompanyName = %q", got.CompanyName)
	}
}

func TestSaveCompany_RequiredFields(t *testing.T) {
	svc, _ := newTestContentService()
	ctx := context.Background()

	if _, err := svc.SaveCompany(ctx, CompanyInput{Description: "d"}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("missing company name: error = %v, want ErrValidation", err)
	}
	if _, err := svc.SaveCompany(ctx, CompanyInput{CompanyName: "Specia"}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("missing description: error = %v, want ErrValidation", err)
	}
}

// =========================================================================
// SERVICE CATALOG TESTS
// =========================================================================

func TestCatalog_DefaultsWhenUnset(t *testing.T) {
	svc, _ := newTestContentService()

	items, err := svc.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("default catalog = %d items, want 3", len(items))
	}
	if items[0].Title == "" {
		t.Error("default item has empty title")
	}
}

func TestSaveCatalog_ReplacesWholeList(t *testing.T) {
	svc, _ := newTestContentService()
	ctx := context.Background()

	saved, err := svc.SaveCatalog(ctx, []model.CatalogItem{
		{Title: "Modelling", ShortDesc: "Detailed 3D models"},
	})
	if err != nil {
		t.Fatalf("SaveCatalog() error = %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("saved = %d items", len(saved))
	}

	items, err := svc.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if len(items) != 1 || items[0].Title != "Modelling" {
		t.Errorf("catalog after save = %+v", items)
	}
}

func TestSaveCatalog_Validation(t *testing.T) {
	svc, _ := newTestContentService()
	ctx := context.Background()

	if _, err := svc.SaveCatalog(ctx, nil); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("empty list: error = %v, want ErrValidation", err)
	}

	_, err := svc.SaveCatalog(ctx, []model.CatalogItem{{Title: "No description"}})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("missing short description: error = %v, want ErrValidation", err)
	}

	// The image is optional: an admin can publish a text-only item and
	// attach artwork later.
	if _, err := svc.SaveCatalog(ctx, []model.CatalogItem{
		{Title: "AR", ShortDesc: "On-site augmented reality"},
	}); err != nil {
		t.Errorf("item without image: error = %v, want nil", err)
	}
}
