package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/specia/specia-server/internal/apperror"
	"github.com/specia/specia-server/internal/model"
)

// =========================================================================
// COMPANY PROFILE TESTS
// =========================================================================

func TestGetCompany_EmptyIsNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Content().GetCompany(context.Background())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetCompany() on empty table error = %v, want ErrNotFound", err)
	}
}

func TestSaveCompany_UpsertsSingleRow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &model.CompanyProfile{CompanyName: "Specia", Description: "3D studio"}
	if err := db.Content().SaveCompany(ctx, first); err != nil {
		t.Fatalf("first SaveCompany() error = %v", err)
	}

	// Second save REPLACES the profile — there is exactly one row, ever.
	second := &model.CompanyProfile{
		CompanyName: "Specia Inc.",
		Description: "3D modelling and AR studio",
		Values:      "craft, clarity",
	}
	if err := db.Content().SaveCompany(ctx, second); err != nil {
		t.Fatalf("second SaveCompany() error = %v", err)
	}

	got, err := db.Content().GetCompany(ctx)
	if err != nil {
		t.Fatalf("GetCompany() error = %v", err)
	}
	if got.CompanyName != "Specia Inc." {
		t.Errorf("CompanyName = %q, want the replacement", got.CompanyName)
	}
	if got.Values != "craft, clarity" {
		t.Errorf("Values = %q", got.Values)
	}
}

// =========================================================================
// SERVICE CATALOG TESTS
// =========================================================================

func TestGetCatalog_DefaultsWhenUnset(t *testing.T) {
	db := newTestDB(t)

	items, err := db.Content().GetCatalog(context.Background())
	if err != nil {
		t.Fatalf("GetCatalog() error = %v", err)
	}
	if len(items) != len(model.DefaultCatalog()) {
		t.Errorf("default catalog = %d items, want %d", len(items), len(model.DefaultCatalog()))
	}
}

func TestSaveCatalog_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	saved := []model.CatalogItem{
		{Title: "Modelling", ShortDesc: "Detailed 3D models", Image: "assets/m.png"},
		{Title: "AR", ShortDesc: "On-site augmented reality"},
	}
	if err := db.Content().SaveCatalog(ctx, saved); err != nil {
		t.Fatalf("SaveCatalog() error = %v", err)
	}

	got, err := db.Content().GetCatalog(ctx)
	if err != nil {
		t.Fatalf("GetCatalog() error = %v", err)
	}
	if len(got) != 2 || got[0].Title != "Modelling" || got[1].Title != "AR" {
		t.Errorf("got = %+v", got)
	}
	if got[0].Image != "assets/m.png" {
		t.Errorf("Image = %q", got[0].Image)
	}

	// Replace again — the old list must not linger.
	if err := db.Content().SaveCatalog(ctx, saved[:1]); err != nil {
		t.Fatalf("second SaveCatalog() error = %v", err)
	}
	got, err = db.Content().GetCatalog(ctx)
	if err != nil {
		t.Fatalf("GetCatalog() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("catalog after replacement = %d items, want 1", len(got))
	}
}
