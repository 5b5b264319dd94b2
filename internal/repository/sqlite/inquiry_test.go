package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/specia/specia-server/internal/apperror"
	"github.com/specia/specia-server/internal/model"
	"github.com/specia/specia-server/internal/repository"
)

func createTestInquiry(t *testing.T, db *DB, subject string) *model.Inquiry {
	t.Helper()
	inq := &model.Inquiry{
		Name:     "Park",
		Email:    "park@example.com",
		Subject:  subject,
		Message:  "Please send a quote.",
		Category: model.CategoryGeneral,
	}
	if err := db.Inquiries().Create(context.Background(), inq); err != nil {
		t.Fatalf("failed to create test inquiry: %v", err)
	}
	return inq
}

func TestInquiryCreate_DefaultsToPending(t *testing.T) {
	db := newTestDB(t)

	inq := createTestInquiry(t, db, "Quote")

	if inq.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if inq.Status != model.InquiryPending {
		t.Errorf("Status = %q, want pending", inq.Status)
	}

	got, err := db.Inquiries().GetByID(context.Background(), inq.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != model.InquiryPending {
		t.Errorf("stored status = %q, want pending", got.Status)
	}
}

func TestInquiryList_NewestFirstWithPaging(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := createTestInquiry(t, db, "first")
	second := createTestInquiry(t, db, "second")
	third := createTestInquiry(t, db, "third")

	items, total, err := db.Inquiries().List(ctx, repository.ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 3 || len(items) != 2 {
		t.Fatalf("total=%d len=%d, want 3/2", total, len(items))
	}
	// Same-second timestamps: the id tie-break (xid is time-ordered) keeps
	// the newest submission first.
	if items[0].ID != third.ID || items[1].ID != second.ID {
		t.Errorf("order = [%s %s], want [%s %s]", items[0].ID, items[1].ID, third.ID, second.ID)
	}

	page2, _, err := db.Inquiries().List(ctx, repository.ListOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List() page 2 error = %v", err)
	}
	if len(page2) != 1 || page2[0].ID != first.ID {
		t.Errorf("page 2 = %+v, want just %s", page2, first.ID)
	}
}

func TestInquirySetStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	inq := createTestInquiry(t, db, "Quote")

	if err := db.Inquiries().SetStatus(ctx, inq.ID, model.InquiryReplied); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}

	got, err := db.Inquiries().GetByID(ctx, inq.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != model.InquiryReplied {
		t.Errorf("Status = %q, want replied", got.Status)
	}
}

func TestInquirySetStatus_UnknownID(t *testing.T) {
	db := newTestDB(t)

	err := db.Inquiries().SetStatus(context.Background(), "no-such-id", model.InquiryRead)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("SetStatus() error = %v, want ErrNotFound", err)
	}
}

func TestInquiryDeleteMany(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := createTestInquiry(t, db, "a")
	b := createTestInquiry(t, db, "b")
	c := createTestInquiry(t, db, "c")

	deleted, err := db.Inquiries().DeleteMany(ctx, []string{a.ID, c.ID, "no-such-id"})
	if err != nil {
		t.Fatalf("DeleteMany() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	_, total, err := db.Inquiries().List(ctx, repository.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 {
		t.Errorf("remaining = %d, want 1 (%s)", total, b.Subject)
	}
}
