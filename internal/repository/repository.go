// Package repository defines the storage interfaces the service layer
// depends on.
//
// The service layer programs against these interfaces, never against the
// concrete SQLite types — tests substitute in-memory fakes, and swapping
// the storage engine touches only the wiring in internal/server.
package repository

import (
	"context"

	"github.com/specia/specia-server/internal/model"
)

// ListOptions carries offset paging to a repository list call. List
// implementations return the page of items plus the exact total count of
// matching rows, so the handler can report totalPages.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository persists user accounts.
//
// GetByEmail matches case-insensitively — emails are stored lowercase and
// lookups fold their argument the same way. List excludes admin accounts:
// the only caller is the admin console's user listing, which never shows
// administrators.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, opts ListOptions) ([]model.User, int, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

// ServiceRecordRepository persists per-user contracted services.
//
// Every read and delete is scoped by owning user id — a record id from
// another user behaves exactly like a missing record.
type ServiceRecordRepository interface {
	Create(ctx context.Context, rec *model.ServiceRecord) error
	GetByUser(ctx context.Context, userID, id string) (*model.ServiceRecord, error)
	ListByUser(ctx context.Context, userID string, t model.ServiceType, opts ListOptions) ([]model.ServiceRecord, int, error)
	ListAllByUser(ctx context.Context, userID string, t model.ServiceType) ([]model.ServiceRecord, error)
	CountByUser(ctx context.Context, userID string, t model.ServiceType) (int, error)
	Update(ctx context.Context, rec *model.ServiceRecord) error
	Delete(ctx context.Context, userID, id string) error
}

// DCRecordRepository persists per-user discount/referral records, with the
// same ownership scoping as ServiceRecordRepository.
type DCRecordRepository interface {
	Create(ctx context.Context, rec *model.DCRecord) error
	GetByUser(ctx context.Context, userID, id string) (*model.DCRecord, error)
	ListByUser(ctx context.Context, userID string, opts ListOptions) ([]model.DCRecord, int, error)
	ListAllByUser(ctx context.Context, userID string) ([]model.DCRecord, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, rec *model.DCRecord) error
	Delete(ctx context.Context, userID, id string) error
}

// InquiryRepository persists contact-form submissions.
type InquiryRepository interface {
	Create(ctx context.Context, inq *model.Inquiry) error
	GetByID(ctx context.Context, id string) (*model.Inquiry, error)
	List(ctx context.Context, opts ListOptions) ([]model.Inquiry, int, error)
	SetStatus(ctx context.Context, id string, status model.InquiryStatus) error
	DeleteMany(ctx context.Context, ids []string) (int, error)
}

// ContentRepository persists the two singleton content records: the
// company profile and the public service catalog. Each lives in one
// well-known row, so concurrent saves update in place instead of racing to
// create competing "latest" documents.
type ContentRepository interface {
	GetCompany(ctx context.Context) (*model.CompanyProfile, error)
	SaveCompany(ctx context.Context, c *model.CompanyProfile) error
	GetCatalog(ctx context.Context) ([]model.CatalogItem, error)
	SaveCatalog(ctx context.Context, items []model.CatalogItem) error
}
