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

// UserUpdate is the admin's partial edit of a member. Only the company
// name and memo are editable; identity fields never change after signup.
type UserUpdate struct {
	CompanyName *string
	Memo        *string
}

// UserOverview is the admin's full view of one member: the profile plus
// every record, unpaged. The console renders all three lists on one screen.
type UserOverview struct {
	User         *model.User           `json:"user"`
	General      []model.ServiceRecord `json:"generalServices"`
	Subscription []model.ServiceRecord `json:"subscriptionServices"`
	DC           []model.DCRecord      `json:"dcRecords"`
}

// AdminService implements the member-management console. It layers on top
// of RecordService: record rules are identical whether the owner or an
// admin is editing, so the only admin-specific logic here is resolving and
// guarding the target user.
type AdminService struct {
	users    repository.UserRepository
	services repository.ServiceRecordRepository
	dcs      repository.DCRecordRepository
	records  *RecordService
	logger   *slog.Logger
}

// NewAdminService creates an AdminService.
func NewAdminService(
	users repository.UserRepository,
	services repository.ServiceRecordRepository,
	dcs repository.DCRecordRepository,
	records *RecordService,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		users:    users,
		services: services,
		dcs:      dcs,
		records:  records,
		logger:   logger,
	}
}

// ListUsers returns one page (fixed size 20) of members, newest signup
// first. Admin accounts are not listed; the repository filters them out.
func (s *AdminService) ListUsers(ctx context.Context, page int) ([]model.User, pagination.Meta, error) {
	users, total, err := s.users.List(ctx, repository.ListOptions{
		Limit:  AdminUserListLimit,
		Offset: pagination.Offset(page, AdminUserListLimit),
	})
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("listing users: %w", err)
	}
	return users, pagination.NewMeta(page, AdminUserListLimit, total), nil
}

// resolveMember loads the target user and refuses admin accounts. Admins
// are invisible to the console, so targeting one reads as not found rather
// than forbidden.
func (s *AdminService) resolveMember(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, apperror.NotFound("user", userID)
	}
	return user, nil
}

// UpdateUser edits a member's company name and memo. Nil fields are left
// unchanged.
func (s *AdminService) UpdateUser(ctx context.Context, userID string, in UserUpdate) (*model.User, error) {
	user, err := s.resolveMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.CompanyName != nil {
		user.CompanyName = strings.TrimSpace(*in.CompanyName)
	}
	if in.Memo != nil {
		user.Memo = strings.TrimSpace(*in.Memo)
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("failed to update user",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.logger.Info("user updated by admin", slog.String("userID", userID))
	return user, nil
}

// DeleteUser removes a member. The schema cascades, so the member's
// service and discount records go with the account.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.resolveMember(ctx, userID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deleted by admin", slog.String("userID", userID))
	return nil
}

// UserOverview returns a member's profile with every record, unpaged.
func (s *AdminService) UserOverview(ctx context.Context, userID string) (*UserOverview, error) {
	user, err := s.resolveMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	general, err := s.services.ListAllByUser(ctx, userID, model.ServiceGeneral)
	if err != nil {
		return nil, fmt.Errorf("listing general services: %w", err)
	}
	subscription, err := s.services.ListAllByUser(ctx, userID, model.ServiceSubscription)
	if err != nil {
		return nil, fmt.Errorf("listing subscription services: %w", err)
	}
	dc, err := s.dcs.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing dc records: %w", err)
	}

	return &UserOverview{User: user, General: general, Subscription: subscription, DC: dc}, nil
}

// CreateUserService adds a contracted service to a member on their behalf.
func (s *AdminService) CreateUserService(ctx context.Context, userID string, in ServiceRecordInput) (*model.ServiceRecord, error) {
	if _, err := s.resolveMember(ctx, userID); err != nil {
		return nil, err
	}
	return s.records.CreateService(ctx, userID, in)
}

// UpdateUserService edits one of a member's contracted services.
func (s *AdminService) UpdateUserService(ctx context.Context, userID, id string, in ServiceRecordUpdate) (*model.ServiceRecord, error) {
	if _, err := s.resolveMember(ctx, userID); err != nil {
		return nil, err
	}
	return s.records.UpdateService(ctx, userID, id, in)
}

// DeleteUserService removes one of a member's contracted services.
func (s *AdminService) DeleteUserService(ctx context.Context, userID, id string) error {
	if _, err := s.resolveMember(ctx, userID); err != nil {
		return err
	}
	return s.records.DeleteService(ctx, userID, id)
}

// CreateUserDC adds a discount record to a member on their behalf.
func (s *AdminService) CreateUserDC(ctx context.Context, userID string, in DCRecordInput) (*model.DCRecord, error) {
	if _, err := s.resolveMember(ctx, userID); err != nil {
		return nil, err
	}
	return s.records.CreateDC(ctx, userID, in)
}

// UpdateUserDC edits one of a member's discount records.
func (s *AdminService) UpdateUserDC(ctx context.Context, userID, id string, in DCRecordUpdate) (*model.DCRecord, error) {
	if _, err := s.resolveMember(ctx, userID); err != nil {
		return nil, err
	}
	return s.records.UpdateDC(ctx, userID, id, in)
}

// DeleteUserDC removes one of a member's discount records.
func (s *AdminService) DeleteUserDC(ctx context.Context, userID, id string) error {
	if _, err := s.resolveMember(ctx, userID); err != nil {
		return err
	}
	return s.records.DeleteDC(ctx, userID, id)
}
