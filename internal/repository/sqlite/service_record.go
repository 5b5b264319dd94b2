package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/specia/specia-server/internal/apperror"
	"github.com/specia/specia-server/internal/model"
	"github.com/specia/specia-server/internal/repository"
)

var _ repository.ServiceRecordRepository = (*ServiceRecordRepo)(nil)

// ServiceRecordRepo persists contracted services in the service_records
// table. Every query is scoped by the owning user id: a record id that
// belongs to someone else is indistinguishable from a missing record, so
// handlers can't leak cross-user data by construction.
type ServiceRecordRepo struct {
	conn *sql.DB
}

const serviceColumns = `id, user_id, service_type, status, contract_date,
	company_name, manager_name, project_name, total_amount,
	modification_list, subscription_type, modification_memo,
	created_at, updated_at`

func scanServiceRecord(row interface{ Scan(...any) error }) (*model.ServiceRecord, error) {
	var rec model.ServiceRecord
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.ServiceType,
		&rec.Status,
		&rec.ContractDate,
		&rec.CompanyName,
		&rec.ManagerName,
		&rec.ProjectName,
		&rec.TotalAmount,
		&rec.ModificationList,
		&rec.SubscriptionType,
		&rec.ModificationMemo,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create inserts a new service record, assigning ID and timestamps.
func (r *ServiceRecordRepo) Create(ctx context.Context, rec *model.ServiceRecord) error {
	now := time.Now()
	rec.ID = xid.New().String()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO service_records (`+serviceColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.UserID,
		rec.ServiceType,
		rec.Status,
		rec.ContractDate,
		rec.CompanyName,
		rec.ManagerName,
		rec.ProjectName,
		rec.TotalAmount,
		rec.ModificationList,
		rec.SubscriptionType,
		rec.ModificationMemo,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting service record (user=%s): %w", rec.UserID, err)
	}
	return nil
}

// GetByUser retrieves one record owned by userID.
func (r *ServiceRecordRepo) GetByUser(ctx context.Context, userID, id string) (*model.ServiceRecord, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM service_records WHERE id = ? AND user_id = ?`,
		id, userID)

	rec, err := scanServiceRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("service", id)
		}
		return nil, fmt.Errorf("sqlite: getting service record %s: %w", id, err)
	}
	return rec, nil
}

// ListByUser returns one page of the user's records of the given type,
// newest contract first, plus the exact total. Contract date is the
// natural sort key for services (not created_at) — the list shows the most
// recent contract on top. The id tie-break keeps pages deterministic.
func (r *ServiceRecordRepo) ListByUser(ctx context.Context, userID string, t model.ServiceType, opts repository.ListOptions) ([]model.ServiceRecord, int, error) {
	total, err := r.CountByUser(ctx, userID, t)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+serviceColumns+` FROM service_records
		 WHERE user_id = ? AND service_type = ?
		 ORDER BY contract_date DESC, id DESC
		 LIMIT ? OFFSET ?`,
		userID, t, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing service records: %w", err)
	}
	defer rows.Close()

	recs, err := collectServiceRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// ListAllByUser returns every record of the given type for the admin's
// full my-page view — no paging, same ordering as ListByUser.
func (r *ServiceRecordRepo) ListAllByUser(ctx context.Context, userID string, t model.ServiceType) ([]model.ServiceRecord, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+serviceColumns+` FROM service_records
		 WHERE user_id = ? AND service_type = ?
		 ORDER BY contract_date DESC, id DESC`,
		userID, t)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing service records: %w", err)
	}
	defer rows.Close()

	return collectServiceRecords(rows)
}

// CountByUser counts the user's records of the given type.
func (r *ServiceRecordRepo) CountByUser(ctx context.Context, userID string, t model.ServiceType) (int, error) {
	var total int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM service_records WHERE user_id = ? AND service_type = ?`,
		userID, t,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting service records: %w", err)
	}
	return total, nil
}

// Update writes every mutable field. The record must already be scoped to
// its owner by the caller (fetch-then-update via GetByUser).
func (r *ServiceRecordRepo) Update(ctx context.Context, rec *model.ServiceRecord) error {
	rec.UpdatedAt = time.Now()

	res, err := r.conn.ExecContext(ctx,
		`UPDATE service_records SET status = ?, contract_date = ?,
		        company_name = ?, manager_name = ?, project_name = ?,
		        total_amount = ?, modification_list = ?,
		        subscription_type = ?, modification_memo = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		rec.Status,
		rec.ContractDate,
		rec.CompanyName,
		rec.ManagerName,
		rec.ProjectName,
		rec.TotalAmount,
		rec.ModificationList,
		rec.SubscriptionType,
		rec.ModificationMemo,
		rec.UpdatedAt,
		rec.ID,
		rec.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating service record %s: %w", rec.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of service record %s: %w", rec.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("service", rec.ID)
	}
	return nil
}

// Delete removes one record owned by userID.
func (r *ServiceRecordRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.conn.ExecContext(ctx,
		`DELETE FROM service_records WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting service record %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of service record %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("service", id)
	}
	return nil
}

func collectServiceRecords(rows *sql.Rows) ([]model.ServiceRecord, error) {
	recs := []model.ServiceRecord{}
	for rows.Next() {
		rec, err := scanServiceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning service record row: %w", err)
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating service record rows: %w", err)
	}
	return recs, nil
}
