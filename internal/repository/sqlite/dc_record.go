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

var _ repository.DCRecordRepository = (*DCRecordRepo)(nil)

// DCRecordRepo persists discount/referral records, with the same
// owner-scoping rules as ServiceRecordRepo.
type DCRecordRepo struct {
	conn *sql.DB
}

const dcColumns = `id, user_id, recommended_company_name, manager_name,
	meeting_status, contract_status, contract_name, discount_rate,
	cumulative_discount_rate, created_at, updated_at`

func scanDCRecord(row interface{ Scan(...any) error }) (*model.DCRecord, error) {
	var rec model.DCRecord
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.RecommendedCompanyName,
		&rec.ManagerName,
		&rec.MeetingStatus,
		&rec.ContractStatus,
		&rec.ContractName,
		&rec.DiscountRate,
		&rec.CumulativeDiscountRate,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create inserts a new DC record, assigning ID and timestamps.
func (r *DCRecordRepo) Create(ctx context.Context, rec *model.DCRecord) error {
	now := time.Now()
	rec.ID = xid.New().String()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO dc_records (`+dcColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.UserID,
		rec.RecommendedCompanyName,
		rec.ManagerName,
		rec.MeetingStatus,
		rec.ContractStatus,
		rec.ContractName,
		rec.DiscountRate,
		rec.CumulativeDiscountRate,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting dc record (user=%s): %w", rec.UserID, err)
	}
	return nil
}

// GetByUser retrieves one record owned by userID.
func (r *DCRecordRepo) GetByUser(ctx context.Context, userID, id string) (*model.DCRecord, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT `+dcColumns+` FROM dc_records WHERE id = ? AND user_id = ?`,
		id, userID)

	rec, err := scanDCRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("dc", id)
		}
		return nil, fmt.Errorf("sqlite: getting dc record %s: %w", id, err)
	}
	return rec, nil
}

// ListByUser returns one page of the user's DC records, newest first, plus
// the exact total.
func (r *DCRecordRepo) ListByUser(ctx context.Context, userID string, opts repository.ListOptions) ([]model.DCRecord, int, error) {
	total, err := r.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+dcColumns+` FROM dc_records
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		userID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing dc records: %w", err)
	}
	defer rows.Close()

	recs, err := collectDCRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// ListAllByUser returns every DC record for the admin's full my-page view.
func (r *DCRecordRepo) ListAllByUser(ctx context.Context, userID string) ([]model.DCRecord, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+dcColumns+` FROM dc_records
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing dc records: %w", err)
	}
	defer rows.Close()

	return collectDCRecords(rows)
}

// CountByUser counts the user's DC records.
func (r *DCRecordRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dc_records WHERE user_id = ?`, userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting dc records: %w", err)
	}
	return total, nil
}

// Update writes every mutable field of an owner-scoped record.
func (r *DCRecordRepo) Update(ctx context.Context, rec *model.DCRecord) error {
	rec.UpdatedAt = time.Now()

	res, err := r.conn.ExecContext(ctx,
		`UPDATE dc_records SET recommended_company_name = ?, manager_name = ?,
		        meeting_status = ?, contract_status = ?, contract_name = ?,
		        discount_rate = ?, cumulative_discount_rate = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		rec.RecommendedCompanyName,
		rec.ManagerName,
		rec.MeetingStatus,
		rec.ContractStatus,
		rec.ContractName,
		rec.DiscountRate,
		rec.CumulativeDiscountRate,
		rec.UpdatedAt,
		rec.ID,
		rec.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating dc record %s: %w", rec.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of dc record %s: %w", rec.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("dc", rec.ID)
	}
	return nil
}

// Delete removes one record owned by userID.
func (r *DCRecordRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.conn.ExecContext(ctx,
		`DELETE FROM dc_records WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting dc record %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of dc record %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("dc", id)
	}
	return nil
}

func collectDCRecords(rows *sql.Rows) ([]model.DCRecord, error) {
	recs := []model.DCRecord{}
	for rows.Next() {
		rec, err := scanDCRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning dc record row: %w", err)
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating dc record rows: %w", err)
	}
	return recs, nil
}
