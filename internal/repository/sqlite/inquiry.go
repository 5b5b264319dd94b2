package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/specia/specia-server/internal/apperror"
	"github.com/specia/specia-server/internal/model"
	"github.com/specia/specia-server/internal/repository"
)

var _ repository.InquiryRepository = (*InquiryRepo)(nil)

// InquiryRepo persists contact-form submissions. Inquiry content is
// immutable after Create — only the status column ever changes.
type InquiryRepo struct {
	conn *sql.DB
}

const inquiryColumns = `id, name, email, phone, subject, message, category,
	status, created_at, updated_at`

func scanInquiry(row interface{ Scan(...any) error }) (*model.Inquiry, error) {
	var inq model.Inquiry
	err := row.Scan(
		&inq.ID,
		&inq.Name,
		&inq.Email,
		&inq.Phone,
		&inq.Subject,
		&inq.Message,
		&inq.Category,
		&inq.Status,
		&inq.CreatedAt,
		&inq.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inq, nil
}

// Create inserts a new inquiry, assigning ID, timestamps, and the pending
// status.
func (r *InquiryRepo) Create(ctx context.Context, inq *model.Inquiry) error {
	now := time.Now()
	inq.ID = xid.New().String()
	if inq.Status == "" {
		inq.Status = model.InquiryPending
	}
	inq.CreatedAt = now
	inq.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO inquiries (`+inquiryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inq.ID,
		inq.Name,
		inq.Email,
		inq.Phone,
		inq.Subject,
		inq.Message,
		inq.Category,
		inq.Status,
		inq.CreatedAt,
		inq.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting inquiry: %w", err)
	}
	return nil
}

// GetByID retrieves one inquiry.
func (r *InquiryRepo) GetByID(ctx context.Context, id string) (*model.Inquiry, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT `+inquiryColumns+` FROM inquiries WHERE id = ?`, id)

	inq, err := scanInquiry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("inquiry", id)
		}
		return nil, fmt.Errorf("sqlite: getting inquiry %s: %w", id, err)
	}
	return inq, nil
}

// List returns one page of inquiries, newest first, plus the exact total.
func (r *InquiryRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Inquiry, int, error) {
	var total int
	if err := r.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM inquiries`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting inquiries: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+inquiryColumns+` FROM inquiries
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing inquiries: %w", err)
	}
	defer rows.Close()

	inqs := []model.Inquiry{}
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning inquiry row: %w", err)
		}
		inqs = append(inqs, *inq)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating inquiry rows: %w", err)
	}

	return inqs, total, nil
}

// SetStatus updates the handling status of one inquiry.
func (r *InquiryRepo) SetStatus(ctx context.Context, id string, status model.InquiryStatus) error {
	res, err := r.conn.ExecContext(ctx,
		`UPDATE inquiries SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("sqlite: setting inquiry %s status: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking status update of inquiry %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("inquiry", id)
	}
	return nil
}

// DeleteMany removes the inquiries with the given ids and returns how many
// rows were actually deleted. Unknown ids are skipped silently — the bulk
// delete reports a count, not per-id errors.
func (r *InquiryRepo) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := r.conn.ExecContext(ctx,
		`DELETE FROM inquiries WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite: bulk-deleting inquiries: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking bulk delete of inquiries: %w", err)
	}
	return int(affected), nil
}
