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

// compile-time check that *UserRepo implements repository.UserRepository
var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo persists user accounts in the users table.
type UserRepo struct {
	conn *sql.DB
}

const userColumns = `id, name, email, phone, company_name, memo,
	password_hash, social_provider, social_id, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.CompanyName,
		&u.Memo,
		&u.PasswordHash,
		&u.SocialProvider,
		&u.SocialID,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. The ID (xid) and timestamps are assigned here
// and written back into the caller's struct. A UNIQUE violation on email is
// reported as apperror.ErrConflict — the schema's COLLATE NOCASE makes the
// check case-insensitive even though emails are also stored lowercased.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.Email = strings.ToLower(user.Email)
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.CompanyName,
		user.Memo,
		user.PasswordHash,
		user.SocialProvider,
		user.SocialID,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

// GetByEmail retrieves a user by email, case-insensitively.
// Returns apperror.ErrNotFound when no account matches.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`,
		strings.ToLower(email))

	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return u, nil
}

// List returns one page of non-admin users, newest first, plus the exact
// total of non-admin accounts. Admin accounts never appear in the general
// user listing. The id tie-break keeps pagination stable when several
// accounts share a creation timestamp.
func (r *UserRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.User, int, error) {
	var total int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role != ?`, model.RoleAdmin,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting users: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE role != ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		model.RoleAdmin, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating user rows: %w", err)
	}

	return users, total, nil
}

// Update writes every mutable field of the user. The caller mutates a
// struct previously loaded via GetByID, so absent fields keep their values.
func (r *UserRepo) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()
	user.Email = strings.ToLower(user.Email)

	res, err := r.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, phone = ?, company_name = ?,
		        memo = ?, password_hash = ?, role = ?, updated_at = ?
		 WHERE id = ?`,
		user.Name,
		user.Email,
		user.Phone,
		user.CompanyName,
		user.Memo,
		user.PasswordHash,
		user.Role,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of user %s: %w", user.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", user.ID)
	}
	return nil
}

// Delete removes a user. Rows in service_records and dc_records cascade
// via the foreign keys. Returns apperror.ErrNotFound for an unknown id.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of user %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc.org/sqlite surfaces these as plain errors carrying the SQLite
// message, so string matching is the portable check.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
