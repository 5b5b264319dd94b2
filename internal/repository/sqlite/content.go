package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/specia/specia-server/internal/apperror"
	"github.com/specia/specia-server/internal/model"
	"github.com/specia/specia-server/internal/repository"
)

var _ repository.ContentRepository = (*ContentRepo)(nil)

// ContentRepo persists the two singleton content records.
//
// Both tables have a CHECK (id = 1) primary key, so there is never more
// than one row. Saves use INSERT ... ON CONFLICT DO UPDATE against that
// fixed id — two concurrent first-time saves serialize onto the same row
// instead of each creating a "latest" document.
type ContentRepo struct {
	conn *sql.DB
}

// GetCompany returns the company profile, or apperror.ErrNotFound when no
// profile has been saved yet (the public handler turns that into a null
// data payload, not an error).
func (r *ContentRepo) GetCompany(ctx context.Context) (*model.CompanyProfile, error) {
	var c model.CompanyProfile
	err := r.conn.QueryRowContext(ctx,
		`SELECT company_name, description, vision, address, phone, email,
		        website, vals, created_at, updated_at
		 FROM company_profile WHERE id = 1`,
	).Scan(
		&c.CompanyName,
		&c.Description,
		&c.Vision,
		&c.Address,
		&c.Phone,
		&c.Email,
		&c.Website,
		&c.Values,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("company profile", "1")
		}
		return nil, fmt.Errorf("sqlite: getting company profile: %w", err)
	}
	return &c, nil
}

// SaveCompany creates or replaces the company profile in one statement.
func (r *ContentRepo) SaveCompany(ctx context.Context, c *model.CompanyProfile) error {
	now := time.Now()
	c.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO company_profile
		     (id, company_name, description, vision, address, phone, email,
		      website, vals, created_at, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     company_name = excluded.company_name,
		     description  = excluded.description,
		     vision       = excluded.vision,
		     address      = excluded.address,
		     phone        = excluded.phone,
		     email        = excluded.email,
		     website      = excluded.website,
		     vals         = excluded.vals,
		     updated_at   = excluded.updated_at`,
		c.CompanyName,
		c.Description,
		c.Vision,
		c.Address,
		c.Phone,
		c.Email,
		c.Website,
		c.Values,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving company profile: %w", err)
	}
	return nil
}

// GetCatalog returns the public service catalog. When nothing has been
// saved yet, the built-in default list is returned — the SERVICE page is
// never empty.
func (r *ContentRepo) GetCatalog(ctx context.Context) ([]model.CatalogItem, error) {
	var raw string
	err := r.conn.QueryRowContext(ctx,
		`SELECT items FROM service_catalog WHERE id = 1`,
	).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.DefaultCatalog(), nil
		}
		return nil, fmt.Errorf("sqlite: getting service catalog: %w", err)
	}

	var items []model.CatalogItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("sqlite: decoding service catalog: %w", err)
	}
	return items, nil
}

// SaveCatalog replaces the catalog item list.
func (r *ContentRepo) SaveCatalog(ctx context.Context, items []model.CatalogItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("sqlite: encoding service catalog: %w", err)
	}

	now := time.Now()
	_, err = r.conn.ExecContext(ctx,
		`INSERT INTO service_catalog (id, items, created_at, updated_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     items = excluded.items,
		     updated_at = excluded.updated_at`,
		string(raw), now, now)
	if err != nil {
		return fmt.Errorf("sqlite: saving service catalog: %w", err)
	}
	return nil
}
