// Package pagination implements the offset-paging contract shared by every
// list endpoint.
//
// THE CONTRACT:
// Requests carry a 1-based `page` query parameter. Responses carry the items
// for that page plus a Meta block:
//
//	{"items": [...], "pagination": {"page": 2, "limit": 10, "total": 25, "totalPages": 3}}
//
// Page sizes are fixed per endpoint (10 for my-page lists, 20 for the admin
// user list) — the inquiry list is the one exception that accepts a client
// limit, capped at 50. A page past the end returns an empty items array with
// the same total and totalPages, never an error.
package pagination

import "strconv"

// Meta describes one page of a list response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ParsePage coerces a raw `page` query value to a 1-based page number.
// Absent, garbage, zero, and negative values all become page 1 — a bad
// page parameter is never a client error.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ClampLimit coerces a raw `limit` query value into [1, max], falling back
// to def when absent or unparseable. Only the inquiry list exposes this to
// clients; everywhere else the endpoint passes its fixed size straight
// through.
func ClampLimit(raw string, def, max int) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// NewMeta computes the Meta block for a page. TotalPages is
// ceil(total/limit), and 0 when total is 0.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset converts a 1-based page into the row offset for the repository.
func Offset(page, limit int) int {
	return (page - 1) * limit
}
