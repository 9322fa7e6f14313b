package models

import (
	dErrors "vesselregistry/pkg/domain-errors"
)

// Pagination defaults, mirroring the public API contract.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSortBy   = "name"
)

// SortDir is the sort direction for paginated listings.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// sortFields is the whitelist of sortable columns. Unknown fields are a
// caller error, never silently ignored.
var sortFields = map[string]struct{}{
	"name":          {},
	"imo_number":    {},
	"type":          {},
	"flag_state":    {},
	"year_built":    {},
	"gross_tonnage": {},
	"status":        {},
	"created_at":    {},
	"updated_at":    {},
}

// ListParams carries pagination and sorting for vessel listings.
type ListParams struct {
	Page    int
	Size    int
	SortBy  string
	SortDir SortDir
}

// Normalize applies defaults and validates the sort field and direction.
func (p *ListParams) Normalize() error {
	if p.Page < 0 {
		return dErrors.New(dErrors.CodeValidation, "page must not be negative")
	}
	if p.Size < 0 {
		return dErrors.New(dErrors.CodeValidation, "size must not be negative")
	}
	if p.Size == 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	if _, ok := sortFields[p.SortBy]; !ok {
		return dErrors.Newf(dErrors.CodeValidation, "unknown sort field %q", p.SortBy)
	}
	switch p.SortDir {
	case "":
		p.SortDir = SortAsc
	case SortAsc, SortDesc:
	default:
		return dErrors.Newf(dErrors.CodeValidation, "sort direction must be %q or %q", SortAsc, SortDesc)
	}
	return nil
}

// VesselPage is one page of a sorted vessel listing.
type VesselPage struct {
	Vessels    []Vessel `json:"vessels"`
	Page       int      `json:"page"`
	Size       int      `json:"size"`
	TotalCount int64    `json:"total_count"`
}
