package content

import "strings"

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// SortFieldCreatedAt is the implicit sort key for every view.
	SortFieldCreatedAt = "createdAt"
	// SortFieldViews is accepted by the video feed only.
	SortFieldViews = "views"
	// SortFieldDuration is accepted by the video feed only.
	SortFieldDuration = "duration"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// PageRequest is the shared pagination and sort contract applied uniformly
// by every view query. Zero values resolve to page 1, a limit of 10, and a
// createdAt-descending sort.
type PageRequest struct {
	Page    int
	Limit   int
	SortBy  string
	SortDir string
}

// Normalize resolves defaults and clamps the limit. Sort fields are checked
// against the allowed set for the view; an unknown field falls back to
// createdAt so callers cannot smuggle arbitrary sort keys into queries.
func (p PageRequest) Normalize(allowedSorts ...string) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageSize
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}

	sortBy := strings.TrimSpace(p.SortBy)
	allowed := false
	for _, field := range allowedSorts {
		if sortBy == field {
			allowed = true
			break
		}
	}
	if !allowed {
		sortBy = SortFieldCreatedAt
	}
	p.SortBy = sortBy

	if p.SortDir != SortAsc {
		p.SortDir = SortDesc
	}

	return p
}

// Offset returns the number of rows skipped by earlier pages.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}
