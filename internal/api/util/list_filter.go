package util

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultPerPage is used when a page is requested without a page size
const DefaultPerPage = 25

// ListFilter contains common filtering/pagination options for list endpoints
type ListFilter struct {
	// Filters parsed from query parameter
	Filters []QueryFilter
	// Order by clauses parsed from order parameter
	Order []OrderClause
	// Pagination. PerPage 0 means no limit.
	Page    int
	PerPage int
}

// Paginated reports whether a page was requested
func (f ListFilter) Paginated() bool {
	return f.PerPage > 0
}

// Offset returns the number of rows to skip for the current page
func (f ListFilter) Offset() int {
	if f.PerPage <= 0 || f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PerPage
}

// FieldSet describes which fields a list endpoint accepts in query and order.
type FieldSet struct {
	Query []string
	Order []string
}

func (fs FieldSet) checkQuery(filters []QueryFilter) error {
	for _, f := range filters {
		if !slices.Contains(fs.Query, f.Field) {
			return fmt.Errorf("invalid query field: %s (valid fields: %s)", f.Field, strings.Join(fs.Query, ", "))
		}
	}
	return nil
}

func (fs FieldSet) checkOrder(orders []OrderClause) error {
	for _, o := range orders {
		if !slices.Contains(fs.Order, o.Field) {
			return fmt.Errorf("invalid order field: %s (valid fields: %s)", o.Field, strings.Join(fs.Order, ", "))
		}
	}
	return nil
}

// ParseListFilter parses and validates the query and order parameters of a list endpoint.
func ParseListFilter(queryStr, orderStr string, page, perPage int, fields FieldSet) (ListFilter, error) {
	filters, err := ParseQueryString(queryStr)
	if err != nil {
		return ListFilter{}, err
	}
	if err := fields.checkQuery(filters); err != nil {
		return ListFilter{}, err
	}

	orders, err := ParseOrderString(orderStr)
	if err != nil {
		return ListFilter{}, err
	}
	if err := fields.checkOrder(orders); err != nil {
		return ListFilter{}, err
	}

	if page < 0 || perPage < 0 {
		return ListFilter{}, fmt.Errorf("page and per_page must not be negative")
	}
	if page > 0 && perPage == 0 {
		perPage = DefaultPerPage
	}
	if perPage > 0 && page == 0 {
		page = 1
	}

	return ListFilter{Filters: filters, Order: orders, Page: page, PerPage: perPage}, nil
}

// Paginate returns the slice of items belonging to the filter's page
func Paginate[T any](items []T, f ListFilter) []T {
	if f.PerPage <= 0 {
		return items
	}
	start := f.Offset()
	if start >= len(items) {
		return items[:0]
	}
	end := start + f.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages rounds total up to whole pages; an unpaginated list is a single page.
func TotalPages(total, perPage int) int {
	if perPage <= 0 {
		if total == 0 {
			return 0
		}
		return 1
	}
	return (total + perPage - 1) / perPage
}
