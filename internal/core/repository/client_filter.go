package repository

import (
	"sort"
	"strings"

	"github.com/jpbaz28/Banking-API/internal/api/util"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
)

// Helpers for stores that cannot push filtering down to the database.

func clientField(c *domain.Client, field string) string {
	switch field {
	case "id":
		return c.ID
	case "fname":
		return c.FirstName
	case "lname":
		return c.LastName
	case "created_at":
		return util.FormatDateTime(c.CreatedAt)
	case "updated_at":
		return util.FormatDateTime(c.UpdatedAt)
	default:
		return ""
	}
}

// MatchClient reports whether c satisfies every filter
func MatchClient(c *domain.Client, filters []util.QueryFilter) bool {
	for _, f := range filters {
		if !f.Matches(clientField(c, f.Field)) {
			return false
		}
	}
	return true
}

// FilterClients returns the clients matching filters, in input order
func FilterClients(clients []*domain.Client, filters []util.QueryFilter) []*domain.Client {
	matched := make([]*domain.Client, 0, len(clients))
	for _, c := range clients {
		if MatchClient(c, filters) {
			matched = append(matched, c)
		}
	}
	return matched
}

// SortClients orders clients in place. Without explicit order clauses clients
// are sorted by creation time, then id.
func SortClients(clients []*domain.Client, orders []util.OrderClause) {
	sort.SliceStable(clients, func(i, j int) bool {
		a, b := clients[i], clients[j]
		for _, o := range orders {
			cmp := strings.Compare(clientField(a, o.Field), clientField(b, o.Field))
			if cmp == 0 {
				continue
			}
			if o.Direction == util.OrderDesc {
				return cmp > 0
			}
			return cmp < 0
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// ApplyClientFilter filters, sorts and paginates an in-memory client set.
// It returns the page and the total number of matches.
func ApplyClientFilter(clients []*domain.Client, filter ClientFilter) ([]*domain.Client, int) {
	matched := FilterClients(clients, filter.Filters)
	SortClients(matched, filter.Order)
	return util.Paginate(matched, filter.ListFilter), len(matched)
}
