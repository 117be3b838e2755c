package sqlite

import (
	"fmt"
	"strings"

	"github.com/jpbaz28/Banking-API/internal/api/util"
)

// Field names reaching these helpers have already been checked against the
// endpoint's util.FieldSet, so they are safe to interpolate.

var comparisonOperators = map[util.QueryOperator]string{
	util.OpEq:  "=",
	util.OpNe:  "!=",
	util.OpGt:  ">",
	util.OpGte: ">=",
	util.OpLt:  "<",
	util.OpLte: "<=",
}

// BuildFilterClause builds a SQL WHERE clause from a QueryFilter
func BuildFilterClause(f util.QueryFilter) (string, []interface{}) {
	if op, ok := comparisonOperators[f.Operator]; ok {
		return fmt.Sprintf("%s %s ?", f.Field, op), []interface{}{f.StringValue()}
	}

	switch f.Operator {
	case util.OpIsNull:
		return fmt.Sprintf("%s IS NULL", f.Field), nil
	case util.OpIsNotNull:
		return fmt.Sprintf("%s IS NOT NULL", f.Field), nil
	case util.OpIn, util.OpNin:
		values, ok := f.Value.([]string)
		if !ok || len(values) == 0 {
			return "", nil
		}
		placeholders := make([]string, len(values))
		args := make([]interface{}, len(values))
		for i, v := range values {
			placeholders[i] = "?"
			args[i] = v
		}
		keyword := "IN"
		if f.Operator == util.OpNin {
			keyword = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", f.Field, keyword, strings.Join(placeholders, ", ")), args
	default:
		return "", nil
	}
}

// ApplyFilters applies QueryFilters to a query and returns the modified query and args
func ApplyFilters(query string, args []interface{}, filters []util.QueryFilter) (string, []interface{}) {
	for _, f := range filters {
		clause, filterArgs := BuildFilterClause(f)
		if clause != "" {
			query += " AND " + clause
			args = append(args, filterArgs...)
		}
	}
	return query, args
}

// ApplyOrdering applies OrderClauses to a query
func ApplyOrdering(query string, orders []util.OrderClause, defaultOrder string) string {
	if len(orders) == 0 {
		return query + " ORDER BY " + defaultOrder
	}
	orderClauses := make([]string, 0, len(orders))
	for _, o := range orders {
		direction := "ASC"
		if o.Direction == util.OrderDesc {
			direction = "DESC"
		}
		orderClauses = append(orderClauses, fmt.Sprintf("%s %s", o.Field, direction))
	}
	// Keep pages stable when the requested columns tie
	return query + " ORDER BY " + strings.Join(orderClauses, ", ") + ", " + defaultOrder
}

// ApplyPagination applies the filter's page to a query
func ApplyPagination(query string, args []interface{}, f util.ListFilter) (string, []interface{}) {
	if f.PerPage > 0 {
		query += " LIMIT ?"
		args = append(args, f.PerPage)

		if offset := f.Offset(); offset > 0 {
			query += " OFFSET ?"
			args = append(args, offset)
		}
	}
	return query, args
}
