package util

import (
	"fmt"
	"slices"
	"strings"
)

// QueryOperator represents a filter operator
type QueryOperator string

const (
	OpEq        QueryOperator = "eq"
	OpNe        QueryOperator = "ne"
	OpGt        QueryOperator = "gt"
	OpGte       QueryOperator = "gte"
	OpLt        QueryOperator = "lt"
	OpLte       QueryOperator = "lte"
	OpIn        QueryOperator = "in"
	OpNin       QueryOperator = "nin"
	OpIsNull    QueryOperator = "isnull"
	OpIsNotNull QueryOperator = "isnotnull"
)

// QueryFilter represents a single filter condition
type QueryFilter struct {
	Field    string
	Operator QueryOperator
	Value    interface{} // string or []string for in/nin
}

// StringValue returns the filter value for scalar operators, normalized for datetime fields
func (f QueryFilter) StringValue() string {
	s, _ := f.Value.(string)
	if IsDatetimeField(f.Field) {
		return NormalizeDateTime(s)
	}
	return s
}

// Matches evaluates the filter against a field value held in memory.
// An empty actual value counts as null.
func (f QueryFilter) Matches(actual string) bool {
	if IsDatetimeField(f.Field) && actual != "" {
		actual = NormalizeDateTime(actual)
	}
	want := f.StringValue()

	switch f.Operator {
	case OpEq:
		return actual == want
	case OpNe:
		return actual != want
	case OpGt:
		return actual > want
	case OpGte:
		return actual >= want
	case OpLt:
		return actual < want
	case OpLte:
		return actual <= want
	case OpIsNull:
		return actual == ""
	case OpIsNotNull:
		return actual != ""
	case OpIn, OpNin:
		values, _ := f.Value.([]string)
		return slices.Contains(values, actual) == (f.Operator == OpIn)
	default:
		return false
	}
}

// OrderDirection represents sort direction
type OrderDirection string

const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

// OrderClause represents a single order by clause
type OrderClause struct {
	Field     string
	Direction OrderDirection
}

var validOperators = map[string]QueryOperator{
	"eq":        OpEq,
	"ne":        OpNe,
	"gt":        OpGt,
	"gte":       OpGte,
	"lt":        OpLt,
	"lte":       OpLte,
	"in":        OpIn,
	"nin":       OpNin,
	"isnull":    OpIsNull,
	"isnotnull": OpIsNotNull,
}

// ParseQueryString parses a query string into filter conditions.
// Supports formats:
//   - field|value (defaults to eq operator)
//   - field|isnull or field|isnotnull (null checks)
//   - field|operator|value (explicit operator)
//
// Multiple conditions are comma-separated; values of in/nin are separated by ';'.
func ParseQueryString(queryStr string) ([]QueryFilter, error) {
	var filters []QueryFilter
	for _, cond := range splitList(queryStr) {
		filter, err := parseCondition(cond)
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter)
	}
	return filters, nil
}

func parseCondition(cond string) (QueryFilter, error) {
	parts := strings.Split(cond, "|")

	switch len(parts) {
	case 2:
		if op := QueryOperator(strings.ToLower(parts[1])); op == OpIsNull || op == OpIsNotNull {
			return QueryFilter{Field: parts[0], Operator: op}, nil
		}
		return QueryFilter{Field: parts[0], Operator: OpEq, Value: parts[1]}, nil

	case 3:
		op, ok := validOperators[strings.ToLower(parts[1])]
		if !ok {
			return QueryFilter{}, fmt.Errorf("invalid operator: %s", parts[1])
		}
		filter := QueryFilter{Field: parts[0], Operator: op, Value: parts[2]}
		if op == OpIn || op == OpNin {
			filter.Value = strings.Split(parts[2], ";")
		}
		return filter, nil
	}

	return QueryFilter{}, fmt.Errorf("invalid query format: %s (expected field|value or field|operator|value)", cond)
}

// ParseOrderString parses "field|asc,other|desc" into order clauses.
func ParseOrderString(orderStr string) ([]OrderClause, error) {
	var orders []OrderClause
	for _, clause := range splitList(orderStr) {
		field, dir, ok := strings.Cut(clause, "|")
		if !ok || strings.Contains(dir, "|") {
			return nil, fmt.Errorf("invalid order format: %s (expected field|direction)", clause)
		}

		direction := OrderDirection(strings.ToLower(dir))
		if direction != OrderAsc && direction != OrderDesc {
			return nil, fmt.Errorf("invalid order direction: %s (expected asc or desc)", dir)
		}
		orders = append(orders, OrderClause{Field: field, Direction: direction})
	}
	return orders, nil
}

// splitList splits a comma-separated parameter, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
