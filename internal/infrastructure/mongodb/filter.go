package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/jpbaz28/Banking-API/internal/api/util"
)

func documentField(field string) string {
	if field == "id" {
		return "_id"
	}
	return field
}

func filterValue(f util.QueryFilter) interface{} {
	value := f.StringValue()
	if util.IsDatetimeField(f.Field) {
		if t, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
			return t
		}
	}
	return value
}

var comparisonOperators = map[util.QueryOperator]string{
	util.OpNe:  "$ne",
	util.OpGt:  "$gt",
	util.OpGte: "$gte",
	util.OpLt:  "$lt",
	util.OpLte: "$lte",
}

// buildFilter translates list filters into a BSON query document
func buildFilter(filters []util.QueryFilter) bson.D {
	conditions := bson.A{}
	for _, f := range filters {
		field := documentField(f.Field)

		if op, ok := comparisonOperators[f.Operator]; ok {
			conditions = append(conditions, bson.D{{Key: field, Value: bson.D{{Key: op, Value: filterValue(f)}}}})
			continue
		}

		switch f.Operator {
		case util.OpEq:
			conditions = append(conditions, bson.D{{Key: field, Value: filterValue(f)}})
		case util.OpIsNull:
			conditions = append(conditions, bson.D{{Key: field, Value: bson.D{{Key: "$in", Value: bson.A{nil, ""}}}}})
		case util.OpIsNotNull:
			conditions = append(conditions, bson.D{{Key: field, Value: bson.D{{Key: "$nin", Value: bson.A{nil, ""}}}}})
		case util.OpIn, util.OpNin:
			values, _ := f.Value.([]string)
			op := "$in"
			if f.Operator == util.OpNin {
				op = "$nin"
			}
			conditions = append(conditions, bson.D{{Key: field, Value: bson.D{{Key: op, Value: values}}}})
		}
	}

	if len(conditions) == 0 {
		return bson.D{}
	}
	return bson.D{{Key: "$and", Value: conditions}}
}

// buildSort appends the default creation-time order as the tie breaker
func buildSort(orders []util.OrderClause) bson.D {
	sort := bson.D{}
	seen := map[string]bool{}
	for _, o := range orders {
		field := documentField(o.Field)
		if seen[field] {
			continue
		}
		seen[field] = true

		direction := 1
		if o.Direction == util.OrderDesc {
			direction = -1
		}
		sort = append(sort, bson.E{Key: field, Value: direction})
	}
	for _, field := range []string{"created_at", "_id"} {
		if !seen[field] {
			sort = append(sort, bson.E{Key: field, Value: 1})
		}
	}
	return sort
}
