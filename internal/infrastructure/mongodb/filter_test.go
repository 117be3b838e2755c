package mongodb

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/jpbaz28/Banking-API/internal/api/util"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
)

func TestBuildFilter(t *testing.T) {
	assert.Equal(t, bson.D{}, buildFilter(nil))

	got := buildFilter([]util.QueryFilter{
		{Field: "id", Operator: util.OpEq, Value: "abc"},
		{Field: "lname", Operator: util.OpNe, Value: "Bono"},
		{Field: "created_at", Operator: util.OpGte, Value: "2025-11-24"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "$and", got[0].Key)
	conditions := got[0].Value.(bson.A)
	require.Len(t, conditions, 3)
	assert.Equal(t, bson.D{{Key: "_id", Value: "abc"}}, conditions[0])
	assert.Equal(t, bson.D{{Key: "lname", Value: bson.D{{Key: "$ne", Value: "Bono"}}}}, conditions[1])
	assert.Equal(t,
		bson.D{{Key: "created_at", Value: bson.D{{Key: "$gte", Value: time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC)}}}},
		conditions[2])
}

func TestBuildSort(t *testing.T) {
	got := buildSort([]util.OrderClause{{Field: "created_at", Direction: util.OrderDesc}})
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}, got)

	got = buildSort(nil)
	assert.Equal(t, bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}, got)
}

func TestDocumentRoundTrip(t *testing.T) {
	client, err := domain.NewClient("Mr.", "T.", []domain.Account{
		{Name: "Savings", Amount: decimal.RequireFromString("50000.50")},
	})
	require.NoError(t, err)

	doc, err := toDocument(client)
	require.NoError(t, err)
	assert.Equal(t, client.ID, doc.ID)

	back, err := doc.toDomain()
	require.NoError(t, err)
	require.Len(t, back.Accounts, 1)
	assert.True(t, back.Accounts[0].Amount.Equal(client.Accounts[0].Amount))
}
