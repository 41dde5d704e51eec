package mongodb

import (
	"context"
	"testing"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestPointTransactionRepository_SumByAccount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("excludes sources", func(mt *mtest.T) {
		repo := &PointTransactionRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "wheel.point_transactions", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "acc-1"}, {Key: "total", Value: 45}},
			bson.D{{Key: "_id", Value: "acc-2"}, {Key: "total", Value: 10}},
		))

		totals, err := repo.SumByAccount(context.Background(), models.PointSourceReconcile)
		require.NoError(mt, err)
		assert.Equal(mt, map[string]int{"acc-1": 45, "acc-2": 10}, totals)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "aggregate", evt.CommandName)
		stages, err := evt.Command.Lookup("pipeline").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, stages, 2)

		excluded, err := stages[0].Document().LookupErr("$match", "source", "$nin")
		require.NoError(mt, err)
		values, err := excluded.Array().Values()
		require.NoError(mt, err)
		require.Len(mt, values, 1)
		assert.Equal(mt, string(models.PointSourceReconcile), values[0].StringValue())

		_, err = stages[1].Document().LookupErr("$group")
		assert.NoError(mt, err)
	})

	mt.Run("no exclusions groups everything", func(mt *mtest.T) {
		repo := &PointTransactionRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "wheel.point_transactions", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "acc-1"}, {Key: "total", Value: 65}},
		))

		totals, err := repo.SumByAccount(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, map[string]int{"acc-1": 65}, totals)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		stages, err := evt.Command.Lookup("pipeline").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, stages, 1)
		_, err = stages[0].Document().LookupErr("$group")
		assert.NoError(mt, err)
	})
}
