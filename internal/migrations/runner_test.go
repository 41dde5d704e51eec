package migrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestRunner_Run(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	prizes := prizeMap{"Hoodie": {Label: "Hoodie", Weight: 1, RewardTag: "🧥"}}
	docs := []bson.D{
		{{Key: "_id", Value: 1}, {Key: "prizeLabel", Value: "Hoodie"}},
		{{Key: "_id", Value: 2}, {Key: "prizeLabel", Value: "Retired"}},
		{{Key: "_id", Value: 3}, {Key: "prizeLabel", Value: "Hoodie"}, {Key: "rewardTag", Value: "🧥"}},
	}

	mt.Run("applies and guards writes", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "wheel.spins", mtest.FirstBatch, docs...),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		result, err := NewRunner(mt.DB).Run(context.Background(), RewardTagBackfill{Prizes: prizes}, false)
		require.NoError(mt, err)
		assert.Equal(mt, &Result{Job: "spin-reward-tag-backfill", Scanned: 3, Migrated: 1, Skipped: 2}, result)
	})

	mt.Run("dry run writes nothing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "wheel.spins", mtest.FirstBatch, docs...))

		result, err := NewRunner(mt.DB).Run(context.Background(), RewardTagBackfill{Prizes: prizes}, true)
		require.NoError(mt, err)
		assert.Equal(mt, 1, result.Migrated)
		assert.True(mt, result.DryRun)
	})

	mt.Run("lost race counts as skipped", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "wheel.users", mtest.FirstBatch, bson.D{{Key: "_id", Value: "acc-1"}}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		result, err := NewRunner(mt.DB).Run(context.Background(), AccountPointsInit{}, false)
		require.NoError(mt, err)
		assert.Equal(mt, 0, result.Migrated)
		assert.Equal(mt, 1, result.Skipped)
	})
}
