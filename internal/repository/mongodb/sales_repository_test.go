package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func salesGroupDoc(product primitive.ObjectID, flavor string, totalQty float64) bson.D {
	return bson.D{
		{Key: "_id", Value: bson.D{
			{Key: "product", Value: product},
			{Key: "flavor", Value: flavor},
		}},
		{Key: "totalQty", Value: totalQty},
	}
}

func TestTotalsSince(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matches completed statuses within the lookback window", func(mt *mtest.T) {
		repo := &salesRepository{collection: mt.Coll}
		since := time.Date(2026, 7, 4, 2, 0, 0, 0, time.UTC)
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		productID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			salesGroupDoc(productID, "Mango", 12),
		))

		totals, err := repo.TotalsSince(context.Background(), since)
		require.NoError(mt, err)
		assert.Equal(mt, map[domain.SalesKey]float64{
			{ProductID: productID, Flavor: "Mango"}: 12,
		}, totals)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "aggregate", evt.CommandName)

		var cmd struct {
			Pipeline []bson.Raw `bson:"pipeline"`
		}
		require.NoError(mt, bson.Unmarshal(evt.Command, &cmd))
		require.NotEmpty(mt, cmd.Pipeline)

		// Pending, processing and cancelled orders must never reach the
		// $group stage: the first stage filters on the completed-sale
		// statuses and the window start.
		var first struct {
			Match struct {
				Status struct {
					In []domain.OrderStatus `bson:"$in"`
				} `bson:"status"`
				CreatedAt struct {
					GTE time.Time `bson:"$gte"`
				} `bson:"createdAt"`
			} `bson:"$match"`
		}
		require.NoError(mt, bson.Unmarshal(cmd.Pipeline[0], &first))
		assert.ElementsMatch(mt, domain.CompletedStatuses, first.Match.Status.In)
		assert.NotContains(mt, first.Match.Status.In, domain.StatusPending)
		assert.NotContains(mt, first.Match.Status.In, domain.StatusCancelled)
		assert.True(mt, first.Match.CreatedAt.GTE.Equal(since))
	})

	mt.Run("keys totals by product and flavor", func(mt *mtest.T) {
		repo := &salesRepository{collection: mt.Coll}
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		drink := primitive.NewObjectID()
		bar := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			salesGroupDoc(drink, "Mango", 80),
			salesGroupDoc(drink, "Lime", 3),
			salesGroupDoc(bar, "", 20),
		))

		totals, err := repo.TotalsSince(context.Background(), time.Now().AddDate(0, 0, -28))
		require.NoError(mt, err)
		assert.Equal(mt, map[domain.SalesKey]float64{
			{ProductID: drink, Flavor: "Mango"}: 80,
			{ProductID: drink, Flavor: "Lime"}:  3,
			{ProductID: bar, Flavor: ""}:        20,
		}, totals)
	})

	mt.Run("empty window yields an empty map", func(mt *mtest.T) {
		repo := &salesRepository{collection: mt.Coll}
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		totals, err := repo.TotalsSince(context.Background(), time.Now())
		require.NoError(mt, err)
		assert.Empty(mt, totals)
	})

	mt.Run("propagates aggregation errors", func(mt *mtest.T) {
		repo := &salesRepository{collection: mt.Coll}

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Name:    "InterruptedAtShutdown",
			Message: "server is shutting down",
		}))

		_, err := repo.TotalsSince(context.Background(), time.Now())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "error aggregating sales")
	})
}
