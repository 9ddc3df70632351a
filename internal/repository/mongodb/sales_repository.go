package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type salesRepository struct {
	collection *mongo.Collection
}

func NewSalesRepository(db *mongo.Database) repository.SalesRepository {
	return &salesRepository{collection: db.Collection("orders")}
}

type salesGroup struct {
	ID struct {
		Product primitive.ObjectID `bson:"product"`
		Flavor  string             `bson:"flavor"`
	} `bson:"_id"`
	TotalQty float64 `bson:"totalQty"`
}

// TotalsSince sums sold quantities per (product, flavor) over completed
// orders created at or after since. Line items from pending or cancelled
// orders never count.
func (r *salesRepository) TotalsSince(ctx context.Context, since time.Time) (map[domain.SalesKey]float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":    bson.M{"$in": domain.CompletedStatuses},
			"createdAt": bson.M{"$gte": since},
		}}},
		{{Key: "$unwind", Value: "$orderItems"}},
		{{Key: "$project", Value: bson.M{
			"product": "$orderItems.product",
			"flavor":  "$orderItems.flavor",
			"qty":     "$orderItems.qty",
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":      bson.M{"product": "$product", "flavor": "$flavor"},
			"totalQty": bson.M{"$sum": "$qty"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating sales: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []salesGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("error decoding sales aggregation: %w", err)
	}

	totals := make(map[domain.SalesKey]float64, len(groups))
	for _, g := range groups {
		key := domain.SalesKey{ProductID: g.ID.Product, Flavor: g.ID.Flavor}
		totals[key] += g.TotalQty
	}
	return totals, nil
}
