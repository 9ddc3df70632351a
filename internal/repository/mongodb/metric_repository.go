package mongodb

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type metricRepository struct {
	collection *mongo.Collection
}

func NewMetricRepository(db *mongo.Database) repository.MetricRepository {
	return &metricRepository{collection: db.Collection("inventory_metrics")}
}

// ReplaceAll rebuilds the snapshot collection: delete everything, insert the
// new set. A reader mid-rebuild may observe an empty or partial collection;
// the snapshot is eventually consistent, and a failed run must be retried
// whole rather than resumed.
func (r *metricRepository) ReplaceAll(ctx context.Context, metrics []domain.InventoryMetric) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("error clearing inventory metrics: %w", err)
	}
	if len(metrics) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(metrics))
	for _, m := range metrics {
		docs = append(docs, m)
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("error inserting inventory metrics: %w", err)
	}
	return nil
}

func (r *metricRepository) FindAll(ctx context.Context) ([]domain.InventoryMetric, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing inventory metrics: %w", err)
	}
	defer cursor.Close(ctx)

	var metrics []domain.InventoryMetric
	if err := cursor.All(ctx, &metrics); err != nil {
		return nil, fmt.Errorf("error decoding inventory metrics: %w", err)
	}
	return metrics, nil
}
