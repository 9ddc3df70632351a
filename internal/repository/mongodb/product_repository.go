package mongodb

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) repository.ProductRepository {
	return &productRepository{collection: db.Collection("products")}
}

func (r *productRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("error decoding products: %w", err)
	}
	return products, nil
}
