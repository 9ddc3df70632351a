package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

// ProductRepository reads the product catalog. The catalog is owned by the
// storefront; this service never writes it.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
}

// SalesRepository aggregates order history into per-(product, flavor) totals.
type SalesRepository interface {
	// TotalsSince returns total units sold per (product, flavor) pair for
	// completed orders created at or after since. Pairs with zero qualifying
	// sales are absent; callers default to zero.
	TotalsSince(ctx context.Context, since time.Time) (map[domain.SalesKey]float64, error)
}

// MetricRepository owns the inventory-metric snapshot collection.
type MetricRepository interface {
	// ReplaceAll drops the existing snapshot and inserts the new one.
	// Delete-then-insert is not transactional: a failed run leaves the
	// collection indeterminate and must be retried whole.
	ReplaceAll(ctx context.Context, metrics []domain.InventoryMetric) error
	FindAll(ctx context.Context) ([]domain.InventoryMetric, error)
}
