package service

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeProductRepo struct {
	products []domain.Product
	calls    int
	err      error
}

func (f *fakeProductRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	f.calls++
	return f.products, f.err
}

type fakeMetricRepo struct {
	stored []domain.InventoryMetric
	calls  int
	err    error
}

func (f *fakeMetricRepo) ReplaceAll(ctx context.Context, metrics []domain.InventoryMetric) error {
	f.stored = metrics
	return f.err
}

func (f *fakeMetricRepo) FindAll(ctx context.Context) ([]domain.InventoryMetric, error) {
	f.calls++
	return f.stored, f.err
}

func strPtr(s string) *string { return &s }

func metricDoc(product primitive.ObjectID, fms ...domain.FlavorMetric) domain.InventoryMetric {
	return domain.InventoryMetric{
		ID:            primitive.NewObjectID(),
		Product:       product,
		FlavorMetrics: fms,
		ComputedAt:    time.Now(),
	}
}

func TestRestockAlerts_SortedByUrgency(t *testing.T) {
	slow := domain.Product{ID: primitive.NewObjectID(), Name: "Slow Mover", Stock: 100}
	urgent := domain.Product{ID: primitive.NewObjectID(), Name: "Urgent", Stock: 3}
	mid := domain.Product{ID: primitive.NewObjectID(), Name: "Mid", Stock: 70}

	products := &fakeProductRepo{products: []domain.Product{slow, urgent, mid}}
	snapshots := &fakeMetricRepo{stored: []domain.InventoryMetric{
		metricDoc(slow.ID, domain.FlavorMetric{
			DaysOfStockRemaining: domain.InfiniteDays(),
			SalesVelocity:        domain.VelocitySlow,
		}),
		metricDoc(urgent.ID, domain.FlavorMetric{
			DaysOfStockRemaining: 7,
			SalesVelocity:        domain.VelocityFast,
		}),
		metricDoc(mid.ID, domain.FlavorMetric{
			DaysOfStockRemaining: 98,
			SalesVelocity:        domain.VelocityAverage,
		}),
	}}
	svc := NewAlertService(products, snapshots, nil, 5)

	alerts, err := svc.RestockAlerts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	assert.Equal(t, "Urgent", alerts[0].ProductName)
	assert.Equal(t, "Mid", alerts[1].ProductName)
	assert.Equal(t, "Slow Mover", alerts[2].ProductName)
	assert.True(t, alerts[2].DaysOfStockRemaining.IsInfinite())
}

func TestRestockAlerts_InvalidVelocityRejectedBeforeQuery(t *testing.T) {
	products := &fakeProductRepo{}
	snapshots := &fakeMetricRepo{}
	svc := NewAlertService(products, snapshots, nil, 5)

	_, err := svc.RestockAlerts(context.Background(), "Medium")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidVelocity)
	assert.Contains(t, err.Error(), "Medium")
	assert.Zero(t, products.calls)
	assert.Zero(t, snapshots.calls)
}

func TestRestockAlerts_VelocityFilter(t *testing.T) {
	p := domain.Product{
		ID:   primitive.NewObjectID(),
		Name: "Chips",
		Flavors: []domain.Flavor{
			{Name: "Salt", Stock: 50},
			{Name: "Paprika", Stock: 2},
		},
	}
	products := &fakeProductRepo{products: []domain.Product{p}}
	snapshots := &fakeMetricRepo{stored: []domain.InventoryMetric{
		metricDoc(p.ID,
			domain.FlavorMetric{FlavorName: strPtr("Salt"), DaysOfStockRemaining: 30, SalesVelocity: domain.VelocityAverage},
			domain.FlavorMetric{FlavorName: strPtr("Paprika"), DaysOfStockRemaining: 2, SalesVelocity: domain.VelocityFast},
		),
	}}
	svc := NewAlertService(products, snapshots, nil, 5)

	alerts, err := svc.RestockAlerts(context.Background(), "Fast")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Paprika", *alerts[0].FlavorName)
	assert.Equal(t, 2, alerts[0].CurrentStock)
	assert.True(t, alerts[0].IsLowStock)
}

func TestRestockAlerts_SkipsDeletedProducts(t *testing.T) {
	existing := domain.Product{ID: primitive.NewObjectID(), Name: "Still Here", Stock: 20}
	products := &fakeProductRepo{products: []domain.Product{existing}}
	snapshots := &fakeMetricRepo{stored: []domain.InventoryMetric{
		metricDoc(existing.ID, domain.FlavorMetric{DaysOfStockRemaining: 10, SalesVelocity: domain.VelocityAverage}),
		metricDoc(primitive.NewObjectID(), domain.FlavorMetric{DaysOfStockRemaining: 1, SalesVelocity: domain.VelocityFast}),
	}}
	svc := NewAlertService(products, snapshots, nil, 5)

	alerts, err := svc.RestockAlerts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Still Here", alerts[0].ProductName)
}

func TestRestockAlerts_LowStockBoundary(t *testing.T) {
	at := domain.Product{ID: primitive.NewObjectID(), Name: "At Threshold", Stock: 5}
	below := domain.Product{ID: primitive.NewObjectID(), Name: "Below", Stock: 4}
	products := &fakeProductRepo{products: []domain.Product{at, below}}
	snapshots := &fakeMetricRepo{stored: []domain.InventoryMetric{
		metricDoc(at.ID, domain.FlavorMetric{DaysOfStockRemaining: 10, SalesVelocity: domain.VelocityAverage}),
		metricDoc(below.ID, domain.FlavorMetric{DaysOfStockRemaining: 20, SalesVelocity: domain.VelocityAverage}),
	}}
	svc := NewAlertService(products, snapshots, nil, 5)

	alerts, err := svc.RestockAlerts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	byName := map[string]domain.RestockAlert{}
	for _, a := range alerts {
		byName[a.ProductName] = a
	}
	assert.False(t, byName["At Threshold"].IsLowStock)
	assert.True(t, byName["Below"].IsLowStock)
}
