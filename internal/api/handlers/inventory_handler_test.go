package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/metrics"
	"github.com/andresuchdata/stockpulse/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeProductRepo struct {
	products []domain.Product
}

func (f *fakeProductRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	return f.products, nil
}

type fakeSalesRepo struct {
	totals map[domain.SalesKey]float64
}

func (f *fakeSalesRepo) TotalsSince(ctx context.Context, since time.Time) (map[domain.SalesKey]float64, error) {
	return f.totals, nil
}

type fakeMetricRepo struct {
	stored []domain.InventoryMetric
}

func (f *fakeMetricRepo) ReplaceAll(ctx context.Context, m []domain.InventoryMetric) error {
	f.stored = m
	return nil
}

func (f *fakeMetricRepo) FindAll(ctx context.Context) ([]domain.InventoryMetric, error) {
	return f.stored, nil
}

func newTestRouter(products []domain.Product, totals map[domain.SalesKey]float64) (*gin.Engine, *fakeMetricRepo) {
	gin.SetMode(gin.TestMode)

	productRepo := &fakeProductRepo{products: products}
	salesRepo := &fakeSalesRepo{totals: totals}
	metricRepo := &fakeMetricRepo{}

	params := metrics.DefaultParams()
	engine := metrics.NewEngine(productRepo, salesRepo, metricRepo, nil, 0)
	alerts := service.NewAlertService(productRepo, metricRepo, nil, 5)
	reports := service.NewReportService(engine, params, productRepo, metricRepo, nil, nil, "")

	handler := NewInventoryHandler(engine, params, alerts, reports)

	router := gin.New()
	router.POST("/api/v1/inventory/metrics/recompute", handler.Recompute)
	router.GET("/api/v1/inventory/restock-alerts", handler.GetRestockAlerts)
	router.POST("/api/v1/inventory/reports/weekly", handler.SendWeeklyReport)
	return router, metricRepo
}

func TestGetRestockAlerts_InvalidVelocity(t *testing.T) {
	router, _ := newTestRouter(nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/restock-alerts?velocity=Medium", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Medium")
}

func TestRecomputeThenAlerts(t *testing.T) {
	p := domain.Product{ID: primitive.NewObjectID(), Name: "Protein Bar", Stock: 70}
	router, metricRepo := newTestRouter([]domain.Product{p}, map[domain.SalesKey]float64{
		{ProductID: p.ID, Flavor: ""}: 20,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/metrics/recompute", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result metrics.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Products)
	assert.Equal(t, 1, result.Entries)
	require.Len(t, metricRepo.stored, 1)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/inventory/restock-alerts", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var alerts []domain.RestockAlert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "Protein Bar", alerts[0].ProductName)
	assert.Equal(t, 5.0, alerts[0].AvgWeeklySales)
	assert.Equal(t, 70, alerts[0].CurrentStock)
	assert.False(t, alerts[0].IsLowStock)
}

func TestGetRestockAlerts_EmptySnapshot(t *testing.T) {
	router, _ := newTestRouter(nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/restock-alerts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}
