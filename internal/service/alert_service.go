package service

import (
	"context"
	"sort"

	"github.com/andresuchdata/stockpulse/internal/cache"
	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AlertService joins the persisted metrics snapshot with live stock levels
// and serves the restock-alert view: most urgent items first.
type AlertService struct {
	products  repository.ProductRepository
	snapshots repository.MetricRepository
	cache     cache.AlertCache

	lowStockThreshold int
}

func NewAlertService(
	products repository.ProductRepository,
	snapshots repository.MetricRepository,
	cacheImpl cache.AlertCache,
	lowStockThreshold int,
) *AlertService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopAlertCache()
	}
	if lowStockThreshold <= 0 {
		lowStockThreshold = 5
	}
	return &AlertService{
		products:          products,
		snapshots:         snapshots,
		cache:             cacheImpl,
		lowStockThreshold: lowStockThreshold,
	}
}

// RestockAlerts returns snapshot entries joined with current stock, sorted
// ascending by days of stock remaining (infinite last). An empty velocity
// means no filter; anything outside the fixed enumeration is rejected
// before any query executes. Entries whose product was deleted after the
// snapshot was computed are skipped.
func (s *AlertService) RestockAlerts(ctx context.Context, velocity string) ([]domain.RestockAlert, error) {
	var filter domain.Velocity
	if velocity != "" {
		parsed, err := domain.ParseVelocity(velocity)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}

	if alerts, ok, err := s.cache.GetAlerts(ctx, velocity); err == nil && ok {
		return alerts, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("restock alerts: cache get failed")
	}

	snapshot, err := s.snapshots.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	alerts := make([]domain.RestockAlert, 0, len(snapshot))
	for _, doc := range snapshot {
		product, ok := byID[doc.Product]
		if !ok {
			log.Warn().
				Str("product_id", doc.Product.Hex()).
				Msg("restock alerts: snapshot references deleted product, skipping")
			continue
		}

		for _, fm := range doc.FlavorMetrics {
			if filter != "" && fm.SalesVelocity != filter {
				continue
			}
			currentStock := product.FlavorStock(fm.FlavorName)
			alerts = append(alerts, domain.RestockAlert{
				ProductID:              product.ID,
				ProductName:            product.Name,
				SKU:                    product.SKU,
				FlavorName:             fm.FlavorName,
				AvgWeeklySales:         fm.AvgWeeklySales,
				RecommendedWeeklyStock: fm.RecommendedWeeklyStock,
				ReorderPoint:           fm.ReorderPoint,
				DaysOfStockRemaining:   fm.DaysOfStockRemaining,
				SalesVelocity:          fm.SalesVelocity,
				CurrentStock:           currentStock,
				IsLowStock:             currentStock < s.lowStockThreshold,
			})
		}
	}

	// Plain float ordering puts the infinite sentinel last.
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DaysOfStockRemaining < alerts[j].DaysOfStockRemaining
	})

	if err := s.cache.SetAlerts(ctx, velocity, alerts); err != nil {
		log.Warn().Err(err).Msg("restock alerts: cache set failed")
	}

	return alerts, nil
}
