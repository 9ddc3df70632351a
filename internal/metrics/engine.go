package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

// SnapshotInvalidator clears derived read caches after a snapshot replace.
type SnapshotInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// Engine computes the inventory-metric snapshot: it aggregates sales over
// the lookback window, classifies velocity from the rate population, derives
// the per-flavor metrics and replaces the stored snapshot wholesale.
//
// Concurrent triggers (cron and on-demand) are coalesced through a
// single-flight group so at most one recompute is in flight at a time and
// delete/insert sequences never interleave.
type Engine struct {
	products    repository.ProductRepository
	sales       repository.SalesRepository
	snapshots   repository.MetricRepository
	invalidator SnapshotInvalidator
	timeout     time.Duration

	group singleflight.Group
	now   func() time.Time
}

func NewEngine(
	products repository.ProductRepository,
	sales repository.SalesRepository,
	snapshots repository.MetricRepository,
	invalidator SnapshotInvalidator,
	timeout time.Duration,
) *Engine {
	return &Engine{
		products:    products,
		sales:       sales,
		snapshots:   snapshots,
		invalidator: invalidator,
		timeout:     timeout,
		now:         time.Now,
	}
}

// Result summarizes one completed recompute run.
type Result struct {
	Products   int        `json:"products"`
	Entries    int        `json:"entries"`
	Thresholds Thresholds `json:"thresholds"`
	ComputedAt time.Time  `json:"computedAt"`
}

// Recompute runs the full pipeline and replaces the snapshot. Callers that
// arrive while a run is in flight share that run's result instead of
// starting an overlapping rebuild. Any data-access failure aborts the run
// and the snapshot must be treated as indeterminate until a retry succeeds.
func (e *Engine) Recompute(ctx context.Context, params Params) (*Result, error) {
	if params.LookbackWeeks <= 0 {
		return nil, fmt.Errorf("lookback weeks must be positive, got %d", params.LookbackWeeks)
	}

	v, err, shared := e.group.Do("recompute", func() (interface{}, error) {
		// The run is shared by coalesced callers and the cron job, so a
		// disconnecting HTTP client must not cancel the delete/insert
		// sequence mid-flight. The configured timeout still bounds it.
		return e.recompute(context.WithoutCancel(ctx), params)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Msg("recompute trigger coalesced onto in-flight run")
	}
	return v.(*Result), nil
}

func (e *Engine) recompute(ctx context.Context, params Params) (*Result, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	now := e.now()
	since := now.AddDate(0, 0, -7*params.LookbackWeeks)
	weeks := float64(params.LookbackWeeks)

	products, err := e.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("recompute: load products: %w", err)
	}

	totals, err := e.sales.TotalsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("recompute: aggregate sales: %w", err)
	}

	// First pass: the full rate population, zeros included. The classifier
	// drops zeros before the percentile lookup but every item, zero or not,
	// gets classified against the resulting thresholds.
	var rates []float64
	for _, p := range products {
		for _, fl := range flavorEntries(p) {
			qty := totals[domain.SalesKey{ProductID: p.ID, Flavor: fl.name}]
			rates = append(rates, qty/weeks)
		}
	}
	thresholds := ComputeThresholds(rates, params.SlowPercentile, params.FastPercentile)

	// Second pass: per-flavor metrics, one snapshot document per product.
	leadWeeks := float64(params.LeadTimeDays) / 7
	snapshot := make([]domain.InventoryMetric, 0, len(products))
	entries := 0
	for _, p := range products {
		fms := make([]domain.FlavorMetric, 0, len(p.Flavors)+1)
		for _, fl := range flavorEntries(p) {
			qty := totals[domain.SalesKey{ProductID: p.ID, Flavor: fl.name}]
			avg := qty / weeks

			days := domain.InfiniteDays()
			if avg > 0 {
				days = domain.DaysOfStock(float64(fl.stock) / avg * 7)
			}

			fms = append(fms, domain.FlavorMetric{
				FlavorName:             fl.namePtr(),
				AvgWeeklySales:         avg,
				RecommendedWeeklyStock: avg * params.SafetyFactor,
				ReorderPoint:           avg * leadWeeks * params.SafetyFactor,
				DaysOfStockRemaining:   days,
				SalesVelocity:          thresholds.Classify(avg),
			})
		}
		entries += len(fms)
		snapshot = append(snapshot, domain.InventoryMetric{
			ID:            primitive.NewObjectID(),
			Product:       p.ID,
			FlavorMetrics: fms,
			ComputedAt:    now,
		})
	}

	if err := e.snapshots.ReplaceAll(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("recompute: replace snapshot: %w", err)
	}

	if e.invalidator != nil {
		if err := e.invalidator.InvalidateAll(ctx); err != nil {
			log.Warn().Err(err).Msg("recompute: alert cache invalidation failed")
		}
	}

	log.Info().
		Int("products", len(products)).
		Int("entries", entries).
		Float64("slow_threshold", thresholds.Slow).
		Float64("fast_threshold", thresholds.Fast).
		Msg("inventory metrics recomputed")

	return &Result{
		Products:   len(products),
		Entries:    entries,
		Thresholds: thresholds,
		ComputedAt: now,
	}, nil
}

// flavorEntry is one (flavor, stock) pair feeding the computation; the
// unflavored case is a single synthetic entry with an empty name and the
// product's scalar stock.
type flavorEntry struct {
	name  string
	stock int
}

func (f flavorEntry) namePtr() *string {
	if f.name == "" {
		return nil
	}
	name := f.name
	return &name
}

func flavorEntries(p domain.Product) []flavorEntry {
	if len(p.Flavors) == 0 {
		return []flavorEntry{{name: "", stock: p.Stock}}
	}
	entries := make([]flavorEntry, 0, len(p.Flavors))
	for _, fl := range p.Flavors {
		entries = append(entries, flavorEntry{name: fl.Name, stock: fl.Stock})
	}
	return entries
}
