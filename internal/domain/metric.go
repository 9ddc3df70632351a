package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Velocity labels how quickly an item sells.
type Velocity string

const (
	VelocityFast    Velocity = "Fast"
	VelocityAverage Velocity = "Average"
	VelocitySlow    Velocity = "Slow"
)

// ErrInvalidVelocity marks a velocity filter value outside the fixed enumeration.
var ErrInvalidVelocity = errors.New("invalid velocity")

// ParseVelocity validates a velocity filter value against the fixed enumeration.
func ParseVelocity(s string) (Velocity, error) {
	switch v := Velocity(s); v {
	case VelocityFast, VelocityAverage, VelocitySlow:
		return v, nil
	default:
		return "", fmt.Errorf("%w %q (expected Fast, Average or Slow)", ErrInvalidVelocity, s)
	}
}

// DaysOfStock is a days-of-cover figure. Zero-sales items carry the infinite
// sentinel, which serializes to JSON null (encoding/json cannot represent
// +Inf) while staying +Inf in BSON and for in-process sorting.
type DaysOfStock float64

// InfiniteDays is the sentinel for items with zero average sales.
func InfiniteDays() DaysOfStock { return DaysOfStock(math.Inf(1)) }

func (d DaysOfStock) IsInfinite() bool { return math.IsInf(float64(d), 1) }

func (d DaysOfStock) MarshalJSON() ([]byte, error) {
	if d.IsInfinite() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(d))
}

func (d *DaysOfStock) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = InfiniteDays()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*d = DaysOfStock(f)
	return nil
}

// FlavorMetric is one per-flavor row of a computed snapshot. A nil FlavorName
// is the synthetic entry for unflavored products.
type FlavorMetric struct {
	FlavorName             *string     `json:"flavorName" bson:"flavorName"`
	AvgWeeklySales         float64     `json:"avgWeeklySales" bson:"avgWeeklySales"`
	RecommendedWeeklyStock float64     `json:"recommendedWeeklyStock" bson:"recommendedWeeklyStock"`
	ReorderPoint           float64     `json:"reorderPoint" bson:"reorderPoint"`
	DaysOfStockRemaining   DaysOfStock `json:"daysOfStockRemaining" bson:"daysOfStockRemaining"`
	SalesVelocity          Velocity    `json:"salesVelocity" bson:"salesVelocity"`
}

// InventoryMetric is the per-product snapshot document. The whole collection
// is replaced on every recompute run; only the engine writes it.
type InventoryMetric struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	Product       primitive.ObjectID `json:"product" bson:"product"`
	FlavorMetrics []FlavorMetric     `json:"flavorMetrics" bson:"flavorMetrics"`
	ComputedAt    time.Time          `json:"computedAt" bson:"computedAt"`
}
