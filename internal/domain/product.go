package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Flavor is a product variant carrying its own stock and optional price.
type Flavor struct {
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price,omitempty" bson:"price,omitempty"`
	Stock     int     `json:"stock" bson:"stock"`
	SoldCount int     `json:"soldCount" bson:"soldCount"`
}

// Product is the catalog entity this service reads. A product either carries
// a non-empty flavor list (each flavor contributing its own stock) or the
// top-level scalar Stock field.
type Product struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	Name          string             `json:"name" bson:"name"`
	SKU           string             `json:"sku,omitempty" bson:"sku,omitempty"`
	Category      string             `json:"category,omitempty" bson:"category,omitempty"`
	SubCategories []string           `json:"subCategories,omitempty" bson:"subCategories,omitempty"`
	Price         float64            `json:"price,omitempty" bson:"price,omitempty"`
	Flavors       []Flavor           `json:"flavors,omitempty" bson:"flavors,omitempty"`
	Stock         int                `json:"stock" bson:"stock"`
	SoldCount     int                `json:"soldCount" bson:"soldCount"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// FlavorStock resolves the live stock level for a metric entry: the named
// flavor's stock when the entry has a flavor, else the product-level scalar.
func (p Product) FlavorStock(flavorName *string) int {
	if flavorName != nil {
		for _, fl := range p.Flavors {
			if fl.Name == *flavorName {
				return fl.Stock
			}
		}
	}
	return p.Stock
}
