package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// RestockAlert is one row of the restock-alert view: a snapshot entry joined
// with the product's live stock level.
type RestockAlert struct {
	ProductID              primitive.ObjectID `json:"productId"`
	ProductName            string             `json:"productName"`
	SKU                    string             `json:"sku,omitempty"`
	FlavorName             *string            `json:"flavorName"`
	AvgWeeklySales         float64            `json:"avgWeeklySales"`
	RecommendedWeeklyStock float64            `json:"recommendedWeeklyStock"`
	ReorderPoint           float64            `json:"reorderPoint"`
	DaysOfStockRemaining   DaysOfStock        `json:"daysOfStockRemaining"`
	SalesVelocity          Velocity           `json:"salesVelocity"`
	CurrentStock           int                `json:"currentStock"`
	IsLowStock             bool               `json:"isLowStock"`
}
