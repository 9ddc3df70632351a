package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the fixed order lifecycle enumeration.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusOrderReady OrderStatus = "Order Ready"
	StatusDelivered  OrderStatus = "Delivered"
	StatusPickedup   OrderStatus = "Pickedup"
	StatusCancelled  OrderStatus = "Cancelled"
)

// CompletedStatuses are the statuses that count toward sales volume.
// Pending, processing and cancelled orders are excluded from aggregation.
var CompletedStatuses = []OrderStatus{StatusOrderReady, StatusDelivered, StatusPickedup}

// OrderItem is a single line item referencing a product and, optionally,
// one of its flavors.
type OrderItem struct {
	Name    string             `json:"name" bson:"name"`
	Qty     int                `json:"qty" bson:"qty"`
	Flavor  string             `json:"flavor,omitempty" bson:"flavor,omitempty"`
	Price   float64            `json:"price" bson:"price"`
	Product primitive.ObjectID `json:"product" bson:"product"`
}

// Order is the order-history entity, read-only to this service.
type Order struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	OrderNumber string             `json:"orderNumber" bson:"orderNumber"`
	User        primitive.ObjectID `json:"user" bson:"user"`
	OrderItems  []OrderItem        `json:"orderItems" bson:"orderItems"`
	Status      OrderStatus        `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// SalesKey identifies a (product, flavor) pair in aggregated sales totals.
// Flavor is empty for the unflavored case.
type SalesKey struct {
	ProductID primitive.ObjectID
	Flavor    string
}
