package events

import (
	"context"
	"time"
)

// Event types published to the order stream for downstream consumers
// (fulfillment dashboards, reporting). Nothing here delivers anything to
// end users.
const (
	EventOrderPlaced    = "order.placed"
	EventOrderCompleted = "order.completed"
	EventStockDepleted  = "inventory.stock_depleted"
)

// EventSource identifies this service in published events
const EventSource = "snackshop-service"

// EventVersion is the current event schema version
const EventVersion = "1.0"

// Event is the envelope for all published events
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// OrderPlacedEvent is the payload for order.placed
type OrderPlacedEvent struct {
	OrderID    uint    `json:"order_id"`
	SnackID    uint    `json:"snack_id"`
	SnackName  string  `json:"snack_name"`
	BuyerName  string  `json:"buyer_name"`
	RoomNumber string  `json:"room_number"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

// OrderCompletedEvent is the payload for order.completed
type OrderCompletedEvent struct {
	OrderID    uint   `json:"order_id"`
	SnackID    uint   `json:"snack_id"`
	BuyerName  string `json:"buyer_name"`
	RoomNumber string `json:"room_number"`
}

// StockDepletedEvent is the payload for inventory.stock_depleted,
// published when an order placement drives a snack's stock to zero
type StockDepletedEvent struct {
	SnackID   uint   `json:"snack_id"`
	SnackName string `json:"snack_name"`
}

// EventPublisher publishes events to the order stream
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
