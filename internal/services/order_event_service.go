package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hostelhub/snackshop-service/internal/events"
	"github.com/hostelhub/snackshop-service/internal/models"
)

// orderEventService publishes order lifecycle events to the event stream.
// Consumers are downstream (fulfillment dashboards, reporting); nothing here
// blocks or fails an order.
type orderEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewOrderEventService(publisher events.EventPublisher, logger *slog.Logger) OrderEventService {
	return &orderEventService{
		eventPublisher: publisher,
		logger:         logger,
	}
}

func (s *orderEventService) PublishOrderPlaced(ctx context.Context, order *models.Order, snackName string) error {
	event := s.newEvent(events.EventOrderPlaced, events.OrderPlacedEvent{
		OrderID:    order.ID,
		SnackID:    order.SnackID,
		SnackName:  snackName,
		BuyerName:  order.BuyerName,
		RoomNumber: order.Room,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
	})

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish order placed event: %w", err)
	}

	s.logger.Debug("Order placed event published", "order_id", order.ID, "event_id", event.ID)
	return nil
}

func (s *orderEventService) PublishOrderCompleted(ctx context.Context, order *models.Order) error {
	event := s.newEvent(events.EventOrderCompleted, events.OrderCompletedEvent{
		OrderID:    order.ID,
		SnackID:    order.SnackID,
		BuyerName:  order.BuyerName,
		RoomNumber: order.Room,
	})

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish order completed event: %w", err)
	}

	s.logger.Debug("Order completed event published", "order_id", order.ID, "event_id", event.ID)
	return nil
}

func (s *orderEventService) PublishStockDepleted(ctx context.Context, snackID uint, snackName string) error {
	event := s.newEvent(events.EventStockDepleted, events.StockDepletedEvent{
		SnackID:   snackID,
		SnackName: snackName,
	})

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish stock depleted event: %w", err)
	}

	s.logger.Debug("Stock depleted event published", "snack_id", snackID, "event_id", event.ID)
	return nil
}

func (s *orderEventService) newEvent(eventType string, data interface{}) *events.Event {
	return &events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    events.EventSource,
		Version:   events.EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
