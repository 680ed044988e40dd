package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/hostelhub/snackshop-service/internal/events"
	"github.com/hostelhub/snackshop-service/internal/models"
)

func TestOrderEventService_PublishEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	mockPublisher := events.NewMockEventPublisher(logger)

	service := &orderEventService{
		eventPublisher: mockPublisher,
		logger:         logger,
	}

	ctx := context.Background()
	order := &models.Order{
		ID:         7,
		SnackID:    3,
		BuyerName:  "Ravi",
		Room:       "204",
		Quantity:   2,
		TotalPrice: 40.00,
		Status:     models.OrderStatusPending,
	}

	t.Run("OrderPlaced", func(t *testing.T) {
		mockPublisher.ClearEvents()

		if err := service.PublishOrderPlaced(ctx, order, "Spicy Chips Pack"); err != nil {
			t.Fatalf("Failed to publish order placed: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}

		event := published[0]
		if event.Type != events.EventOrderPlaced {
			t.Errorf("Expected event type %q, got %q", events.EventOrderPlaced, event.Type)
		}

		data, ok := event.Data.(events.OrderPlacedEvent)
		if !ok {
			t.Fatalf("Expected OrderPlacedEvent payload, got %T", event.Data)
		}
		if data.OrderID != 7 || data.SnackName != "Spicy Chips Pack" || data.TotalPrice != 40.00 {
			t.Errorf("Unexpected payload: %+v", data)
		}
	})

	t.Run("OrderCompleted", func(t *testing.T) {
		mockPublisher.ClearEvents()

		if err := service.PublishOrderCompleted(ctx, order); err != nil {
			t.Fatalf("Failed to publish order completed: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.EventOrderCompleted {
			t.Errorf("Expected event type %q, got %q", events.EventOrderCompleted, published[0].Type)
		}
	})

	t.Run("StockDepleted", func(t *testing.T) {
		mockPublisher.ClearEvents()

		if err := service.PublishStockDepleted(ctx, 3, "Spicy Chips Pack"); err != nil {
			t.Fatalf("Failed to publish stock depleted: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}

		data, ok := published[0].Data.(events.StockDepletedEvent)
		if !ok {
			t.Fatalf("Expected StockDepletedEvent payload, got %T", published[0].Data)
		}
		if data.SnackID != 3 || data.SnackName != "Spicy Chips Pack" {
			t.Errorf("Unexpected payload: %+v", data)
		}
	})

	t.Run("Event_Structure_Validation", func(t *testing.T) {
		mockPublisher.ClearEvents()

		if err := service.PublishOrderPlaced(ctx, order, "Spicy Chips Pack"); err != nil {
			t.Fatalf("Failed to publish: %v", err)
		}

		event := mockPublisher.GetPublishedEvents()[0]
		if event.ID == "" {
			t.Error("Event must carry an ID")
		}
		if event.Source != events.EventSource {
			t.Errorf("Expected source %q, got %q", events.EventSource, event.Source)
		}
		if event.Version != events.EventVersion {
			t.Errorf("Expected version %q, got %q", events.EventVersion, event.Version)
		}
		if event.Timestamp.IsZero() {
			t.Error("Event must carry a timestamp")
		}
	})
}
