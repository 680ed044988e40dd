package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/validator"
)

func newInventoryServiceForTest(repo *mockRepository) *inventoryService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return &inventoryService{
		repo:      repo,
		logger:    logger,
		validator: validator.New(),
		business:  validator.NewBusinessValidator(),
	}
}

func TestInventoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stocked snack is available", func(t *testing.T) {
		repo := newMockRepository()
		svc := newInventoryServiceForTest(repo)

		snack, err := svc.Create(ctx, &CreateSnackRequest{Name: "Spicy Chips Pack", Price: 20.00, Quantity: 15})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if !snack.IsAvailable {
			t.Error("snack with stock must be available")
		}
		if snack.ImageURL != models.DefaultSnackImage {
			t.Errorf("expected default image, got %q", snack.ImageURL)
		}
	})

	t.Run("zero stock snack is unavailable", func(t *testing.T) {
		repo := newMockRepository()
		svc := newInventoryServiceForTest(repo)

		snack, err := svc.Create(ctx, &CreateSnackRequest{Name: "Energy Drink", Price: 35.00, Quantity: 0})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if snack.IsAvailable {
			t.Error("snack without stock must be unavailable")
		}
	})

	t.Run("invalid snacks are rejected", func(t *testing.T) {
		repo := newMockRepository()
		svc := newInventoryServiceForTest(repo)

		cases := []struct {
			name string
			req  CreateSnackRequest
		}{
			{"empty name", CreateSnackRequest{Name: "", Price: 10, Quantity: 1}},
			{"zero price", CreateSnackRequest{Name: "Chips", Price: 0, Quantity: 1}},
			{"negative price", CreateSnackRequest{Name: "Chips", Price: -5, Quantity: 1}},
			{"negative quantity", CreateSnackRequest{Name: "Chips", Price: 10, Quantity: -1}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := svc.Create(ctx, &tc.req); !errors.Is(err, ErrValidationFailed) {
					t.Errorf("expected ErrValidationFailed, got %v", err)
				}
			})
		}
	})
}

func TestInventoryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("availability follows quantity", func(t *testing.T) {
		repo := newMockRepository()
		svc := newInventoryServiceForTest(repo)

		snack, err := svc.Create(ctx, &CreateSnackRequest{Name: "Chocolate Cookie", Price: 50.00, Quantity: 8})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		zero := 0
		updated, err := svc.Update(ctx, snack.ID, &UpdateSnackRequest{Quantity: &zero})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.IsAvailable {
			t.Error("quantity 0 must make the snack unavailable")
		}

		restock := 12
		updated, err = svc.Update(ctx, snack.ID, &UpdateSnackRequest{Quantity: &restock})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if !updated.IsAvailable {
			t.Error("restocked snack must be available again")
		}
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		repo := newMockRepository()
		svc := newInventoryServiceForTest(repo)

		snack, _ := svc.Create(ctx, &CreateSnackRequest{Name: "Chocolate Cookie", Price: 50.00, Quantity: 8})

		newPrice := 45.00
		updated, err := svc.Update(ctx, snack.ID, &UpdateSnackRequest{Price: &newPrice})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Price != 45.00 {
			t.Errorf("expected price 45.00, got %v", updated.Price)
		}
		if updated.Name != "Chocolate Cookie" || updated.Quantity != 8 {
			t.Errorf("untouched fields changed: %+v", updated)
		}
	})

	t.Run("unknown snack", func(t *testing.T) {
		repo := newMockRepository()
		svc := newInventoryServiceForTest(repo)

		name := "Ghost"
		if _, err := svc.Update(ctx, 404, &UpdateSnackRequest{Name: &name}); !errors.Is(err, ErrSnackNotFound) {
			t.Errorf("expected ErrSnackNotFound, got %v", err)
		}
	})
}

func TestInventoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("snack without pending orders can be deleted", func(t *testing.T) {
		repo := newMockRepository()
		svc := newInventoryServiceForTest(repo)

		snack, _ := svc.Create(ctx, &CreateSnackRequest{Name: "Energy Drink", Price: 35.00, Quantity: 5})
		if err := svc.Delete(ctx, snack.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := svc.GetByID(ctx, snack.ID); !errors.Is(err, ErrSnackNotFound) {
			t.Errorf("expected snack gone, got %v", err)
		}
	})

	t.Run("pending orders block deletion", func(t *testing.T) {
		repo := newMockRepository()
		svc := newInventoryServiceForTest(repo)
		orderSvc, _ := newOrderServiceForTest(repo)
		buyer := seedBuyer(t, repo)

		snack, _ := svc.Create(ctx, &CreateSnackRequest{Name: "Spicy Chips Pack", Price: 20.00, Quantity: 15})
		placed, err := orderSvc.Place(ctx, buyer.ID, &PlaceOrderRequest{SnackID: snack.ID, Quantity: 1})
		if err != nil {
			t.Fatalf("Place failed: %v", err)
		}

		if err := svc.Delete(ctx, snack.ID); !errors.Is(err, ErrHasPendingOrders) {
			t.Fatalf("expected ErrHasPendingOrders, got %v", err)
		}

		// Completing the order unblocks deletion
		if _, err := orderSvc.Complete(ctx, placed.ID); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		if err := svc.Delete(ctx, snack.ID); err != nil {
			t.Errorf("Delete after completion failed: %v", err)
		}
	})

	t.Run("unknown snack", func(t *testing.T) {
		repo := newMockRepository()
		svc := newInventoryServiceForTest(repo)

		if err := svc.Delete(ctx, 404); !errors.Is(err, ErrSnackNotFound) {
			t.Errorf("expected ErrSnackNotFound, got %v", err)
		}
	})
}

func TestInventoryService_List(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	svc := newInventoryServiceForTest(repo)

	if _, err := svc.Create(ctx, &CreateSnackRequest{Name: "Spicy Chips Pack", Price: 20.00, Quantity: 15}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(ctx, &CreateSnackRequest{Name: "Energy Drink", Price: 35.00, Quantity: 0}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("all snacks", func(t *testing.T) {
		resp, err := svc.List(ctx, models.ListSnacksParams{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if resp.Total != 2 {
			t.Errorf("expected 2 snacks, got %d", resp.Total)
		}
	})

	t.Run("available only hides empty shelves", func(t *testing.T) {
		resp, err := svc.List(ctx, models.ListSnacksParams{AvailableOnly: true})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if resp.Total != 1 {
			t.Errorf("expected 1 available snack, got %d", resp.Total)
		}
		for _, snack := range resp.Snacks {
			if !snack.IsAvailable {
				t.Errorf("unavailable snack %q leaked into available-only list", snack.Name)
			}
		}
	})
}
