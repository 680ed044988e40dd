package pkg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hostelhub/snackshop-service/internal/services"
)

// SeedSnacks populates the shop with a starter inventory on first start.
// It is a no-op when any snacks already exist.
func SeedSnacks(ctx context.Context, inventory services.InventoryService, logger *slog.Logger) error {
	count, err := inventory.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count snacks: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeds := []services.CreateSnackRequest{
		{Name: "Spicy Chips Pack", Price: 20.00, Quantity: 15},
		{Name: "Chocolate Cookie", Price: 50.00, Quantity: 8},
		{Name: "Energy Drink", Price: 35.00, Quantity: 0},
	}

	for _, seed := range seeds {
		req := seed
		if _, err := inventory.Create(ctx, &req); err != nil {
			return fmt.Errorf("failed to seed snack %q: %w", seed.Name, err)
		}
	}

	logger.Info("Seeded starter inventory", "count", len(seeds))
	return nil
}
