package services

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/repositories"
	"github.com/hostelhub/snackshop-service/internal/validator"
)

func newImportExportServiceForTest(repo *mockRepository) *importExportService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return &importExportService{
		repo:      repo,
		logger:    logger,
		validator: validator.New(),
		business:  validator.NewBusinessValidator(),
	}
}

func buildSnackWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"Name", "Price", "Quantity", "Image URL"}
	if err := writeRow(f, sheet, 1, header); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, i+2, row); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("failed to serialize workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestImportExportService_ImportSnacks(t *testing.T) {
	ctx := context.Background()

	t.Run("valid rows are created", func(t *testing.T) {
		repo := newMockRepository()
		svc := newImportExportServiceForTest(repo)

		r := buildSnackWorkbook(t, [][]interface{}{
			{"Spicy Chips Pack", "20.00", "15", ""},
			{"Chocolate Cookie", "50.00", "8", ""},
			{"Energy Drink", "35.00", "0", ""},
		})

		result, err := svc.ImportSnacks(ctx, r)
		if err != nil {
			t.Fatalf("ImportSnacks failed: %v", err)
		}
		if result.SuccessCount != 3 || result.FailureCount != 0 {
			t.Fatalf("expected 3 successes, got %+v", result)
		}

		count, _ := repo.snack.Count(ctx)
		if count != 3 {
			t.Errorf("expected 3 snacks stored, got %d", count)
		}

		// Availability must be derived on import too
		snacks, _, _ := repo.snack.List(ctx, nil, repositories.SnackFilters{})
		for _, snack := range snacks {
			if snack.IsAvailable != (snack.Quantity > 0) {
				t.Errorf("snack %q: availability %v does not match quantity %d",
					snack.Name, snack.IsAvailable, snack.Quantity)
			}
		}
	})

	t.Run("bad rows are reported and skipped", func(t *testing.T) {
		repo := newMockRepository()
		svc := newImportExportServiceForTest(repo)

		r := buildSnackWorkbook(t, [][]interface{}{
			{"Spicy Chips Pack", "20.00", "15", ""},
			{"", "10.00", "5", ""},            // empty name
			{"Candy", "free", "5", ""},        // bad price
			{"Gum", "5.00", "lots", ""},        // bad quantity
			{"Chocolate Cookie", "50.00", "8"}, // ok, no image column
		})

		result, err := svc.ImportSnacks(ctx, r)
		if err != nil {
			t.Fatalf("ImportSnacks failed: %v", err)
		}
		if result.SuccessCount != 2 {
			t.Errorf("expected 2 successes, got %d", result.SuccessCount)
		}
		if result.FailureCount != 3 {
			t.Errorf("expected 3 failures, got %d", result.FailureCount)
		}
		if len(result.Errors) != 3 {
			t.Fatalf("expected 3 row errors, got %d", len(result.Errors))
		}
		for _, rowErr := range result.Errors {
			if rowErr.Row < 2 || rowErr.Error == "" {
				t.Errorf("row error must carry row number and message: %+v", rowErr)
			}
		}
	})
}

func TestImportExportService_ExportInventory(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	svc := newImportExportServiceForTest(repo)

	snack := &models.Snack{Name: "Spicy Chips Pack", Price: 20.00, Quantity: 15}
	snack.RecomputeAvailability()
	if err := repo.snack.Create(ctx, nil, snack); err != nil {
		t.Fatalf("failed to seed snack: %v", err)
	}

	f, err := svc.ExportInventory(ctx)
	if err != nil {
		t.Fatalf("ExportInventory failed: %v", err)
	}

	rows, err := f.GetRows("Inventory")
	if err != nil {
		t.Fatalf("failed to read exported sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if rows[1][1] != "Spicy Chips Pack" {
		t.Errorf("expected snack name in export, got %q", rows[1][1])
	}
}

func TestImportExportService_ExportOrders(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	svc := newImportExportServiceForTest(repo)
	orderSvc, _ := newOrderServiceForTest(repo)
	buyer := seedBuyer(t, repo)
	snack := seedSnack(t, repo, "Chocolate Cookie", 50.00, 8)

	if _, err := orderSvc.Place(ctx, buyer.ID, &PlaceOrderRequest{SnackID: snack.ID, Quantity: 2}); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	f, err := svc.ExportOrders(ctx, repositories.OrderFilters{})
	if err != nil {
		t.Fatalf("ExportOrders failed: %v", err)
	}

	rows, err := f.GetRows("Orders")
	if err != nil {
		t.Fatalf("failed to read exported sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if rows[1][2] != "Ravi" {
		t.Errorf("expected buyer name in export, got %q", rows[1][2])
	}
	if rows[1][7] != string(models.OrderStatusPending) {
		t.Errorf("expected status %q, got %q", models.OrderStatusPending, rows[1][7])
	}
}
