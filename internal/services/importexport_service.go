package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/repositories"
	"github.com/hostelhub/snackshop-service/internal/validator"
)

// exportPageSize bounds how many rows are pulled per query while streaming
// a report
const exportPageSize = 500

type importExportService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	business  *validator.BusinessValidator
}

func NewImportExportService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) ImportExportService {
	return &importExportService{
		repo:      repo,
		logger:    logger,
		validator: v,
		business:  validator.NewBusinessValidator(),
	}
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportOrders(ctx context.Context, filters repositories.OrderFilters) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Orders"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{"ID", "Snack", "Buyer", "Room", "Quantity", "Unit Price", "Total Price", "Status", "Created At"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return nil, err
	}

	row := 2
	filters.Limit = exportPageSize
	filters.Offset = 0

	for {
		orders, total, err := s.repo.Order().List(ctx, nil, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list orders for export: %w", err)
		}

		for _, order := range orders {
			values := []interface{}{
				order.ID,
				orderSnackName(order),
				order.BuyerName,
				order.Room,
				order.Quantity,
				order.UnitPrice,
				order.TotalPrice,
				string(order.Status),
				order.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			if err := writeRow(f, sheet, row, values); err != nil {
				return nil, err
			}
			row++
		}

		filters.Offset += len(orders)
		if len(orders) == 0 || int64(filters.Offset) >= total {
			break
		}
	}

	s.logger.Info("Orders exported", "rows", row-2)

	return f, nil
}

func (s *importExportService) ExportInventory(ctx context.Context) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Inventory"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{"ID", "Name", "Price", "Quantity", "Available", "Image URL", "Created At"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return nil, err
	}

	row := 2
	filters := repositories.SnackFilters{Limit: exportPageSize}

	for {
		snacks, total, err := s.repo.Snack().List(ctx, nil, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list snacks for export: %w", err)
		}

		for _, snack := range snacks {
			values := []interface{}{
				snack.ID,
				snack.Name,
				snack.Price,
				snack.Quantity,
				snack.IsAvailable,
				snack.ImageURL,
				snack.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			if err := writeRow(f, sheet, row, values); err != nil {
				return nil, err
			}
			row++
		}

		filters.Offset += len(snacks)
		if len(snacks) == 0 || int64(filters.Offset) >= total {
			break
		}
	}

	s.logger.Info("Inventory exported", "rows", row-2)

	return f, nil
}

// ===== IMPORT OPERATIONS =====

// ImportSnacks reads an xlsx workbook with columns Name, Price, Quantity and
// an optional Image URL, one snack per row after the header. Bad rows are
// reported individually and never abort the rest of the file.
func (s *importExportService) ImportSnacks(ctx context.Context, r io.Reader) (*models.ImportSnacksResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	result := &models.ImportSnacksResult{}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		rowNum := i + 1

		req, err := parseSnackRow(row)
		if err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, models.ImportRowError{Row: rowNum, Error: err.Error()})
			continue
		}

		if verrs := s.business.ValidateSnackCreate(req); verrs.HasErrors() {
			result.FailureCount++
			result.Errors = append(result.Errors, models.ImportRowError{Row: rowNum, Error: verrs.Error()})
			continue
		}

		snack := &models.Snack{
			Name:     req.Name,
			Price:    req.Price,
			Quantity: req.Quantity,
			ImageURL: req.ImageURL,
		}
		if snack.ImageURL == "" {
			snack.ImageURL = models.DefaultSnackImage
		}
		snack.RecomputeAvailability()

		if err := s.repo.Snack().Create(ctx, nil, snack); err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, models.ImportRowError{Row: rowNum, Error: err.Error()})
			continue
		}

		result.SuccessCount++
	}

	s.logger.Info("Snack import finished",
		"succeeded", result.SuccessCount,
		"failed", result.FailureCount)

	return result, nil
}

// ===== HELPERS =====

func parseSnackRow(row []string) (*models.SnackCreateRequest, error) {
	if len(row) < 3 {
		return nil, fmt.Errorf("expected at least 3 columns (name, price, quantity), got %d", len(row))
	}

	name := strings.TrimSpace(row[0])
	if name == "" {
		return nil, fmt.Errorf("name is empty")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", row[1])
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid quantity %q", row[2])
	}

	req := &models.SnackCreateRequest{
		Name:     name,
		Price:    price,
		Quantity: quantity,
	}
	if len(row) > 3 {
		req.ImageURL = strings.TrimSpace(row[3])
	}

	return req, nil
}

// orderSnackName prefers the live snack row and falls back to the snapshot
// captured at placement
func orderSnackName(order *models.Order) string {
	if order.Snack != nil {
		return order.Snack.Name
	}
	if len(order.SnackSnapshot) > 0 {
		var snapshot models.SnackSnapshotData
		if err := json.Unmarshal(order.SnackSnapshot, &snapshot); err == nil {
			return snapshot.Name
		}
	}
	return ""
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	return writeRow(f, sheet, 1, values)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}
