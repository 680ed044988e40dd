package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/repositories"
	"github.com/hostelhub/snackshop-service/internal/services"
	"github.com/hostelhub/snackshop-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	BaseHandler
	service services.ImportExportService
}

func NewReportHandler(service services.ImportExportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== REPORT ENDPOINTS =====

// ExportOrders streams an xlsx workbook of orders matching the query filters
func (h *ReportHandler) ExportOrders(c *gin.Context) {
	h.LogRequest(c, "Exporting orders report")

	filters := repositories.OrderFilters{}
	if raw := c.Query("status"); raw != "" {
		status := models.OrderStatus(raw)
		filters.Status = &status
	}
	if raw := c.Query("snack_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			snackID := uint(id)
			filters.SnackID = &snackID
		}
	}
	if raw := c.Query("date_from"); raw != "" {
		if from, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.DateFrom = &from
		}
	}
	if raw := c.Query("date_to"); raw != "" {
		if to, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.DateTo = &to
		}
	}

	f, err := h.service.ExportOrders(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	writeWorkbook(c, f, "orders")
	if err := f.Close(); err != nil {
		h.LogError(c, err, "Failed to close workbook")
	}
}

// ExportInventory streams an xlsx workbook of the full snack inventory
func (h *ReportHandler) ExportInventory(c *gin.Context) {
	h.LogRequest(c, "Exporting inventory report")

	f, err := h.service.ExportInventory(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	writeWorkbook(c, f, "inventory")
	if err := f.Close(); err != nil {
		h.LogError(c, err, "Failed to close workbook")
	}
}

func writeWorkbook(c *gin.Context, f *excelize.File, name string) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	_ = f.Write(c.Writer)
}
