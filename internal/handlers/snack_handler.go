package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/services"
	"github.com/hostelhub/snackshop-service/internal/storage"
	"github.com/hostelhub/snackshop-service/internal/utils"
)

type SnackHandler struct {
	BaseHandler
	service      services.InventoryService
	importExport services.ImportExportService
	storage      *storage.LocalStorage
}

func NewSnackHandler(service services.InventoryService, importExport services.ImportExportService, storage *storage.LocalStorage, logger utils.Logger) *SnackHandler {
	return &SnackHandler{
		BaseHandler:  NewBaseHandler(logger),
		service:      service,
		importExport: importExport,
		storage:      storage,
	}
}

// ===== PUBLIC BROWSE ENDPOINTS =====

// ListSnacks returns the storefront snack listing. Unauthenticated browsers
// see available snacks only; admins can pass all=true to include empty
// shelves.
func (h *SnackHandler) ListSnacks(c *gin.Context) {
	params := models.ListSnacksParams{
		Search:        c.Query("search"),
		AvailableOnly: true,
		SortBy:        c.DefaultQuery("sort_by", "name"),
		SortDir:       c.DefaultQuery("sort_dir", "asc"),
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "0")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("size", "20")); err == nil {
		params.Size = size
	}

	// Full inventory view is an admin concern
	if c.Query("all") == "true" && IsAdminFromContext(c) {
		params.AvailableOnly = false
	}

	resp, err := h.service.List(c.Request.Context(), params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetSnack returns a single snack
func (h *SnackHandler) GetSnack(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	snack, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snack)
}

// ===== ADMIN ENDPOINTS =====

// CreateSnack adds a new snack to the inventory
func (h *SnackHandler) CreateSnack(c *gin.Context) {
	h.LogRequest(c, "Creating snack")

	var req services.CreateSnackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	snack, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snack)
}

// UpdateSnack applies a partial update to a snack
func (h *SnackHandler) UpdateSnack(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating snack", "snack_id", id)

	var req services.UpdateSnackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	snack, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snack)
}

// DeleteSnack removes a snack without pending orders
func (h *SnackHandler) DeleteSnack(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting snack", "snack_id", id)

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "snack deleted"})
}

// UploadImage stores a snack picture and points the snack at it
func (h *SnackHandler) UploadImage(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Uploading snack image", "snack_id", id)

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing image file",
			Details: err.Error(),
		})
		return
	}

	ref, err := h.storage.SaveImage(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to store image",
			Details: err.Error(),
		})
		return
	}

	snack, err := h.service.SetImage(c.Request.Context(), id, ref)
	if err != nil {
		// Orphaned file cleanup; the snack row was never updated
		if removeErr := h.storage.Delete(ref); removeErr != nil {
			h.LogError(c, removeErr, "Failed to remove orphaned upload")
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snack)
}

// ImportSnacks bulk-creates snacks from an uploaded xlsx workbook
func (h *SnackHandler) ImportSnacks(c *gin.Context) {
	h.LogRequest(c, "Importing snacks from workbook")

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing workbook file",
			Details: err.Error(),
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to open upload",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	result, err := h.importExport.ImportSnacks(c.Request.Context(), file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
