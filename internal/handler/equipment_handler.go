package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liftcheck/crane-records-api/internal/dto"
	"github.com/liftcheck/crane-records-api/internal/models"
	"github.com/liftcheck/crane-records-api/pkg/response"
)

type equipmentService interface {
	List(ctx context.Context, filter models.EquipmentFilter) ([]models.Equipment, int, error)
	Get(ctx context.Context, id string) (*dto.EquipmentDetail, error)
}

// EquipmentHandler exposes read access to equipment and its derived dates.
type EquipmentHandler struct {
	service equipmentService
}

// NewEquipmentHandler builds a new handler.
func NewEquipmentHandler(service equipmentService) *EquipmentHandler {
	return &EquipmentHandler{service: service}
}

// List godoc
// @Summary List equipment
// @Tags Equipment
// @Produce json
// @Param equipment_type query string false "Equipment type filter"
// @Param search query string false "Search by name or serial number"
// @Success 200 {object} response.Envelope
// @Router /equipment [get]
func (h *EquipmentHandler) List(c *gin.Context) {
	filter := models.EquipmentFilter{
		EquipmentType: c.Query("equipment_type"),
		CustomerID:    c.Query("customer_id"),
		Search:        c.Query("search"),
		Page:          queryInt(c, "page", 1),
		PageSize:      queryInt(c, "page_size", 20),
		SortBy:        c.Query("sort_by"),
		SortOrder:     c.Query("sort_order"),
	}
	equipment, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	response.JSON(c, http.StatusOK, equipment, pagination)
}

// Get godoc
// @Summary Get equipment by ID
// @Tags Equipment
// @Produce json
// @Param id path string true "Equipment ID"
// @Success 200 {object} response.Envelope
// @Router /equipment/{id} [get]
func (h *EquipmentHandler) Get(c *gin.Context) {
	equipment, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, equipment, nil)
}
