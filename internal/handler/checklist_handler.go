package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liftcheck/crane-records-api/internal/models"
	appErrors "github.com/liftcheck/crane-records-api/pkg/errors"
	"github.com/liftcheck/crane-records-api/pkg/response"
)

type checklistService interface {
	Template(ctx context.Context, category, equipmentType string) (*models.ChecklistTemplate, error)
}

// ChecklistHandler serves checklist templates to the UI.
type ChecklistHandler struct {
	service checklistService
}

// NewChecklistHandler builds a new handler.
func NewChecklistHandler(service checklistService) *ChecklistHandler {
	return &ChecklistHandler{service: service}
}

// Template godoc
// @Summary Get the checklist template for a control type and equipment type
// @Tags Logbook
// @Produce json
// @Param category query string true "Control category"
// @Param equipment_type query string true "Equipment type"
// @Success 200 {object} response.Envelope
// @Router /logbook/checklist-template [get]
func (h *ChecklistHandler) Template(c *gin.Context) {
	category := c.Query("category")
	equipmentType := c.Query("equipment_type")
	if category == "" || equipmentType == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "category and equipment_type are required"))
		return
	}
	template, err := h.service.Template(c.Request.Context(), category, equipmentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}
