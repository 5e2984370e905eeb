package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liftcheck/crane-records-api/internal/dto"
	"github.com/liftcheck/crane-records-api/internal/models"
	appErrors "github.com/liftcheck/crane-records-api/pkg/errors"
	"github.com/liftcheck/crane-records-api/pkg/response"
)

type logbookService interface {
	CreateDailyCheck(ctx context.Context, req dto.CreateDailyCheckRequest) (*dto.DailyCheckResponse, error)
	CreateFaultReport(ctx context.Context, req dto.CreateFaultReportRequest) (*models.LogbookEntry, error)
	CreateOperationRecord(ctx context.Context, req dto.CreateOperationRequest) (*models.LogbookEntry, error)
	ResolveFaultReport(ctx context.Context, entryID string, req dto.ResolveFaultRequest) error
	List(ctx context.Context, equipmentID string, entryType string, limit, offset int) ([]models.LogbookEntryRecord, int, error)
	ExportCSV(ctx context.Context, equipmentID string, entryType string) ([]byte, error)
}

// LogbookHandler exposes the equipment ledger endpoints.
type LogbookHandler struct {
	service logbookService
}

// NewLogbookHandler builds a new handler.
func NewLogbookHandler(service logbookService) *LogbookHandler {
	return &LogbookHandler{service: service}
}

// List godoc
// @Summary List logbook entries for an equipment
// @Tags Logbook
// @Produce json
// @Param equipment_id path string true "Equipment ID"
// @Param entry_type query string false "Entry type filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /logbook/equipment/{equipment_id} [get]
func (h *LogbookHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	records, total, err := h.service.List(c.Request.Context(), c.Param("equipment_id"), c.Query("entry_type"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{"total_count": total, "limit": limit, "offset": offset}
	response.JSON(c, http.StatusOK, records, nil, meta)
}

// CreateDailyCheck godoc
// @Summary Record a daily check
// @Tags Logbook
// @Accept json
// @Produce json
// @Param payload body dto.CreateDailyCheckRequest true "Daily check payload"
// @Success 201 {object} response.Envelope
// @Router /logbook/daily-check [post]
func (h *LogbookHandler) CreateDailyCheck(c *gin.Context) {
	var req dto.CreateDailyCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid daily check payload"))
		return
	}
	h.fillOperator(c, &req.OperatorID)
	result, err := h.service.CreateDailyCheck(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// CreateFaultReport godoc
// @Summary Record a fault report
// @Tags Logbook
// @Accept json
// @Produce json
// @Param payload body dto.CreateFaultReportRequest true "Fault report payload"
// @Success 201 {object} response.Envelope
// @Router /logbook/fault-report [post]
func (h *LogbookHandler) CreateFaultReport(c *gin.Context) {
	var req dto.CreateFaultReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fault report payload"))
		return
	}
	h.fillOperator(c, &req.OperatorID)
	entry, err := h.service.CreateFaultReport(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// CreateOperationRecord godoc
// @Summary Record an operation
// @Tags Logbook
// @Accept json
// @Produce json
// @Param payload body dto.CreateOperationRequest true "Operation payload"
// @Success 201 {object} response.Envelope
// @Router /logbook/operation [post]
func (h *LogbookHandler) CreateOperationRecord(c *gin.Context) {
	var req dto.CreateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid operation payload"))
		return
	}
	h.fillOperator(c, &req.OperatorID)
	entry, err := h.service.CreateOperationRecord(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// ResolveFaultReport godoc
// @Summary Resolve a fault report
// @Tags Logbook
// @Accept json
// @Produce json
// @Param id path string true "Fault report entry ID"
// @Param payload body dto.ResolveFaultRequest true "Resolution payload"
// @Success 200 {object} response.Envelope
// @Router /logbook/fault-report/{id}/resolve [put]
func (h *LogbookHandler) ResolveFaultReport(c *gin.Context) {
	var req dto.ResolveFaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid resolution payload"))
		return
	}
	if err := h.service.ResolveFaultReport(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"resolved": true}, nil)
}

// Export godoc
// @Summary Export an equipment's logbook as CSV
// @Tags Logbook
// @Produce text/csv
// @Param equipment_id path string true "Equipment ID"
// @Param entry_type query string false "Entry type filter"
// @Success 200 {string} string "CSV content"
// @Router /logbook/equipment/{equipment_id}/export [get]
func (h *LogbookHandler) Export(c *gin.Context) {
	data, err := h.service.ExportCSV(c.Request.Context(), c.Param("equipment_id"), c.Query("entry_type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("logbook-%s.csv", c.Param("equipment_id"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// fillOperator substitutes the authenticated user's operator identity when
// the payload omits operator_id. There is no default operator: when neither
// is present the service rejects the request with a validation error.
func (h *LogbookHandler) fillOperator(c *gin.Context, operatorID *string) {
	if *operatorID != "" {
		return
	}
	if claims := claimsFromContext(c); claims != nil && claims.OperatorID != "" {
		*operatorID = claims.OperatorID
	}
}
