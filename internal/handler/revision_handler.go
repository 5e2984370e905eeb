package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/liftcheck/crane-records-api/internal/dto"
	"github.com/liftcheck/crane-records-api/internal/models"
	appErrors "github.com/liftcheck/crane-records-api/pkg/errors"
	"github.com/liftcheck/crane-records-api/pkg/response"
)

type revisionService interface {
	List(ctx context.Context, filter models.RevisionFilter) ([]models.Revision, int, error)
	Get(ctx context.Context, id string) (*models.Revision, error)
	Create(ctx context.Context, req dto.RevisionRequest) (*models.Revision, error)
	Update(ctx context.Context, id string, req dto.RevisionRequest) (*models.Revision, error)
	Delete(ctx context.Context, id string) error
	CreateFollowUp(ctx context.Context, req dto.FollowUpRevisionRequest) (*models.Revision, error)
}

// RevisionHandler exposes revision protocol endpoints.
type RevisionHandler struct {
	service revisionService
}

// NewRevisionHandler builds a new handler.
func NewRevisionHandler(service revisionService) *RevisionHandler {
	return &RevisionHandler{service: service}
}

// List godoc
// @Summary List revisions for an equipment
// @Tags Revisions
// @Produce json
// @Param equipment_id query string true "Equipment ID"
// @Success 200 {object} response.Envelope
// @Router /revisions [get]
func (h *RevisionHandler) List(c *gin.Context) {
	filter := models.RevisionFilter{
		EquipmentID: c.Query("equipment_id"),
		Page:        queryInt(c, "page", 1),
		PageSize:    queryInt(c, "page_size", 20),
	}
	revisions, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	response.JSON(c, http.StatusOK, revisions, pagination)
}

// Get godoc
// @Summary Get a revision by ID
// @Tags Revisions
// @Produce json
// @Param id path string true "Revision ID"
// @Success 200 {object} response.Envelope
// @Router /revisions/{id} [get]
func (h *RevisionHandler) Get(c *gin.Context) {
	revision, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, revision, nil)
}

// Create godoc
// @Summary Create a revision protocol
// @Tags Revisions
// @Accept json
// @Produce json
// @Param payload body dto.RevisionRequest true "Revision payload"
// @Success 201 {object} response.Envelope
// @Router /revisions [post]
func (h *RevisionHandler) Create(c *gin.Context) {
	var req dto.RevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid revision payload"))
		return
	}
	revision, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, revision)
}

// Update godoc
// @Summary Update a revision protocol
// @Tags Revisions
// @Accept json
// @Produce json
// @Param id path string true "Revision ID"
// @Param payload body dto.RevisionRequest true "Revision payload"
// @Success 200 {object} response.Envelope
// @Router /revisions/{id} [put]
func (h *RevisionHandler) Update(c *gin.Context) {
	var req dto.RevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid revision payload"))
		return
	}
	revision, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, revision, nil)
}

// Delete godoc
// @Summary Delete a revision protocol
// @Tags Revisions
// @Produce json
// @Param id path string true "Revision ID"
// @Success 204
// @Router /revisions/{id} [delete]
func (h *RevisionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateFollowUp godoc
// @Summary Create a follow-up revision from draft defects
// @Tags Revisions
// @Accept json
// @Produce json
// @Param payload body dto.FollowUpRevisionRequest true "Follow-up payload"
// @Success 201 {object} response.Envelope
// @Router /revisions/follow-up [post]
func (h *RevisionHandler) CreateFollowUp(c *gin.Context) {
	var req dto.FollowUpRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid follow-up payload"))
		return
	}
	revision, err := h.service.CreateFollowUp(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, revision)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
