package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/liftcheck/crane-records-api/internal/dto"
	"github.com/liftcheck/crane-records-api/internal/models"
	appErrors "github.com/liftcheck/crane-records-api/pkg/errors"
)

type revisionRepository interface {
	ListByEquipment(ctx context.Context, filter models.RevisionFilter) ([]models.Revision, int, error)
	FindByID(ctx context.Context, id string) (*models.Revision, error)
	Create(ctx context.Context, revision *models.Revision) error
	Update(ctx context.Context, revision *models.Revision) error
	Delete(ctx context.Context, id string) error
}

type equipmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Equipment, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type entryReader interface {
	EntryExists(ctx context.Context, id string, entryType models.LogbookEntryType) (bool, error)
}

// RevisionService manages revision protocols. All reference checks happen
// before any write; the repository keeps the owning equipment's derived
// dates in sync inside the same transaction as the row write.
type RevisionService struct {
	repo      revisionRepository
	equipment equipmentReader
	entries   entryReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRevisionService constructs a RevisionService.
func NewRevisionService(repo revisionRepository, equipment equipmentReader, entries entryReader, validate *validator.Validate, logger *zap.Logger) *RevisionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RevisionService{repo: repo, equipment: equipment, entries: entries, validator: validate, logger: logger}
}

// List returns an equipment's revisions, newest first.
func (s *RevisionService) List(ctx context.Context, filter models.RevisionFilter) ([]models.Revision, int, error) {
	if filter.EquipmentID == "" {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "equipment_id is required")
	}
	revisions, total, err := s.repo.ListByEquipment(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list revisions")
	}
	return revisions, total, nil
}

// Get returns a revision by ID.
func (s *RevisionService) Get(ctx context.Context, id string) (*models.Revision, error) {
	revision, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "revision not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load revision")
	}
	return revision, nil
}

// Create validates and persists a new revision protocol.
func (s *RevisionService) Create(ctx context.Context, req dto.RevisionRequest) (*models.Revision, error) {
	revision, err := s.buildRevision(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, revision); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create revision")
	}
	s.logger.Info("revision created",
		zap.String("revision_id", revision.ID),
		zap.String("equipment_id", revision.EquipmentID),
	)
	return revision, nil
}

// Update rewrites an existing revision protocol in place.
func (s *RevisionService) Update(ctx context.Context, id string, req dto.RevisionRequest) (*models.Revision, error) {
	revision, err := s.buildRevision(ctx, req)
	if err != nil {
		return nil, err
	}
	revision.ID = id
	if err := s.repo.Update(ctx, revision); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "revision not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update revision")
	}
	return revision, nil
}

// Delete removes a revision; the repository recomputes the equipment's
// derived dates from the survivors.
func (s *RevisionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "revision not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete revision")
	}
	return nil
}

// CreateFollowUp builds and persists a revision pre-populated from the draft
// defects that triggered a follow-up recommendation. The defects are
// rendered into the technical-assessment and findings slots, and the
// originating item ids travel along as an opaque reference list.
func (s *RevisionService) CreateFollowUp(ctx context.Context, req dto.FollowUpRevisionRequest) (*models.Revision, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid follow-up revision payload")
	}
	if req.SourceEntryID != nil && *req.SourceEntryID != "" {
		exists, err := s.entries.EntryExists(ctx, *req.SourceEntryID, models.EntryTypeDailyCheck)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to validate source entry reference")
		}
		if !exists {
			return nil, appErrors.Clone(appErrors.ErrInvalidReference, "source logbook entry does not exist")
		}
	}

	lines := make([]string, 0, len(req.Defects))
	itemIDs := make([]string, 0, len(req.Defects))
	evaluation := models.RevisionPassedWithRemarks
	for _, defect := range req.Defects {
		lines = append(lines, fmt.Sprintf("%s (%s): %s", defect.ItemName, defect.Severity, defect.Description))
		itemIDs = append(itemIDs, defect.ItemID)
		severity := models.FaultSeverity(defect.Severity)
		if severity == models.SeverityHigh || severity == models.SeverityCritical {
			evaluation = models.RevisionFailed
		}
	}

	assessment, err := json.Marshal(map[string]interface{}{
		"summary": "follow-up revision triggered by checklist defects",
		"defects": lines,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode technical assessment")
	}
	findings, err := json.Marshal(map[string]interface{}{
		"defects":             lines,
		"source_defect_items": itemIDs,
		"source_entry_id":     req.SourceEntryID,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode findings")
	}

	return s.Create(ctx, dto.RevisionRequest{
		EquipmentID:         req.EquipmentID,
		TechnicianName:      req.TechnicianName,
		RevisionDate:        req.RevisionDate,
		Evaluation:          string(evaluation),
		Location:            req.Location,
		TechnicalAssessment: assessment,
		Findings:            findings,
	})
}

func (s *RevisionService) buildRevision(ctx context.Context, req dto.RevisionRequest) (*models.Revision, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid revision payload")
	}
	evaluation := models.RevisionEvaluation(req.Evaluation)
	if !evaluation.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported evaluation value")
	}

	revisionDate, err := parseDate(req.RevisionDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "revision_date must be an ISO-8601 date")
	}
	dates := map[string]*string{
		"start_date":           req.StartDate,
		"test_start_date":      req.TestStartDate,
		"test_end_date":        req.TestEndDate,
		"report_date":          req.ReportDate,
		"handover_date":        req.HandoverDate,
		"next_revision_date":   req.NextRevisionDate,
		"next_inspection_date": req.NextInspectionDate,
	}
	parsed := map[string]*time.Time{}
	for field, raw := range dates {
		value, err := parseDatePtr(raw)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be an ISO-8601 date", field))
		}
		parsed[field] = value
	}

	exists, err := s.equipment.Exists(ctx, req.EquipmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to validate equipment reference")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrInvalidReference, "equipment does not exist")
	}

	return &models.Revision{
		EquipmentID:          req.EquipmentID,
		ConfigurationID:      req.ConfigurationID,
		TechnicianName:       req.TechnicianName,
		CertificationNumber:  req.CertificationNumber,
		RevisionDate:         revisionDate,
		StartDate:            parsed["start_date"],
		TestStartDate:        parsed["test_start_date"],
		TestEndDate:          parsed["test_end_date"],
		ReportDate:           parsed["report_date"],
		HandoverDate:         parsed["handover_date"],
		NextRevisionDate:     parsed["next_revision_date"],
		NextInspectionDate:   parsed["next_inspection_date"],
		Evaluation:           evaluation,
		Location:             req.Location,
		DocumentationCheck:   jsonSlot(req.DocumentationCheck),
		EquipmentCheck:       jsonSlot(req.EquipmentCheck),
		FunctionalTest:       jsonSlot(req.FunctionalTest),
		LoadTest:             jsonSlot(req.LoadTest),
		MeasuringInstruments: jsonSlot(req.MeasuringInstruments),
		TechnicalAssessment:  jsonSlot(req.TechnicalAssessment),
		Findings:             jsonSlot(req.Findings),
	}, nil
}

// jsonSlot maps an omitted payload slot to nil so it persists as SQL NULL
// rather than an empty document.
func jsonSlot(raw json.RawMessage) *types.JSONText {
	if len(raw) == 0 {
		return nil
	}
	slot := types.JSONText(raw)
	return &slot
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

func parseDatePtr(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
