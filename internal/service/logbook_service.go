package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/liftcheck/crane-records-api/internal/dto"
	"github.com/liftcheck/crane-records-api/internal/models"
	appErrors "github.com/liftcheck/crane-records-api/pkg/errors"
	"github.com/liftcheck/crane-records-api/pkg/export"
)

const defaultControlType = "daily"

type logbookRepository interface {
	CreateDailyCheck(ctx context.Context, entry *models.LogbookEntry) error
	CreateFaultReport(ctx context.Context, entry *models.LogbookEntry) error
	CreateOperationRecord(ctx context.Context, entry *models.LogbookEntry) error
	ResolveFaultReport(ctx context.Context, entryID, resolvedBy string, notes *string) error
	FindFaultByEntryID(ctx context.Context, entryID string) (*models.FaultReport, error)
	List(ctx context.Context, equipmentID string, filter models.LogbookFilter) ([]models.LogbookEntryRecord, int, error)
}

type operatorReader interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type checklistEvaluator interface {
	Template(ctx context.Context, category, equipmentType string) (*models.ChecklistTemplate, error)
	Evaluate(template *models.ChecklistTemplate, results models.ChecklistResults) models.ChecklistEvaluation
}

type defectEscalator interface {
	Escalate(ctx context.Context, defects []models.DraftDefect, ectx models.EscalationContext) (*models.EscalationDecision, error)
}

// LogbookService manages the polymorphic equipment ledger. Every create
// checks its references before writing and delegates the parent+child
// insert to a single repository transaction.
type LogbookService struct {
	repo       logbookRepository
	equipment  equipmentReader
	operators  operatorReader
	checklists checklistEvaluator
	escalation defectEscalator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewLogbookService constructs a LogbookService.
func NewLogbookService(repo logbookRepository, equipment equipmentReader, operators operatorReader, checklists checklistEvaluator, escalation defectEscalator, validate *validator.Validate, logger *zap.Logger) *LogbookService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogbookService{
		repo:       repo,
		equipment:  equipment,
		operators:  operators,
		checklists: checklists,
		escalation: escalation,
		validator:  validate,
		logger:     logger,
	}
}

// CreateDailyCheck records a daily check and immediately evaluates the
// submitted items against the equipment's checklist template. Defects found
// by the evaluation run through the escalation policy; the resulting
// follow-up recommendation is returned to the caller, not acted upon.
func (s *LogbookService) CreateDailyCheck(ctx context.Context, req dto.CreateDailyCheckRequest) (*dto.DailyCheckResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid daily check payload")
	}
	for _, item := range req.DailyChecks {
		if !models.CheckResult(item.Result).Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported check result %q", item.Result))
		}
	}

	equipment, err := s.findEquipment(ctx, req.EquipmentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOperator(ctx, req.OperatorID); err != nil {
		return nil, err
	}

	entry, err := s.buildEntry(req.EquipmentID, req.OperatorID, req.EntryDate, req.EntryTime, req.Shift, req.Notes)
	if err != nil {
		return nil, err
	}
	entry.DailyCheckItems = make([]models.DailyCheckItem, 0, len(req.DailyChecks))
	results := models.ChecklistResults{}
	for _, item := range req.DailyChecks {
		entry.DailyCheckItems = append(entry.DailyCheckItems, models.DailyCheckItem{
			Category: item.Category,
			ItemName: item.ItemName,
			Result:   models.CheckResult(item.Result),
			Notes:    item.Notes,
		})
		key := item.ItemID
		if key == "" {
			key = item.ItemName
		}
		results[key] = models.CheckResult(item.Result)
	}

	if err := s.repo.CreateDailyCheck(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create daily check")
	}

	response := &dto.DailyCheckResponse{Entry: entry}

	controlType := req.ControlType
	if controlType == "" {
		controlType = defaultControlType
	}
	template, err := s.checklists.Template(ctx, controlType, equipment.EquipmentType)
	if err != nil {
		// A missing template disables evaluation but never fails the
		// already-persisted entry.
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrNotFound.Code {
			return response, nil
		}
		return nil, err
	}

	evaluation := s.checklists.Evaluate(template, results)
	response.Evaluation = &evaluation

	decision, err := s.escalation.Escalate(ctx, evaluation.Defects, models.EscalationContext{
		EquipmentID:   req.EquipmentID,
		ControlType:   controlType,
		SourceEntryID: entry.ID,
	})
	if err != nil {
		return nil, err
	}
	response.Escalation = decision
	return response, nil
}

// CreateFaultReport records a fault against an equipment.
func (s *LogbookService) CreateFaultReport(ctx context.Context, req dto.CreateFaultReportRequest) (*models.LogbookEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fault report payload")
	}
	if !models.FaultSeverity(req.Severity).Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported severity %q", req.Severity))
	}
	if _, err := s.findEquipment(ctx, req.EquipmentID); err != nil {
		return nil, err
	}
	if err := s.checkOperator(ctx, req.OperatorID); err != nil {
		return nil, err
	}

	entry, err := s.buildEntry(req.EquipmentID, req.OperatorID, req.EntryDate, req.EntryTime, req.Shift, req.Notes)
	if err != nil {
		return nil, err
	}
	entry.FaultReport = &models.FaultReport{
		FaultType:        req.FaultType,
		Severity:         models.FaultSeverity(req.Severity),
		Title:            req.Title,
		Description:      req.Description,
		ImmediateAction:  req.ImmediateAction,
		EquipmentStopped: req.EquipmentStopped,
	}

	if err := s.repo.CreateFaultReport(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create fault report")
	}
	if entry.FaultReport.EquipmentStopped {
		s.logger.Warn("equipment stopped by fault report",
			zap.String("equipment_id", entry.EquipmentID),
			zap.String("entry_id", entry.ID),
		)
	}
	return entry, nil
}

// CreateOperationRecord records an operation against an equipment.
func (s *LogbookService) CreateOperationRecord(ctx context.Context, req dto.CreateOperationRequest) (*models.LogbookEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid operation payload")
	}
	if _, err := s.findEquipment(ctx, req.EquipmentID); err != nil {
		return nil, err
	}
	if err := s.checkOperator(ctx, req.OperatorID); err != nil {
		return nil, err
	}

	entry, err := s.buildEntry(req.EquipmentID, req.OperatorID, req.EntryDate, req.EntryTime, req.Shift, req.Notes)
	if err != nil {
		return nil, err
	}
	entry.Operation = &models.OperationRecord{
		StartTime:              req.StartTime,
		EndTime:                req.EndTime,
		LoadDescription:        req.LoadDescription,
		MaxLoadUsed:            req.MaxLoadUsed,
		CycleCount:             req.CycleCount,
		UnusualLoad:            req.UnusualLoad,
		UnusualLoadDescription: req.UnusualLoadDescription,
	}

	if err := s.repo.CreateOperationRecord(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create operation record")
	}
	return entry, nil
}

// ResolveFaultReport marks a previously reported fault as resolved. Resolving
// an already resolved fault is rejected.
func (s *LogbookService) ResolveFaultReport(ctx context.Context, entryID string, req dto.ResolveFaultRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "resolved_by is required")
	}
	fault, err := s.repo.FindFaultByEntryID(ctx, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "fault report not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load fault report")
	}
	if fault.Resolved {
		return appErrors.Clone(appErrors.ErrValidation, "fault report already resolved")
	}
	if err := s.repo.ResolveFaultReport(ctx, entryID, req.ResolvedBy, req.ResolutionNotes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "fault report not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to resolve fault report")
	}
	return nil
}

// List returns an equipment's ledger entries, newest first.
func (s *LogbookService) List(ctx context.Context, equipmentID string, entryType string, limit, offset int) ([]models.LogbookEntryRecord, int, error) {
	filter := models.LogbookFilter{Limit: limit, Offset: offset}
	if entryType != "" {
		parsed := models.LogbookEntryType(entryType)
		if !parsed.Valid() {
			return nil, 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported entry type %q", entryType))
		}
		filter.EntryType = &parsed
	}
	records, total, err := s.repo.List(ctx, equipmentID, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list logbook entries")
	}
	return records, total, nil
}

// ExportCSV renders an equipment's ledger as CSV.
func (s *LogbookService) ExportCSV(ctx context.Context, equipmentID string, entryType string) ([]byte, error) {
	records, _, err := s.List(ctx, equipmentID, entryType, 200, 0)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"date", "time", "type", "operator", "summary", "notes"},
	}
	for _, record := range records {
		row := map[string]string{
			"date":     record.EntryDate.Format("2006-01-02"),
			"type":     string(record.EntryType),
			"operator": record.OperatorName,
			"summary":  entrySummary(record),
		}
		if record.EntryTime != nil {
			row["time"] = *record.EntryTime
		}
		if record.Notes != nil {
			row["notes"] = *record.Notes
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	exporter := export.NewCSVExporter()
	data, err := exporter.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render logbook export")
	}
	return data, nil
}

func entrySummary(record models.LogbookEntryRecord) string {
	switch record.EntryType {
	case models.EntryTypeDailyCheck:
		defects := 0
		for _, item := range record.DailyCheckItems {
			if item.Result == models.CheckResultDefect {
				defects++
			}
		}
		return fmt.Sprintf("%d items checked, %d defects", len(record.DailyCheckItems), defects)
	case models.EntryTypeFaultReport:
		if record.FaultReport != nil {
			return fmt.Sprintf("[%s] %s", record.FaultReport.Severity, record.FaultReport.Title)
		}
	case models.EntryTypeOperation:
		if record.Operation != nil {
			summary := "operation from " + record.Operation.StartTime
			if record.Operation.CycleCount != nil {
				summary += ", " + strconv.Itoa(*record.Operation.CycleCount) + " cycles"
			}
			return summary
		}
	}
	return ""
}

func (s *LogbookService) buildEntry(equipmentID, operatorID string, entryDate, entryTime, shift, notes *string) (*models.LogbookEntry, error) {
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if entryDate != nil && *entryDate != "" {
		parsed, err := parseDate(*entryDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "entry_date must be an ISO-8601 date")
		}
		date = parsed
	}
	return &models.LogbookEntry{
		EquipmentID: equipmentID,
		OperatorID:  operatorID,
		EntryDate:   date,
		EntryTime:   entryTime,
		Shift:       shift,
		Notes:       notes,
	}, nil
}

func (s *LogbookService) findEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	equipment, err := s.equipment.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidReference, "equipment does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to validate equipment reference")
	}
	return equipment, nil
}

func (s *LogbookService) checkOperator(ctx context.Context, id string) error {
	exists, err := s.operators.Exists(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to validate operator reference")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrInvalidReference, "operator does not exist")
	}
	return nil
}
