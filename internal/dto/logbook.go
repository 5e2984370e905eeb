package dto

import "github.com/liftcheck/crane-records-api/internal/models"

// DailyCheckItemRequest is one submitted checklist line of a daily check.
type DailyCheckItemRequest struct {
	ItemID   string  `json:"item_id"`
	Category string  `json:"category" validate:"required"`
	ItemName string  `json:"item_name" validate:"required"`
	Result   string  `json:"result" validate:"required"`
	Notes    *string `json:"notes,omitempty"`
}

// CreateDailyCheckRequest defines the payload for recording a daily check.
// EntryDate defaults to the current date when omitted.
type CreateDailyCheckRequest struct {
	EquipmentID string                  `json:"equipment_id" validate:"required"`
	OperatorID  string                  `json:"operator_id" validate:"required"`
	EntryDate   *string                 `json:"entry_date,omitempty"`
	EntryTime   *string                 `json:"entry_time,omitempty"`
	Shift       *string                 `json:"shift,omitempty"`
	Notes       *string                 `json:"notes,omitempty"`
	ControlType string                  `json:"control_type,omitempty"`
	DailyChecks []DailyCheckItemRequest `json:"daily_checks" validate:"required,min=1,dive"`
}

// CreateFaultReportRequest defines the payload for recording a fault.
type CreateFaultReportRequest struct {
	EquipmentID      string  `json:"equipment_id" validate:"required"`
	OperatorID       string  `json:"operator_id" validate:"required"`
	EntryDate        *string `json:"entry_date,omitempty"`
	EntryTime        *string `json:"entry_time,omitempty"`
	Shift            *string `json:"shift,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	FaultType        string  `json:"fault_type" validate:"required"`
	Severity         string  `json:"severity" validate:"required"`
	Title            string  `json:"title" validate:"required"`
	Description      string  `json:"description" validate:"required"`
	ImmediateAction  *string `json:"immediate_action,omitempty"`
	EquipmentStopped bool    `json:"equipment_stopped"`
}

// CreateOperationRequest defines the payload for recording an operation.
type CreateOperationRequest struct {
	EquipmentID            string   `json:"equipment_id" validate:"required"`
	OperatorID             string   `json:"operator_id" validate:"required"`
	EntryDate              *string  `json:"entry_date,omitempty"`
	EntryTime              *string  `json:"entry_time,omitempty"`
	Shift                  *string  `json:"shift,omitempty"`
	Notes                  *string  `json:"notes,omitempty"`
	StartTime              string   `json:"start_time" validate:"required"`
	EndTime                *string  `json:"end_time,omitempty"`
	LoadDescription        *string  `json:"load_description,omitempty"`
	MaxLoadUsed            *float64 `json:"max_load_used,omitempty"`
	CycleCount             *int     `json:"cycle_count,omitempty"`
	UnusualLoad            bool     `json:"unusual_load"`
	UnusualLoadDescription *string  `json:"unusual_load_description,omitempty"`
}

// ResolveFaultRequest closes out a fault report.
type ResolveFaultRequest struct {
	ResolvedBy      string  `json:"resolved_by" validate:"required"`
	ResolutionNotes *string `json:"resolution_notes,omitempty"`
}

// DailyCheckResponse returns the persisted entry along with the checklist
// evaluation outcome and the escalation decision.
type DailyCheckResponse struct {
	Entry      *models.LogbookEntry        `json:"entry"`
	Evaluation *models.ChecklistEvaluation `json:"evaluation,omitempty"`
	Escalation *models.EscalationDecision  `json:"escalation,omitempty"`
}
