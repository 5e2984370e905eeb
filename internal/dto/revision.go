package dto

import (
	"encoding/json"

	"github.com/liftcheck/crane-records-api/internal/models"
)

// RevisionRequest defines the payload for creating or updating a revision
// protocol. Dates are ISO-8601 date strings. The structured-data slots are
// opaque documents stored as-is; the API never validates their shape.
type RevisionRequest struct {
	EquipmentID         string  `json:"equipment_id" validate:"required"`
	ConfigurationID     *string `json:"configuration_id,omitempty"`
	TechnicianName      string  `json:"technician_name" validate:"required"`
	CertificationNumber *string `json:"certification_number,omitempty"`
	RevisionDate        string  `json:"revision_date" validate:"required"`
	StartDate           *string `json:"start_date,omitempty"`
	TestStartDate       *string `json:"test_start_date,omitempty"`
	TestEndDate         *string `json:"test_end_date,omitempty"`
	ReportDate          *string `json:"report_date,omitempty"`
	HandoverDate        *string `json:"handover_date,omitempty"`
	NextRevisionDate    *string `json:"next_revision_date,omitempty"`
	NextInspectionDate  *string `json:"next_inspection_date,omitempty"`
	Evaluation          string  `json:"evaluation" validate:"required"`
	Location            string  `json:"location" validate:"required"`

	DocumentationCheck   json.RawMessage `json:"documentation_check,omitempty"`
	EquipmentCheck       json.RawMessage `json:"equipment_check,omitempty"`
	FunctionalTest       json.RawMessage `json:"functional_test,omitempty"`
	LoadTest             json.RawMessage `json:"load_test,omitempty"`
	MeasuringInstruments json.RawMessage `json:"measuring_instruments,omitempty"`
	TechnicalAssessment  json.RawMessage `json:"technical_assessment,omitempty"`
	Findings             json.RawMessage `json:"findings,omitempty"`
}

// FollowUpDefect is a draft defect carried into a follow-up revision.
type FollowUpDefect struct {
	ItemID      string `json:"item_id" validate:"required"`
	Section     string `json:"section"`
	ItemName    string `json:"item_name" validate:"required"`
	Description string `json:"description"`
	Severity    string `json:"severity" validate:"required"`
}

// FollowUpRevisionRequest creates a revision pre-populated from the draft
// defects that triggered the follow-up recommendation.
type FollowUpRevisionRequest struct {
	EquipmentID    string           `json:"equipment_id" validate:"required"`
	TechnicianName string           `json:"technician_name" validate:"required"`
	RevisionDate   string           `json:"revision_date" validate:"required"`
	Location       string           `json:"location" validate:"required"`
	SourceEntryID  *string          `json:"source_entry_id,omitempty"`
	Defects        []FollowUpDefect `json:"defects" validate:"required,min=1,dive"`
}

// RevisionListResponse wraps a revision list with its equipment context.
type RevisionListResponse struct {
	Equipment *models.Equipment `json:"equipment,omitempty"`
	Revisions []models.Revision `json:"revisions"`
}
