package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// RevisionEvaluation is the overall verdict of a revision protocol.
type RevisionEvaluation string

const (
	RevisionPassed            RevisionEvaluation = "passed"
	RevisionPassedWithRemarks RevisionEvaluation = "passed_with_remarks"
	RevisionFailed            RevisionEvaluation = "failed"
)

// Valid returns true when the evaluation is a supported value.
func (e RevisionEvaluation) Valid() bool {
	switch e {
	case RevisionPassed, RevisionPassedWithRemarks, RevisionFailed:
		return true
	default:
		return false
	}
}

// Revision is one formal inspection protocol for a piece of equipment.
//
// The seven structured-data slots (DocumentationCheck through Findings) are
// opaque JSONB documents interpreted by the UI. The data layer round-trips
// them losslessly and never inspects their contents; each slot is
// independently nullable and a slot never submitted stays NULL.
type Revision struct {
	ID                   string             `db:"id" json:"id"`
	EquipmentID          string             `db:"equipment_id" json:"equipment_id"`
	ConfigurationID      *string            `db:"configuration_id" json:"configuration_id,omitempty"`
	TechnicianName       string             `db:"technician_name" json:"technician_name"`
	CertificationNumber  *string            `db:"certification_number" json:"certification_number,omitempty"`
	RevisionDate         time.Time          `db:"revision_date" json:"revision_date"`
	StartDate            *time.Time         `db:"start_date" json:"start_date,omitempty"`
	TestStartDate        *time.Time         `db:"test_start_date" json:"test_start_date,omitempty"`
	TestEndDate          *time.Time         `db:"test_end_date" json:"test_end_date,omitempty"`
	ReportDate           *time.Time         `db:"report_date" json:"report_date,omitempty"`
	HandoverDate         *time.Time         `db:"handover_date" json:"handover_date,omitempty"`
	NextRevisionDate     *time.Time         `db:"next_revision_date" json:"next_revision_date,omitempty"`
	NextInspectionDate   *time.Time         `db:"next_inspection_date" json:"next_inspection_date,omitempty"`
	Evaluation           RevisionEvaluation `db:"evaluation" json:"evaluation"`
	Location             string             `db:"location" json:"location"`
	DocumentationCheck   *types.JSONText    `db:"documentation_check" json:"documentation_check,omitempty"`
	EquipmentCheck       *types.JSONText    `db:"equipment_check" json:"equipment_check,omitempty"`
	FunctionalTest       *types.JSONText    `db:"functional_test" json:"functional_test,omitempty"`
	LoadTest             *types.JSONText    `db:"load_test" json:"load_test,omitempty"`
	MeasuringInstruments *types.JSONText    `db:"measuring_instruments" json:"measuring_instruments,omitempty"`
	TechnicalAssessment  *types.JSONText    `db:"technical_assessment" json:"technical_assessment,omitempty"`
	Findings             *types.JSONText    `db:"findings" json:"findings,omitempty"`
	CreatedAt            time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `db:"updated_at" json:"updated_at"`
}

// RevisionFilter captures filtering criteria for listing revisions.
type RevisionFilter struct {
	EquipmentID string
	Page        int
	PageSize    int
}
