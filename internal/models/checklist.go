package models

import "time"

// EquipmentTypeGeneric scopes a checklist template to every equipment type
// that has no template of its own.
const EquipmentTypeGeneric = "generic"

// ChecklistTemplate is an ordered set of inspection items grouped into
// sections, used to drive a structured control. Templates are configuration
// data: this core reads them but never mutates them.
type ChecklistTemplate struct {
	ID            string             `db:"id" json:"id"`
	Name          string             `db:"name" json:"name"`
	Category      string             `db:"category" json:"category"`
	EquipmentType string             `db:"equipment_type" json:"equipment_type"`
	Sections      []ChecklistSection `json:"sections"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at" json:"updated_at"`
}

// ChecklistSection groups related checklist items, in template order.
type ChecklistSection struct {
	Name  string          `json:"name"`
	Items []ChecklistItem `json:"items"`
}

// ChecklistItem is a single inspectable point. Critical items escalate to
// high-severity defects when marked defective.
type ChecklistItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Critical    bool   `json:"critical"`
}

// ChecklistResults maps item id to the submitted result for that item.
type ChecklistResults map[string]CheckResult

// ChecklistEvaluation is the outcome of evaluating a result map against a
// template: the draft defects in template order plus the overall verdict.
type ChecklistEvaluation struct {
	Verdict Verdict       `json:"verdict"`
	Defects []DraftDefect `json:"defects"`
}

// Verdict is the overall outcome of a checklist evaluation.
type Verdict string

const (
	VerdictPassed            Verdict = "passed"
	VerdictPassedWithRemarks Verdict = "passed_with_remarks"
	VerdictFailed            Verdict = "failed"
)
