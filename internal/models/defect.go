package models

import "time"

// DraftDefect is an ephemeral finding derived from a checklist item marked
// defective. Drafts are not persisted on their own; they only survive when
// escalated into a service request or carried into a follow-up revision.
type DraftDefect struct {
	ItemID          string        `json:"item_id"`
	Section         string        `json:"section"`
	ItemName        string        `json:"item_name"`
	Description     string        `json:"description"`
	Severity        FaultSeverity `json:"severity"`
	RequiresService bool          `json:"requires_service"`
}

// EscalationContext identifies where a defect list originated.
type EscalationContext struct {
	EquipmentID   string
	ControlType   string
	SourceEntryID string
}

// EscalationDecision is the outcome of the defect escalation policy.
type EscalationDecision struct {
	ServiceRequestIDs []string `json:"service_request_ids"`
	FollowUpRevision  bool     `json:"follow_up_revision"`
}

// ServiceRequest is a maintenance request opened for a defect that requires
// service. Fulfilment is handled outside this subsystem.
type ServiceRequest struct {
	ID            string        `db:"id" json:"id"`
	EquipmentID   string        `db:"equipment_id" json:"equipment_id"`
	Description   string        `db:"description" json:"description"`
	Severity      FaultSeverity `db:"severity" json:"severity"`
	Critical      bool          `db:"critical" json:"critical"`
	SourceEntryID *string       `db:"source_entry_id" json:"source_entry_id,omitempty"`
	Status        string        `db:"status" json:"status"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}
