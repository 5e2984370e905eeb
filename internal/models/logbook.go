package models

import "time"

// LogbookEntryType discriminates the three logbook entry variants.
type LogbookEntryType string

const (
	EntryTypeDailyCheck  LogbookEntryType = "daily_check"
	EntryTypeFaultReport LogbookEntryType = "fault_report"
	EntryTypeOperation   LogbookEntryType = "operation"
)

// Valid returns true when the entry type is a supported value.
func (t LogbookEntryType) Valid() bool {
	switch t {
	case EntryTypeDailyCheck, EntryTypeFaultReport, EntryTypeOperation:
		return true
	default:
		return false
	}
}

// CheckResult is the outcome recorded for a single daily-check item.
type CheckResult string

const (
	CheckResultOK         CheckResult = "ok"
	CheckResultDefect     CheckResult = "defect"
	CheckResultNotChecked CheckResult = "not_checked"
)

// Valid returns true when the result is a supported value.
func (r CheckResult) Valid() bool {
	switch r {
	case CheckResultOK, CheckResultDefect, CheckResultNotChecked:
		return true
	default:
		return false
	}
}

// FaultSeverity classifies reported faults and drafted defects.
type FaultSeverity string

const (
	SeverityLow      FaultSeverity = "low"
	SeverityMedium   FaultSeverity = "medium"
	SeverityHigh     FaultSeverity = "high"
	SeverityCritical FaultSeverity = "critical"
)

// Valid returns true when the severity is a supported value.
func (s FaultSeverity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// LogbookEntry is the parent row of the polymorphic equipment ledger.
// Exactly one typed child matches EntryType: DailyCheckItems for daily
// checks, FaultReport for fault reports, Operation for operation records.
// Entries are immutable once created except for fault-report resolution.
type LogbookEntry struct {
	ID          string           `db:"id" json:"id"`
	EquipmentID string           `db:"equipment_id" json:"equipment_id"`
	OperatorID  string           `db:"operator_id" json:"operator_id"`
	EntryType   LogbookEntryType `db:"entry_type" json:"entry_type"`
	EntryDate   time.Time        `db:"entry_date" json:"entry_date"`
	EntryTime   *string          `db:"entry_time" json:"entry_time,omitempty"`
	Shift       *string          `db:"shift" json:"shift,omitempty"`
	Notes       *string          `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`

	DailyCheckItems []DailyCheckItem `json:"daily_check_items,omitempty"`
	FaultReport     *FaultReport     `json:"fault_report,omitempty"`
	Operation       *OperationRecord `json:"operation,omitempty"`
}

// LogbookEntryRecord extends an entry with operator and equipment context
// for list responses.
type LogbookEntryRecord struct {
	LogbookEntry
	OperatorName    string `db:"operator_name" json:"operator_name"`
	EquipmentName   string `db:"equipment_name" json:"equipment_name"`
	EquipmentSerial string `db:"equipment_serial" json:"equipment_serial"`
}

// DailyCheckItem is a single line of a daily-check entry.
type DailyCheckItem struct {
	ID       string      `db:"id" json:"id"`
	EntryID  string      `db:"entry_id" json:"entry_id"`
	Category string      `db:"category" json:"category"`
	ItemName string      `db:"item_name" json:"item_name"`
	Result   CheckResult `db:"result" json:"result"`
	Notes    *string     `db:"notes" json:"notes,omitempty"`
	Position int         `db:"position" json:"position"`
}

// FaultReport is the typed child of a fault_report entry. The resolved*
// fields are the only mutable part, set by the resolve operation.
type FaultReport struct {
	ID               string        `db:"id" json:"id"`
	EntryID          string        `db:"entry_id" json:"entry_id"`
	FaultType        string        `db:"fault_type" json:"fault_type"`
	Severity         FaultSeverity `db:"severity" json:"severity"`
	Title            string        `db:"title" json:"title"`
	Description      string        `db:"description" json:"description"`
	ImmediateAction  *string       `db:"immediate_action" json:"immediate_action,omitempty"`
	EquipmentStopped bool          `db:"equipment_stopped" json:"equipment_stopped"`
	Resolved         bool          `db:"resolved" json:"resolved"`
	ResolvedDate     *time.Time    `db:"resolved_date" json:"resolved_date,omitempty"`
	ResolvedBy       *string       `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolutionNotes  *string       `db:"resolution_notes" json:"resolution_notes,omitempty"`
}

// OperationRecord is the typed child of an operation entry.
type OperationRecord struct {
	ID                     string   `db:"id" json:"id"`
	EntryID                string   `db:"entry_id" json:"entry_id"`
	StartTime              string   `db:"start_time" json:"start_time"`
	EndTime                *string  `db:"end_time" json:"end_time,omitempty"`
	LoadDescription        *string  `db:"load_description" json:"load_description,omitempty"`
	MaxLoadUsed            *float64 `db:"max_load_used" json:"max_load_used,omitempty"`
	CycleCount             *int     `db:"cycle_count" json:"cycle_count,omitempty"`
	UnusualLoad            bool     `db:"unusual_load" json:"unusual_load"`
	UnusualLoadDescription *string  `db:"unusual_load_description" json:"unusual_load_description,omitempty"`
}

// LogbookFilter captures filtering criteria for listing logbook entries.
type LogbookFilter struct {
	EntryType *LogbookEntryType
	Limit     int
	Offset    int
}
