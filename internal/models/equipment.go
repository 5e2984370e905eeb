package models

import "time"

// Equipment represents a piece of lifting equipment under inspection.
//
// LastRevisionDate and NextRevisionDate are derived fields: they always
// mirror the revision row with the maximum revision_date for this equipment,
// or are NULL when no revisions exist. They are written exclusively by the
// revision repository, never by clients.
type Equipment struct {
	ID               string     `db:"id" json:"id"`
	SerialNumber     string     `db:"serial_number" json:"serial_number"`
	Name             string     `db:"name" json:"name"`
	EquipmentType    string     `db:"equipment_type" json:"equipment_type"`
	Manufacturer     *string    `db:"manufacturer" json:"manufacturer,omitempty"`
	Model            *string    `db:"model" json:"model,omitempty"`
	YearManufactured *int       `db:"year_manufactured" json:"year_manufactured,omitempty"`
	Location         *string    `db:"location" json:"location,omitempty"`
	CustomerID       *string    `db:"customer_id" json:"customer_id,omitempty"`
	Active           bool       `db:"active" json:"active"`
	LastRevisionDate *time.Time `db:"last_revision_date" json:"last_revision_date,omitempty"`
	NextRevisionDate *time.Time `db:"next_revision_date" json:"next_revision_date,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// EquipmentFilter captures filtering criteria for listing equipment.
type EquipmentFilter struct {
	EquipmentType string
	CustomerID    string
	Active        *bool
	Search        string
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}
