package models

import "time"

// Operator is a crane operator recorded against logbook entries.
type Operator struct {
	ID            string    `db:"id" json:"id"`
	FullName      string    `db:"full_name" json:"full_name"`
	LicenseNumber *string   `db:"license_number" json:"license_number,omitempty"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
