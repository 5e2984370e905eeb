package dto

import "github.com/liftcheck/crane-records-api/internal/models"

// EquipmentDetail is the detail-view payload for a single piece of equipment:
// the row itself plus its logbook entry count and service requests.
type EquipmentDetail struct {
	Equipment       *models.Equipment       `json:"equipment"`
	LogbookEntries  int                     `json:"logbook_entries"`
	ServiceRequests []models.ServiceRequest `json:"service_requests"`
}
