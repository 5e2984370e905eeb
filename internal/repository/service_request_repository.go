package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/liftcheck/crane-records-api/internal/models"
)

// ServiceRequestRepository persists maintenance requests opened by the
// defect escalation policy.
type ServiceRequestRepository struct {
	db *sqlx.DB
}

// NewServiceRequestRepository constructs a ServiceRequestRepository.
func NewServiceRequestRepository(db *sqlx.DB) *ServiceRequestRepository {
	return &ServiceRequestRepository{db: db}
}

// Create inserts a service request.
func (r *ServiceRequestRepository) Create(ctx context.Context, request *models.ServiceRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = "open"
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO service_requests (id, equipment_id, description, severity, critical, source_entry_id, status, created_at)
		VALUES (:id, :equipment_id, :description, :severity, :critical, :source_entry_id, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create service request: %w", err)
	}
	return nil
}

// ListByEquipment returns service requests for an equipment, newest first.
func (r *ServiceRequestRepository) ListByEquipment(ctx context.Context, equipmentID string) ([]models.ServiceRequest, error) {
	const query = `SELECT id, equipment_id, description, severity, critical, source_entry_id, status, created_at FROM service_requests WHERE equipment_id = $1 ORDER BY created_at DESC`
	var requests []models.ServiceRequest
	if err := r.db.SelectContext(ctx, &requests, query, equipmentID); err != nil {
		return nil, fmt.Errorf("list service requests: %w", err)
	}
	return requests, nil
}
