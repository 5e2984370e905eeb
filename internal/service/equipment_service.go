package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/liftcheck/crane-records-api/internal/dto"
	"github.com/liftcheck/crane-records-api/internal/models"
	appErrors "github.com/liftcheck/crane-records-api/pkg/errors"
)

type equipmentLister interface {
	List(ctx context.Context, filter models.EquipmentFilter) ([]models.Equipment, int, error)
	FindByID(ctx context.Context, id string) (*models.Equipment, error)
}

type logbookCounter interface {
	CountByEquipment(ctx context.Context, equipmentID string) (int, error)
}

type serviceRequestReader interface {
	ListByEquipment(ctx context.Context, equipmentID string) ([]models.ServiceRequest, error)
}

// EquipmentService exposes read access to equipment rows and their derived
// revision dates. Equipment mutation happens outside this subsystem; the
// derived dates are written only by the revision repository.
type EquipmentService struct {
	repo            equipmentLister
	logbook         logbookCounter
	serviceRequests serviceRequestReader
	logger          *zap.Logger
}

// NewEquipmentService constructs an EquipmentService.
func NewEquipmentService(repo equipmentLister, logbook logbookCounter, serviceRequests serviceRequestReader, logger *zap.Logger) *EquipmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EquipmentService{repo: repo, logbook: logbook, serviceRequests: serviceRequests, logger: logger}
}

// List returns equipment matching the filter with total count.
func (s *EquipmentService) List(ctx context.Context, filter models.EquipmentFilter) ([]models.Equipment, int, error) {
	equipment, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list equipment")
	}
	return equipment, total, nil
}

// Get returns one equipment row by ID together with its logbook entry count
// and open service requests.
func (s *EquipmentService) Get(ctx context.Context, id string) (*dto.EquipmentDetail, error) {
	equipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "equipment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load equipment")
	}

	entryCount, err := s.logbook.CountByEquipment(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to count logbook entries")
	}

	requests, err := s.serviceRequests.ListByEquipment(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list service requests")
	}
	if requests == nil {
		requests = []models.ServiceRequest{}
	}

	return &dto.EquipmentDetail{
		Equipment:       equipment,
		LogbookEntries:  entryCount,
		ServiceRequests: requests,
	}, nil
}
