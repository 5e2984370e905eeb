package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/liftcheck/crane-records-api/internal/models"
	appErrors "github.com/liftcheck/crane-records-api/pkg/errors"
)

// mediumDefectThreshold is the number of simultaneous medium defects that
// triggers a follow-up revision recommendation on its own.
const mediumDefectThreshold = 3

type serviceRequestWriter interface {
	Create(ctx context.Context, request *models.ServiceRequest) error
}

// EscalationService applies the defect escalation policy: open service
// requests for individually service-worthy defects and recommend a follow-up
// revision when the defect picture warrants one. The recommendation is
// user-facing; nothing is created until it is accepted.
type EscalationService struct {
	serviceRequests serviceRequestWriter
	logger          *zap.Logger
}

// NewEscalationService constructs an EscalationService.
func NewEscalationService(serviceRequests serviceRequestWriter, logger *zap.Logger) *EscalationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EscalationService{serviceRequests: serviceRequests, logger: logger}
}

// Escalate processes a draft defect list produced by a checklist evaluation.
func (s *EscalationService) Escalate(ctx context.Context, defects []models.DraftDefect, ectx models.EscalationContext) (*models.EscalationDecision, error) {
	decision := &models.EscalationDecision{}

	mediumCount := 0
	for _, defect := range defects {
		switch defect.Severity {
		case models.SeverityHigh, models.SeverityCritical:
			decision.FollowUpRevision = true
		case models.SeverityMedium:
			mediumCount++
		}

		if !defect.RequiresService {
			continue
		}
		request := &models.ServiceRequest{
			EquipmentID: ectx.EquipmentID,
			Description: fmt.Sprintf("%s: %s", defect.ItemName, defect.Description),
			Severity:    defect.Severity,
			Critical:    defect.Severity == models.SeverityHigh || defect.Severity == models.SeverityCritical,
		}
		if ectx.SourceEntryID != "" {
			sourceID := ectx.SourceEntryID
			request.SourceEntryID = &sourceID
		}
		if err := s.serviceRequests.Create(ctx, request); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create service request")
		}
		decision.ServiceRequestIDs = append(decision.ServiceRequestIDs, request.ID)
		s.logger.Info("service request opened",
			zap.String("equipment_id", ectx.EquipmentID),
			zap.String("service_request_id", request.ID),
			zap.String("severity", string(defect.Severity)),
		)
	}

	if mediumCount >= mediumDefectThreshold {
		decision.FollowUpRevision = true
	}
	return decision, nil
}
