package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftcheck/crane-records-api/internal/models"
	appErrors "github.com/liftcheck/crane-records-api/pkg/errors"
)

type fakeServiceRequestRepo struct {
	created []models.ServiceRequest
	err     error
}

func (f *fakeServiceRequestRepo) Create(ctx context.Context, request *models.ServiceRequest) error {
	if f.err != nil {
		return f.err
	}
	request.ID = fmt.Sprintf("sr-%d", len(f.created)+1)
	f.created = append(f.created, *request)
	return nil
}

func TestEscalationServiceOpensRequestsForServiceWorthyDefects(t *testing.T) {
	repo := &fakeServiceRequestRepo{}
	svc := NewEscalationService(repo, nil)

	defects := []models.DraftDefect{
		{ItemID: "brake-hoist", ItemName: "Hoist brake", Description: "Does not hold load", Severity: models.SeverityHigh, RequiresService: true},
		{ItemID: "horn", ItemName: "Warning horn", Description: "Quiet", Severity: models.SeverityMedium},
	}
	decision, err := svc.Escalate(context.Background(), defects, models.EscalationContext{
		EquipmentID:   "eq-1",
		ControlType:   "daily",
		SourceEntryID: "entry-1",
	})
	require.NoError(t, err)
	assert.True(t, decision.FollowUpRevision)
	assert.Equal(t, []string{"sr-1"}, decision.ServiceRequestIDs)

	require.Len(t, repo.created, 1)
	request := repo.created[0]
	assert.Equal(t, "eq-1", request.EquipmentID)
	assert.Equal(t, "Hoist brake: Does not hold load", request.Description)
	assert.True(t, request.Critical)
	require.NotNil(t, request.SourceEntryID)
	assert.Equal(t, "entry-1", *request.SourceEntryID)
}

func TestEscalationServiceMediumDefectsBelowThreshold(t *testing.T) {
	svc := NewEscalationService(&fakeServiceRequestRepo{}, nil)

	defects := []models.DraftDefect{
		{ItemName: "A", Severity: models.SeverityMedium},
		{ItemName: "B", Severity: models.SeverityMedium},
	}
	decision, err := svc.Escalate(context.Background(), defects, models.EscalationContext{EquipmentID: "eq-1"})
	require.NoError(t, err)
	assert.False(t, decision.FollowUpRevision)
	assert.Empty(t, decision.ServiceRequestIDs)
}

func TestEscalationServiceMediumDefectsAtThreshold(t *testing.T) {
	svc := NewEscalationService(&fakeServiceRequestRepo{}, nil)

	defects := []models.DraftDefect{
		{ItemName: "A", Severity: models.SeverityMedium},
		{ItemName: "B", Severity: models.SeverityMedium},
		{ItemName: "C", Severity: models.SeverityMedium},
	}
	decision, err := svc.Escalate(context.Background(), defects, models.EscalationContext{EquipmentID: "eq-1"})
	require.NoError(t, err)
	assert.True(t, decision.FollowUpRevision)
}

func TestEscalationServiceLowDefectsNoFollowUp(t *testing.T) {
	svc := NewEscalationService(&fakeServiceRequestRepo{}, nil)

	decision, err := svc.Escalate(context.Background(), []models.DraftDefect{
		{ItemName: "A", Severity: models.SeverityLow},
	}, models.EscalationContext{EquipmentID: "eq-1"})
	require.NoError(t, err)
	assert.False(t, decision.FollowUpRevision)
}

func TestEscalationServiceStorageFailure(t *testing.T) {
	svc := NewEscalationService(&fakeServiceRequestRepo{err: errors.New("insert failed")}, nil)

	_, err := svc.Escalate(context.Background(), []models.DraftDefect{
		{ItemName: "Hoist brake", Severity: models.SeverityHigh, RequiresService: true},
	}, models.EscalationContext{EquipmentID: "eq-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStorage.Code, appErrors.FromError(err).Code)
}
