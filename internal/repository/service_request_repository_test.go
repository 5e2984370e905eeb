package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftcheck/crane-records-api/internal/models"
)

func newServiceRequestRepoMock(t *testing.T) (*ServiceRequestRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewServiceRequestRepository(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestServiceRequestRepositoryCreateFillsDefaults(t *testing.T) {
	repo, mock, cleanup := newServiceRequestRepoMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO service_requests").
		WillReturnResult(sqlmock.NewResult(1, 1))

	request := &models.ServiceRequest{
		EquipmentID: "eq-1",
		Description: "Hoist brake does not hold load",
		Severity:    models.SeverityHigh,
		Critical:    true,
	}
	require.NoError(t, repo.Create(context.Background(), request))
	assert.NotEmpty(t, request.ID)
	assert.Equal(t, "open", request.Status)
	assert.False(t, request.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRequestRepositoryListByEquipment(t *testing.T) {
	repo, mock, cleanup := newServiceRequestRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "equipment_id", "description", "severity", "critical", "source_entry_id", "status", "created_at"}).
		AddRow("sr-2", "eq-1", "Warning horn quiet", "medium", false, nil, "open", time.Now()).
		AddRow("sr-1", "eq-1", "Hoist brake does not hold load", "high", true, "entry-1", "open", time.Now().Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, equipment_id, description, severity, critical, source_entry_id, status, created_at FROM service_requests WHERE equipment_id = $1 ORDER BY created_at DESC")).
		WithArgs("eq-1").
		WillReturnRows(rows)

	requests, err := repo.ListByEquipment(context.Background(), "eq-1")
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "sr-2", requests[0].ID)
	require.NotNil(t, requests[1].SourceEntryID)
	assert.Equal(t, "entry-1", *requests[1].SourceEntryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
