package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftcheck/crane-records-api/internal/models"
)

func newLogbookRepoMock(t *testing.T) (*LogbookRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewLogbookRepository(sqlx.NewDb(db, "sqlmock"), nil), mock, func() { db.Close() }
}

func TestLogbookRepositoryCreateDailyCheck(t *testing.T) {
	repo, mock, cleanup := newLogbookRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO logbook_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO daily_check_items").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO daily_check_items").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entry := &models.LogbookEntry{
		EquipmentID: "eq-1",
		OperatorID:  "op-1",
		EntryDate:   time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		DailyCheckItems: []models.DailyCheckItem{
			{Category: "brakes", ItemName: "Hoist brake", Result: models.CheckResultOK},
			{Category: "hooks", ItemName: "Hook latch", Result: models.CheckResultDefect},
		},
	}
	require.NoError(t, repo.CreateDailyCheck(context.Background(), entry))
	assert.Equal(t, models.EntryTypeDailyCheck, entry.EntryType)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, entry.ID, entry.DailyCheckItems[0].EntryID)
	assert.Equal(t, 1, entry.DailyCheckItems[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogbookRepositoryCreateDailyCheckRollsBackOnChildFailure(t *testing.T) {
	repo, mock, cleanup := newLogbookRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO logbook_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO daily_check_items").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	entry := &models.LogbookEntry{
		EquipmentID: "eq-1",
		OperatorID:  "op-1",
		EntryDate:   time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		DailyCheckItems: []models.DailyCheckItem{
			{Category: "brakes", ItemName: "Hoist brake", Result: models.CheckResultOK},
		},
	}
	require.Error(t, repo.CreateDailyCheck(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogbookRepositoryCreateFaultReport(t *testing.T) {
	repo, mock, cleanup := newLogbookRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO logbook_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO fault_reports").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entry := &models.LogbookEntry{
		EquipmentID: "eq-1",
		OperatorID:  "op-1",
		EntryDate:   time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		FaultReport: &models.FaultReport{
			FaultType:   "mechanical",
			Severity:    models.SeverityHigh,
			Title:       "Hoist brake slipping",
			Description: "Brake does not hold nominal load",
		},
	}
	require.NoError(t, repo.CreateFaultReport(context.Background(), entry))
	assert.Equal(t, models.EntryTypeFaultReport, entry.EntryType)
	assert.Equal(t, entry.ID, entry.FaultReport.EntryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogbookRepositoryCreateOperationRecord(t *testing.T) {
	repo, mock, cleanup := newLogbookRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO logbook_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO operation_records").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entry := &models.LogbookEntry{
		EquipmentID: "eq-1",
		OperatorID:  "op-1",
		EntryDate:   time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Operation:   &models.OperationRecord{StartTime: "06:00"},
	}
	require.NoError(t, repo.CreateOperationRecord(context.Background(), entry))
	assert.Equal(t, models.EntryTypeOperation, entry.EntryType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogbookRepositoryResolveFaultReport(t *testing.T) {
	repo, mock, cleanup := newLogbookRepoMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE fault_reports SET resolved = TRUE").
		WithArgs("entry-1", sqlmock.AnyArg(), "technician-1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ResolveFaultReport(context.Background(), "entry-1", "technician-1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogbookRepositoryResolveFaultReportMissing(t *testing.T) {
	repo, mock, cleanup := newLogbookRepoMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE fault_reports SET resolved = TRUE").
		WithArgs("missing", sqlmock.AnyArg(), "technician-1", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ResolveFaultReport(context.Background(), "missing", "technician-1", nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogbookRepositoryListAttachesChildren(t *testing.T) {
	repo, mock, cleanup := newLogbookRepoMock(t)
	defer cleanup()

	entryDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "equipment_id", "operator_id", "entry_type", "entry_date", "entry_time",
		"shift", "notes", "created_at", "operator_name", "equipment_name", "equipment_serial",
	}).
		AddRow("e1", "eq-1", "op-1", "daily_check", entryDate, nil, nil, nil, time.Now(), "A. Svoboda", "Tower crane 7", "TC-7001").
		AddRow("e2", "eq-1", "op-1", "fault_report", entryDate, nil, nil, nil, time.Now(), "A. Svoboda", "Tower crane 7", "TC-7001")

	mock.ExpectQuery("SELECT le.id, le.equipment_id, (.+) FROM logbook_entries le").
		WithArgs("eq-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM logbook_entries le")).
		WithArgs("eq-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT id, entry_id, category, item_name, result, notes, position FROM daily_check_items WHERE entry_id = ANY").
		WillReturnRows(sqlmock.NewRows([]string{"id", "entry_id", "category", "item_name", "result", "notes", "position"}).
			AddRow("i1", "e1", "brakes", "Hoist brake", "ok", nil, 0))
	mock.ExpectQuery("SELECT id, entry_id, fault_type, severity, (.+) FROM fault_reports WHERE entry_id = ANY").
		WillReturnRows(sqlmock.NewRows([]string{"id", "entry_id", "fault_type", "severity", "title", "description", "immediate_action", "equipment_stopped", "resolved", "resolved_date", "resolved_by", "resolution_notes"}).
			AddRow("f1", "e2", "mechanical", "high", "Brake slipping", "Does not hold load", nil, false, false, nil, nil, nil))

	records, total, err := repo.List(context.Background(), "eq-1", models.LogbookFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, records, 2)
	require.Len(t, records[0].DailyCheckItems, 1)
	assert.Equal(t, "Hoist brake", records[0].DailyCheckItems[0].ItemName)
	require.NotNil(t, records[1].FaultReport)
	assert.Equal(t, models.SeverityHigh, records[1].FaultReport.Severity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogbookRepositoryListFiltersByEntryType(t *testing.T) {
	repo, mock, cleanup := newLogbookRepoMock(t)
	defer cleanup()

	entryType := models.EntryTypeOperation
	rows := sqlmock.NewRows([]string{
		"id", "equipment_id", "operator_id", "entry_type", "entry_date", "entry_time",
		"shift", "notes", "created_at", "operator_name", "equipment_name", "equipment_serial",
	})

	mock.ExpectQuery("SELECT le.id, le.equipment_id, (.+) FROM logbook_entries le").
		WithArgs("eq-1", "operation").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM logbook_entries le")).
		WithArgs("eq-1", "operation").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	records, total, err := repo.List(context.Background(), "eq-1", models.LogbookFilter{EntryType: &entryType})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogbookRepositoryEntryExists(t *testing.T) {
	repo, mock, cleanup := newLogbookRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM logbook_entries WHERE id = $1 AND entry_type = $2 LIMIT 1")).
		WithArgs("e1", "daily_check").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM logbook_entries WHERE id = $1 AND entry_type = $2 LIMIT 1")).
		WithArgs("missing", "daily_check").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.EntryExists(context.Background(), "e1", models.EntryTypeDailyCheck)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EntryExists(context.Background(), "missing", models.EntryTypeDailyCheck)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogbookRepositoryCountByEquipment(t *testing.T) {
	repo, mock, cleanup := newLogbookRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM logbook_entries WHERE equipment_id = $1")).
		WithArgs("eq-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	total, err := repo.CountByEquipment(context.Background(), "eq-1")
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
