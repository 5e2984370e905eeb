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

func newRevisionRepoMock(t *testing.T) (*RevisionRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sdb := sqlx.NewDb(db, "sqlmock")
	equipment := NewEquipmentRepository(sdb)
	return NewRevisionRepository(sdb, equipment, nil), mock, func() { db.Close() }
}

var revisionRowColumns = []string{
	"id", "equipment_id", "configuration_id", "technician_name", "certification_number",
	"revision_date", "start_date", "test_start_date", "test_end_date", "report_date",
	"handover_date", "next_revision_date", "next_inspection_date", "evaluation", "location",
	"documentation_check", "equipment_check", "functional_test", "load_test",
	"measuring_instruments", "technical_assessment", "findings", "created_at", "updated_at",
}

func revisionRow(id, equipmentID string, revisionDate time.Time, next *time.Time, createdAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(revisionRowColumns).AddRow(
		id, equipmentID, nil, "J. Novak", nil,
		revisionDate, nil, nil, nil, nil,
		nil, next, nil, "passed", "Hall 3",
		nil, nil, nil, nil,
		nil, nil, nil, createdAt, createdAt,
	)
}

func TestRevisionRepositoryCreatePushesDerivedDates(t *testing.T) {
	repo, mock, cleanup := newRevisionRepoMock(t)
	defer cleanup()

	revisionDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	nextDate := time.Date(2027, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO revisions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE equipment SET last_revision_date = $2, next_revision_date = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("eq-1", &revisionDate, &nextDate, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	revision := &models.Revision{
		EquipmentID:      "eq-1",
		TechnicianName:   "J. Novak",
		RevisionDate:     revisionDate,
		NextRevisionDate: &nextDate,
		Evaluation:       models.RevisionPassed,
	}
	require.NoError(t, repo.Create(context.Background(), revision))
	assert.NotEmpty(t, revision.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRepositoryCreateRollsBackOnDateSyncFailure(t *testing.T) {
	repo, mock, cleanup := newRevisionRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO revisions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE equipment SET last_revision_date").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Revision{
		EquipmentID:  "eq-1",
		RevisionDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Evaluation:   models.RevisionPassed,
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRepositoryUpdateLatestRefreshesDates(t *testing.T) {
	repo, mock, cleanup := newRevisionRepoMock(t)
	defer cleanup()

	revisionDate := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT equipment_id FROM revisions WHERE id = $1")).
		WithArgs("rev-1").
		WillReturnRows(sqlmock.NewRows([]string{"equipment_id"}).AddRow("eq-1"))
	mock.ExpectExec("UPDATE revisions SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM revisions WHERE equipment_id = \\$1 ORDER BY revision_date DESC, created_at DESC, id DESC LIMIT 1").
		WithArgs("eq-1").
		WillReturnRows(revisionRow("rev-1", "eq-1", revisionDate, nil, time.Now()))
	mock.ExpectExec("UPDATE equipment SET last_revision_date").
		WithArgs("eq-1", &revisionDate, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.Revision{
		ID:           "rev-1",
		EquipmentID:  "eq-1",
		RevisionDate: revisionDate,
		Evaluation:   models.RevisionPassed,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRepositoryUpdateHistoricalLeavesDatesAlone(t *testing.T) {
	repo, mock, cleanup := newRevisionRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT equipment_id FROM revisions WHERE id = $1")).
		WithArgs("rev-1").
		WillReturnRows(sqlmock.NewRows([]string{"equipment_id"}).AddRow("eq-1"))
	mock.ExpectExec("UPDATE revisions SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// A different revision is the latest, so no equipment write follows.
	mock.ExpectQuery("SELECT (.+) FROM revisions WHERE equipment_id = \\$1 ORDER BY revision_date DESC, created_at DESC, id DESC LIMIT 1").
		WithArgs("eq-1").
		WillReturnRows(revisionRow("rev-9", "eq-1", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), nil, time.Now()))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.Revision{
		ID:           "rev-1",
		EquipmentID:  "eq-1",
		RevisionDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Evaluation:   models.RevisionPassed,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRepositoryUpdateMissing(t *testing.T) {
	repo, mock, cleanup := newRevisionRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT equipment_id FROM revisions WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Revision{
		ID:          "missing",
		EquipmentID: "eq-1",
		Evaluation:  models.RevisionPassed,
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRepositoryUpdateMoveRecomputesFormerOwner(t *testing.T) {
	repo, mock, cleanup := newRevisionRepoMock(t)
	defer cleanup()

	revisionDate := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT equipment_id FROM revisions WHERE id = $1")).
		WithArgs("rev-1").
		WillReturnRows(sqlmock.NewRows([]string{"equipment_id"}).AddRow("eq-1"))
	mock.ExpectExec("UPDATE revisions SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// New owner picks up the moved revision as its latest.
	mock.ExpectQuery("SELECT (.+) FROM revisions WHERE equipment_id = \\$1 ORDER BY revision_date DESC, created_at DESC, id DESC LIMIT 1").
		WithArgs("eq-2").
		WillReturnRows(revisionRow("rev-1", "eq-2", revisionDate, nil, time.Now()))
	mock.ExpectExec("UPDATE equipment SET last_revision_date").
		WithArgs("eq-2", &revisionDate, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Former owner has no revisions left, so its derived dates clear.
	mock.ExpectQuery("SELECT (.+) FROM revisions WHERE equipment_id = \\$1 ORDER BY revision_date DESC, created_at DESC, id DESC LIMIT 1").
		WithArgs("eq-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("UPDATE equipment SET last_revision_date").
		WithArgs("eq-1", nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.Revision{
		ID:           "rev-1",
		EquipmentID:  "eq-2",
		RevisionDate: revisionDate,
		Evaluation:   models.RevisionPassed,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRepositoryDeleteRecomputesFromSurvivors(t *testing.T) {
	repo, mock, cleanup := newRevisionRepoMock(t)
	defer cleanup()

	survivorDate := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT equipment_id FROM revisions WHERE id = $1")).
		WithArgs("rev-2").
		WillReturnRows(sqlmock.NewRows([]string{"equipment_id"}).AddRow("eq-1"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM revisions WHERE id = $1")).
		WithArgs("rev-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM revisions WHERE equipment_id = \\$1 ORDER BY revision_date DESC, created_at DESC, id DESC LIMIT 1").
		WithArgs("eq-1").
		WillReturnRows(revisionRow("rev-1", "eq-1", survivorDate, nil, time.Now()))
	mock.ExpectExec("UPDATE equipment SET last_revision_date").
		WithArgs("eq-1", &survivorDate, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "rev-2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRepositoryDeleteLastClearsDates(t *testing.T) {
	repo, mock, cleanup := newRevisionRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT equipment_id FROM revisions WHERE id = $1")).
		WithArgs("rev-1").
		WillReturnRows(sqlmock.NewRows([]string{"equipment_id"}).AddRow("eq-1"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM revisions WHERE id = $1")).
		WithArgs("rev-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM revisions WHERE equipment_id = \\$1 ORDER BY revision_date DESC, created_at DESC, id DESC LIMIT 1").
		WithArgs("eq-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("UPDATE equipment SET last_revision_date").
		WithArgs("eq-1", nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "rev-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRepositoryDeleteMissing(t *testing.T) {
	repo, mock, cleanup := newRevisionRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT equipment_id FROM revisions WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRepositoryListByEquipment(t *testing.T) {
	repo, mock, cleanup := newRevisionRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM revisions WHERE equipment_id = \\$1 ORDER BY revision_date DESC, created_at DESC, id DESC LIMIT 20 OFFSET 0").
		WithArgs("eq-1").
		WillReturnRows(revisionRow("rev-1", "eq-1", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), nil, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM revisions WHERE equipment_id = $1")).
		WithArgs("eq-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.ListByEquipment(context.Background(), models.RevisionFilter{EquipmentID: "eq-1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type queryObserverStub struct {
	labels []string
}

func (o *queryObserverStub) ObserveDBQuery(label string, _ time.Duration) {
	o.labels = append(o.labels, label)
}

func TestRevisionRepositoryReportsQueryLatency(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	sdb := sqlx.NewDb(db, "sqlmock")
	observer := &queryObserverStub{}
	repo := NewRevisionRepository(sdb, NewEquipmentRepository(sdb), observer)

	revisionDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO revisions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE equipment SET last_revision_date").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), &models.Revision{
		EquipmentID:  "eq-1",
		RevisionDate: revisionDate,
		Evaluation:   models.RevisionPassed,
	}))
	assert.Equal(t, []string{"revision_create"}, observer.labels)
}
