package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/liftcheck/crane-records-api/internal/models"
)

const revisionColumns = `id, equipment_id, configuration_id, technician_name, certification_number, revision_date, start_date, test_start_date, test_end_date, report_date, handover_date, next_revision_date, next_inspection_date, evaluation, location, documentation_check, equipment_check, functional_test, load_test, measuring_instruments, technical_assessment, findings, created_at, updated_at`

// RevisionRepository manages persistence for revision protocols. Every
// mutation runs in one transaction that also re-reads the sibling revisions
// and pushes the owning equipment's derived dates, so concurrent writers
// never leave the equipment pointing at a stale revision.
type RevisionRepository struct {
	db        *sqlx.DB
	equipment *EquipmentRepository
	observer  QueryObserver
}

// NewRevisionRepository constructs a RevisionRepository.
func NewRevisionRepository(db *sqlx.DB, equipment *EquipmentRepository, observer QueryObserver) *RevisionRepository {
	return &RevisionRepository{db: db, equipment: equipment, observer: observer}
}

// ListByEquipment returns revisions for an equipment, newest first, along
// with the total count.
func (r *RevisionRepository) ListByEquipment(ctx context.Context, filter models.RevisionFilter) ([]models.Revision, int, error) {
	defer observeQuery(r.observer, "revision_list", time.Now())

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM revisions WHERE equipment_id = $1 ORDER BY revision_date DESC, created_at DESC, id DESC LIMIT %d OFFSET %d`, revisionColumns, size, offset)
	var revisions []models.Revision
	if err := r.db.SelectContext(ctx, &revisions, query, filter.EquipmentID); err != nil {
		return nil, 0, fmt.Errorf("list revisions: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM revisions WHERE equipment_id = $1", filter.EquipmentID); err != nil {
		return nil, 0, fmt.Errorf("count revisions: %w", err)
	}
	return revisions, total, nil
}

// FindByID fetches a revision by ID.
func (r *RevisionRepository) FindByID(ctx context.Context, id string) (*models.Revision, error) {
	query := fmt.Sprintf("SELECT %s FROM revisions WHERE id = $1", revisionColumns)
	var revision models.Revision
	if err := r.db.GetContext(ctx, &revision, query, id); err != nil {
		return nil, err
	}
	return &revision, nil
}

// Create inserts a revision and pushes its dates into the owning equipment
// unconditionally: a fresh equipment's only revision is trivially the latest.
func (r *RevisionRepository) Create(ctx context.Context, revision *models.Revision) error {
	defer observeQuery(r.observer, "revision_create", time.Now())

	if revision.ID == "" {
		revision.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if revision.CreatedAt.IsZero() {
		revision.CreatedAt = now
	}
	revision.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create revision: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO revisions (id, equipment_id, configuration_id, technician_name, certification_number, revision_date, start_date, test_start_date, test_end_date, report_date, handover_date, next_revision_date, next_inspection_date, evaluation, location, documentation_check, equipment_check, functional_test, load_test, measuring_instruments, technical_assessment, findings, created_at, updated_at)
		VALUES (:id, :equipment_id, :configuration_id, :technician_name, :certification_number, :revision_date, :start_date, :test_start_date, :test_end_date, :report_date, :handover_date, :next_revision_date, :next_inspection_date, :evaluation, :location, :documentation_check, :equipment_check, :functional_test, :load_test, :measuring_instruments, :technical_assessment, :findings, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, revision); err != nil {
		return fmt.Errorf("create revision: %w", err)
	}

	if err := r.equipment.SetDerivedDates(ctx, tx, revision.EquipmentID, &revision.RevisionDate, revision.NextRevisionDate); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create revision: %w", err)
	}
	committed = true
	return nil
}

// Update rewrites a revision in place. The owning equipment's derived dates
// are refreshed only when the updated row is still the latest for its
// equipment; editing a historical revision leaves them untouched. When the
// update moves the revision to another equipment, the former owner is
// recomputed from its surviving revisions so it never keeps pointing at the
// moved row. Returns sql.ErrNoRows when the revision does not exist.
func (r *RevisionRepository) Update(ctx context.Context, revision *models.Revision) error {
	defer observeQuery(r.observer, "revision_update", time.Now())

	revision.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update revision: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var previousOwner string
	if err := sqlx.GetContext(ctx, tx, &previousOwner, "SELECT equipment_id FROM revisions WHERE id = $1", revision.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("find revision owner: %w", err)
	}

	const query = `UPDATE revisions SET equipment_id = :equipment_id, configuration_id = :configuration_id, technician_name = :technician_name, certification_number = :certification_number, revision_date = :revision_date, start_date = :start_date, test_start_date = :test_start_date, test_end_date = :test_end_date, report_date = :report_date, handover_date = :handover_date, next_revision_date = :next_revision_date, next_inspection_date = :next_inspection_date, evaluation = :evaluation, location = :location, documentation_check = :documentation_check, equipment_check = :equipment_check, functional_test = :functional_test, load_test = :load_test, measuring_instruments = :measuring_instruments, technical_assessment = :technical_assessment, findings = :findings, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, revision); err != nil {
		return fmt.Errorf("update revision: %w", err)
	}

	latest, err := r.equipment.LatestRevision(ctx, tx, revision.EquipmentID)
	if err != nil {
		return err
	}
	if latest != nil && latest.ID == revision.ID {
		if err := r.equipment.SetDerivedDates(ctx, tx, revision.EquipmentID, &latest.RevisionDate, latest.NextRevisionDate); err != nil {
			return err
		}
	}

	if previousOwner != revision.EquipmentID {
		if err := r.recomputeDerivedDates(ctx, tx, previousOwner); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update revision: %w", err)
	}
	committed = true
	return nil
}

// recomputeDerivedDates rebuilds an equipment's derived dates from whatever
// revisions it still owns, clearing them when none remain.
func (r *RevisionRepository) recomputeDerivedDates(ctx context.Context, tx *sqlx.Tx, equipmentID string) error {
	latest, err := r.equipment.LatestRevision(ctx, tx, equipmentID)
	if err != nil {
		return err
	}
	if latest != nil {
		return r.equipment.SetDerivedDates(ctx, tx, equipmentID, &latest.RevisionDate, latest.NextRevisionDate)
	}
	return r.equipment.SetDerivedDates(ctx, tx, equipmentID, nil, nil)
}

// Delete removes a revision and recomputes the owning equipment's derived
// dates from the surviving revisions, clearing them when none remain. The
// recompute runs on every delete regardless of whether the deleted row was
// the latest. Returns sql.ErrNoRows when the revision does not exist.
func (r *RevisionRepository) Delete(ctx context.Context, id string) error {
	defer observeQuery(r.observer, "revision_delete", time.Now())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete revision: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var equipmentID string
	if err := sqlx.GetContext(ctx, tx, &equipmentID, "SELECT equipment_id FROM revisions WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("find revision owner: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM revisions WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete revision: %w", err)
	}

	if err := r.recomputeDerivedDates(ctx, tx, equipmentID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete revision: %w", err)
	}
	committed = true
	return nil
}
