package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/liftcheck/crane-records-api/internal/models"
)

// LogbookRepository persists the polymorphic equipment ledger. Each create
// spans the parent entry insert and its typed child insert in a single
// transaction; a failing child rolls back the parent so no orphan entries
// ever become visible.
type LogbookRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewLogbookRepository constructs a LogbookRepository.
func NewLogbookRepository(db *sqlx.DB, observer QueryObserver) *LogbookRepository {
	return &LogbookRepository{db: db, observer: observer}
}

func (r *LogbookRepository) insertEntry(ctx context.Context, tx *sqlx.Tx, entry *models.LogbookEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO logbook_entries (id, equipment_id, operator_id, entry_type, entry_date, entry_time, shift, notes, created_at)
		VALUES (:id, :equipment_id, :operator_id, :entry_type, :entry_date, :entry_time, :shift, :notes, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert logbook entry: %w", err)
	}
	return nil
}

// CreateDailyCheck stores a daily_check entry with its check items.
func (r *LogbookRepository) CreateDailyCheck(ctx context.Context, entry *models.LogbookEntry) error {
	defer observeQuery(r.observer, "logbook_daily_check", time.Now())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin daily check: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	entry.EntryType = models.EntryTypeDailyCheck
	if err := r.insertEntry(ctx, tx, entry); err != nil {
		return err
	}

	const query = `INSERT INTO daily_check_items (id, entry_id, category, item_name, result, notes, position)
		VALUES (:id, :entry_id, :category, :item_name, :result, :notes, :position)`
	for i := range entry.DailyCheckItems {
		item := &entry.DailyCheckItems[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.EntryID = entry.ID
		item.Position = i
		if _, err := tx.NamedExecContext(ctx, query, item); err != nil {
			return fmt.Errorf("insert check item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit daily check: %w", err)
	}
	committed = true
	return nil
}

// CreateFaultReport stores a fault_report entry with its fault child row.
func (r *LogbookRepository) CreateFaultReport(ctx context.Context, entry *models.LogbookEntry) error {
	defer observeQuery(r.observer, "logbook_fault_report", time.Now())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin fault report: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	entry.EntryType = models.EntryTypeFaultReport
	if err := r.insertEntry(ctx, tx, entry); err != nil {
		return err
	}

	fault := entry.FaultReport
	if fault.ID == "" {
		fault.ID = uuid.NewString()
	}
	fault.EntryID = entry.ID
	const query = `INSERT INTO fault_reports (id, entry_id, fault_type, severity, title, description, immediate_action, equipment_stopped, resolved, resolved_date, resolved_by, resolution_notes)
		VALUES (:id, :entry_id, :fault_type, :severity, :title, :description, :immediate_action, :equipment_stopped, :resolved, :resolved_date, :resolved_by, :resolution_notes)`
	if _, err := tx.NamedExecContext(ctx, query, fault); err != nil {
		return fmt.Errorf("insert fault report: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fault report: %w", err)
	}
	committed = true
	return nil
}

// CreateOperationRecord stores an operation entry with its operation child.
func (r *LogbookRepository) CreateOperationRecord(ctx context.Context, entry *models.LogbookEntry) error {
	defer observeQuery(r.observer, "logbook_operation", time.Now())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin operation record: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	entry.EntryType = models.EntryTypeOperation
	if err := r.insertEntry(ctx, tx, entry); err != nil {
		return err
	}

	op := entry.Operation
	if op.ID == "" {
		op.ID = uuid.NewString()
	}
	op.EntryID = entry.ID
	const query = `INSERT INTO operation_records (id, entry_id, start_time, end_time, load_description, max_load_used, cycle_count, unusual_load, unusual_load_description)
		VALUES (:id, :entry_id, :start_time, :end_time, :load_description, :max_load_used, :cycle_count, :unusual_load, :unusual_load_description)`
	if _, err := tx.NamedExecContext(ctx, query, op); err != nil {
		return fmt.Errorf("insert operation record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit operation record: %w", err)
	}
	committed = true
	return nil
}

// ResolveFaultReport marks the fault report owned by the given entry as
// resolved. Returns sql.ErrNoRows when no fault report exists for the entry.
func (r *LogbookRepository) ResolveFaultReport(ctx context.Context, entryID, resolvedBy string, notes *string) error {
	const query = `UPDATE fault_reports SET resolved = TRUE, resolved_date = $2, resolved_by = $3, resolution_notes = $4 WHERE entry_id = $1`
	result, err := r.db.ExecContext(ctx, query, entryID, time.Now().UTC(), resolvedBy, notes)
	if err != nil {
		return fmt.Errorf("resolve fault report: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve fault report result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindFaultByEntryID fetches the fault child of a fault_report entry.
func (r *LogbookRepository) FindFaultByEntryID(ctx context.Context, entryID string) (*models.FaultReport, error) {
	const query = `SELECT id, entry_id, fault_type, severity, title, description, immediate_action, equipment_stopped, resolved, resolved_date, resolved_by, resolution_notes FROM fault_reports WHERE entry_id = $1`
	var fault models.FaultReport
	if err := r.db.GetContext(ctx, &fault, query, entryID); err != nil {
		return nil, err
	}
	return &fault, nil
}

// List returns logbook entries for an equipment, newest first by entry date
// and time, with operator and equipment context plus the typed child of each
// entry. EntryType narrows to one variant; limit/offset paginate.
func (r *LogbookRepository) List(ctx context.Context, equipmentID string, filter models.LogbookFilter) ([]models.LogbookEntryRecord, int, error) {
	defer observeQuery(r.observer, "logbook_list", time.Now())

	base := `FROM logbook_entries le
JOIN operators o ON o.id = le.operator_id
JOIN equipment eq ON eq.id = le.equipment_id`
	where := []string{"le.equipment_id = $1"}
	args := []interface{}{equipmentID}
	if filter.EntryType != nil {
		where = append(where, fmt.Sprintf("le.entry_type = $%d", len(args)+1))
		args = append(args, *filter.EntryType)
	}
	whereClause := strings.Join(where, " AND ")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT le.id, le.equipment_id, le.operator_id, le.entry_type, le.entry_date, le.entry_time, le.shift, le.notes, le.created_at,
        o.full_name AS operator_name, eq.name AS equipment_name, eq.serial_number AS equipment_serial
        %s WHERE %s
        ORDER BY le.entry_date DESC, le.entry_time DESC NULLS LAST, le.created_at DESC
        LIMIT %d OFFSET %d`, base, whereClause, limit, offset)

	var records []models.LogbookEntryRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list logbook entries: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count logbook entries: %w", err)
	}

	if err := r.attachChildren(ctx, records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// CountByEquipment returns the number of ledger entries for an equipment.
func (r *LogbookRepository) CountByEquipment(ctx context.Context, equipmentID string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM logbook_entries WHERE equipment_id = $1", equipmentID); err != nil {
		return 0, fmt.Errorf("count logbook entries: %w", err)
	}
	return total, nil
}

func (r *LogbookRepository) attachChildren(ctx context.Context, records []models.LogbookEntryRecord) error {
	byType := map[models.LogbookEntryType][]string{}
	index := map[string]*models.LogbookEntryRecord{}
	for i := range records {
		rec := &records[i]
		byType[rec.EntryType] = append(byType[rec.EntryType], rec.ID)
		index[rec.ID] = rec
	}

	if ids := byType[models.EntryTypeDailyCheck]; len(ids) > 0 {
		var items []models.DailyCheckItem
		const query = `SELECT id, entry_id, category, item_name, result, notes, position FROM daily_check_items WHERE entry_id = ANY($1) ORDER BY entry_id, position`
		if err := r.db.SelectContext(ctx, &items, query, pq.Array(ids)); err != nil {
			return fmt.Errorf("load check items: %w", err)
		}
		for _, item := range items {
			rec := index[item.EntryID]
			rec.DailyCheckItems = append(rec.DailyCheckItems, item)
		}
	}

	if ids := byType[models.EntryTypeFaultReport]; len(ids) > 0 {
		var faults []models.FaultReport
		const query = `SELECT id, entry_id, fault_type, severity, title, description, immediate_action, equipment_stopped, resolved, resolved_date, resolved_by, resolution_notes FROM fault_reports WHERE entry_id = ANY($1)`
		if err := r.db.SelectContext(ctx, &faults, query, pq.Array(ids)); err != nil {
			return fmt.Errorf("load fault reports: %w", err)
		}
		for i := range faults {
			index[faults[i].EntryID].FaultReport = &faults[i]
		}
	}

	if ids := byType[models.EntryTypeOperation]; len(ids) > 0 {
		var ops []models.OperationRecord
		const query = `SELECT id, entry_id, start_time, end_time, load_description, max_load_used, cycle_count, unusual_load, unusual_load_description FROM operation_records WHERE entry_id = ANY($1)`
		if err := r.db.SelectContext(ctx, &ops, query, pq.Array(ids)); err != nil {
			return fmt.Errorf("load operation records: %w", err)
		}
		for i := range ops {
			index[ops[i].EntryID].Operation = &ops[i]
		}
	}
	return nil
}

// EntryExists reports whether a logbook entry of the given type exists.
func (r *LogbookRepository) EntryExists(ctx context.Context, id string, entryType models.LogbookEntryType) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM logbook_entries WHERE id = $1 AND entry_type = $2 LIMIT 1", id, entryType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check logbook entry: %w", err)
	}
	return true, nil
}
