package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/liftcheck/crane-records-api/internal/models"
)

const equipmentColumns = `id, serial_number, name, equipment_type, manufacturer, model, year_manufactured, location, customer_id, active, last_revision_date, next_revision_date, created_at, updated_at`

// EquipmentRepository manages persistence for equipment rows, including the
// derived revision dates kept in sync by the revision repository.
type EquipmentRepository struct {
	db *sqlx.DB
}

// NewEquipmentRepository constructs an EquipmentRepository.
func NewEquipmentRepository(db *sqlx.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

// List returns equipment matching filters along with total count.
func (r *EquipmentRepository) List(ctx context.Context, filter models.EquipmentFilter) ([]models.Equipment, int, error) {
	base := "FROM equipment WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.EquipmentType != "" {
		conditions = append(conditions, fmt.Sprintf("equipment_type = $%d", len(args)+1))
		args = append(args, filter.EquipmentType)
	}
	if filter.CustomerID != "" {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)+1))
		args = append(args, filter.CustomerID)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(serial_number) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"name":               "name",
		"serial_number":      "serial_number",
		"next_revision_date": "next_revision_date",
		"created_at":         "created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "name"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", equipmentColumns, base, column, order, size, offset)
	var equipment []models.Equipment
	if err := r.db.SelectContext(ctx, &equipment, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list equipment: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count equipment: %w", err)
	}

	return equipment, total, nil
}

// FindByID fetches an equipment row by ID.
func (r *EquipmentRepository) FindByID(ctx context.Context, id string) (*models.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM equipment WHERE id = $1", equipmentColumns)
	var equipment models.Equipment
	if err := r.db.GetContext(ctx, &equipment, query, id); err != nil {
		return nil, err
	}
	return &equipment, nil
}

// Exists reports whether an equipment row with the given ID exists.
func (r *EquipmentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM equipment WHERE id = $1 LIMIT 1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check equipment: %w", err)
	}
	return true, nil
}

// LatestRevision returns the equipment's most recent revision within the
// caller's transaction, or nil when none exist. Latest is defined by maximum
// revision_date; ties resolve to the most recently inserted row so the
// result stays deterministic when two revisions share a date.
func (r *EquipmentRepository) LatestRevision(ctx context.Context, exec sqlx.ExtContext, equipmentID string) (*models.Revision, error) {
	query := fmt.Sprintf(`SELECT %s FROM revisions WHERE equipment_id = $1 ORDER BY revision_date DESC, created_at DESC, id DESC LIMIT 1`, revisionColumns)
	var revision models.Revision
	if err := sqlx.GetContext(ctx, exec, &revision, query, equipmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest revision: %w", err)
	}
	return &revision, nil
}

// SetDerivedDates writes the equipment's derived revision dates on the
// caller's transaction. Passing nil for both clears them.
func (r *EquipmentRepository) SetDerivedDates(ctx context.Context, exec sqlx.ExtContext, id string, last, next *time.Time) error {
	const query = `UPDATE equipment SET last_revision_date = $2, next_revision_date = $3, updated_at = $4 WHERE id = $1`
	if _, err := exec.ExecContext(ctx, query, id, last, next, time.Now().UTC()); err != nil {
		return fmt.Errorf("set derived dates: %w", err)
	}
	return nil
}
