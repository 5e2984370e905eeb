package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/liftcheck/crane-records-api/internal/models"
)

// ChecklistTemplateRepository reads checklist templates. Templates are
// configuration data maintained elsewhere; this subsystem never writes them.
type ChecklistTemplateRepository struct {
	db *sqlx.DB
}

// NewChecklistTemplateRepository constructs a ChecklistTemplateRepository.
func NewChecklistTemplateRepository(db *sqlx.DB) *ChecklistTemplateRepository {
	return &ChecklistTemplateRepository{db: db}
}

type checklistTemplateRow struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	Category      string         `db:"category"`
	EquipmentType string         `db:"equipment_type"`
	Sections      types.JSONText `db:"sections"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// FindByScope fetches the template for a checklist category and equipment
// type, decoding the stored section list. When no template exists for the
// exact equipment type it falls back to the generic scope.
func (r *ChecklistTemplateRepository) FindByScope(ctx context.Context, category, equipmentType string) (*models.ChecklistTemplate, error) {
	row, err := r.fetch(ctx, category, equipmentType)
	if errors.Is(err, sql.ErrNoRows) && equipmentType != models.EquipmentTypeGeneric {
		row, err = r.fetch(ctx, category, models.EquipmentTypeGeneric)
	}
	if err != nil {
		return nil, err
	}

	template := &models.ChecklistTemplate{
		ID:            row.ID,
		Name:          row.Name,
		Category:      row.Category,
		EquipmentType: row.EquipmentType,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if len(row.Sections) > 0 {
		if err := json.Unmarshal(row.Sections, &template.Sections); err != nil {
			return nil, fmt.Errorf("decode template sections: %w", err)
		}
	}
	return template, nil
}

func (r *ChecklistTemplateRepository) fetch(ctx context.Context, category, equipmentType string) (checklistTemplateRow, error) {
	const query = `SELECT id, name, category, equipment_type, sections, created_at, updated_at FROM checklist_templates WHERE category = $1 AND equipment_type = $2 LIMIT 1`
	var row checklistTemplateRow
	err := r.db.GetContext(ctx, &row, query, category, equipmentType)
	return row, err
}
