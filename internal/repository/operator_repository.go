package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/liftcheck/crane-records-api/internal/models"
)

// OperatorRepository reads crane operators. Operator CRUD lives outside this
// subsystem; the ledger only needs existence checks and display names.
type OperatorRepository struct {
	db *sqlx.DB
}

// NewOperatorRepository constructs an OperatorRepository.
func NewOperatorRepository(db *sqlx.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

// FindByID fetches an operator by ID.
func (r *OperatorRepository) FindByID(ctx context.Context, id string) (*models.Operator, error) {
	const query = `SELECT id, full_name, license_number, phone, active, created_at, updated_at FROM operators WHERE id = $1`
	var operator models.Operator
	if err := r.db.GetContext(ctx, &operator, query, id); err != nil {
		return nil, err
	}
	return &operator, nil
}

// Exists reports whether an operator with the given ID exists.
func (r *OperatorRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM operators WHERE id = $1 LIMIT 1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check operator: %w", err)
	}
	return true, nil
}
