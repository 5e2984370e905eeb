package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecklistTemplateRepositoryFindByScope(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewChecklistTemplateRepository(sqlx.NewDb(db, "sqlmock"))

	sections := `[{"name":"Brakes","items":[{"id":"brake-hoist","name":"Hoist brake","critical":true}]}]`
	rows := sqlmock.NewRows([]string{"id", "name", "category", "equipment_type", "sections", "created_at", "updated_at"}).
		AddRow("tpl-1", "Daily check - tower crane", "daily", "tower_crane", []byte(sections), time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, category, equipment_type, sections, created_at, updated_at FROM checklist_templates").
		WithArgs("daily", "tower_crane").
		WillReturnRows(rows)

	template, err := repo.FindByScope(context.Background(), "daily", "tower_crane")
	require.NoError(t, err)
	require.Len(t, template.Sections, 1)
	require.Len(t, template.Sections[0].Items, 1)
	item := template.Sections[0].Items[0]
	assert.Equal(t, "brake-hoist", item.ID)
	assert.True(t, item.Critical)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChecklistTemplateRepositoryFindByScopeFallsBackToGeneric(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewChecklistTemplateRepository(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectQuery("SELECT id, name, category, equipment_type, sections, created_at, updated_at FROM checklist_templates").
		WithArgs("daily", "mobile_crane").
		WillReturnError(sql.ErrNoRows)
	rows := sqlmock.NewRows([]string{"id", "name", "category", "equipment_type", "sections", "created_at", "updated_at"}).
		AddRow("tpl-generic", "Daily check - generic", "daily", "generic", []byte("[]"), time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, category, equipment_type, sections, created_at, updated_at FROM checklist_templates").
		WithArgs("daily", "generic").
		WillReturnRows(rows)

	template, err := repo.FindByScope(context.Background(), "daily", "mobile_crane")
	require.NoError(t, err)
	assert.Equal(t, "tpl-generic", template.ID)
	assert.Equal(t, "generic", template.EquipmentType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChecklistTemplateRepositoryFindByScopeMissingEverywhere(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewChecklistTemplateRepository(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectQuery("SELECT id, name, category, equipment_type, sections, created_at, updated_at FROM checklist_templates").
		WithArgs("daily", "mobile_crane").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT id, name, category, equipment_type, sections, created_at, updated_at FROM checklist_templates").
		WithArgs("daily", "generic").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.FindByScope(context.Background(), "daily", "mobile_crane")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChecklistTemplateRepositoryFindByScopeBadSections(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewChecklistTemplateRepository(sqlx.NewDb(db, "sqlmock"))

	rows := sqlmock.NewRows([]string{"id", "name", "category", "equipment_type", "sections", "created_at", "updated_at"}).
		AddRow("tpl-1", "Daily check", "daily", "tower_crane", []byte("{broken"), time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, category, equipment_type, sections, created_at, updated_at FROM checklist_templates").
		WithArgs("daily", "tower_crane").
		WillReturnRows(rows)

	_, err = repo.FindByScope(context.Background(), "daily", "tower_crane")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
