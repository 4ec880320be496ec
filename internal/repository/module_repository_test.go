package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saran-softdev/component-library-sub001/internal/access"
	"github.com/saran-softdev/component-library-sub001/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleFindLiveByHref(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModuleRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "modules" WHERE is_deleted = (.+) AND href =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sidebar_display_name", "href", "sort_order"}).
			AddRow(7, "Dashboard", "/dashboard", 1))

	m, err := repo.FindLiveByHref(context.Background(), "/dashboard")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, uint(7), m.ID)
	assert.Equal(t, "/dashboard", m.Href)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModuleFindLiveByHrefMiss(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModuleRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "modules" WHERE is_deleted =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	m, err := repo.FindLiveByHref(context.Background(), "/nowhere")
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModuleCreateDuplicateHref(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModuleRepository(db)

	mock.ExpectQuery(`INSERT INTO "modules"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_modules_href_live"})

	err := repo.Create(context.Background(), &model.Module{
		SidebarDisplayName: "Dashboard",
		Href:               "/dashboard",
	})
	assert.ErrorIs(t, err, access.ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModuleSoftDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModuleRepository(db)

	mock.ExpectExec(`UPDATE "modules" SET (.+) WHERE is_deleted = (.+) AND id =`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.SoftDelete(context.Background(), 7, ptr(uint(99)))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModuleSoftDeleteAlreadyGone(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModuleRepository(db)

	// Deleting a deleted module matches nothing; the live predicate in
	// the update keeps the operation idempotent
	mock.ExpectExec(`UPDATE "modules" SET (.+) WHERE is_deleted = (.+) AND id =`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.SoftDelete(context.Background(), 7, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModuleRestoreConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModuleRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "modules" WHERE is_deleted =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "href", "is_deleted"}).
			AddRow(7, "/dashboard", true))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "modules" WHERE is_deleted = (.+) AND href =`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	m, err := repo.Restore(context.Background(), 7, nil)
	assert.ErrorIs(t, err, access.ErrRestoreConflict)
	assert.Nil(t, m)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModuleRestore(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModuleRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "modules" WHERE is_deleted =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "href", "is_deleted"}).
			AddRow(7, "/dashboard", true))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "modules" WHERE is_deleted = (.+) AND href =`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "modules" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	m, err := repo.Restore(context.Background(), 7, ptr(uint(99)))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.False(t, m.IsDeleted)
	assert.Nil(t, m.DeletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
