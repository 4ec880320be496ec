package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/saran-softdev/component-library-sub001/internal/access"
	"github.com/saran-softdev/component-library-sub001/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentFindActiveByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewComponentRepository(db)

	// Live and status filters are both in the query; stale ids simply
	// produce fewer rows
	mock.ExpectQuery(`SELECT (.+) FROM "components" WHERE is_deleted = (.+) AND id IN (.+) AND status =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "component_name", "status"}).
			AddRow(1, "OccupancyChart", model.ComponentStatusActive).
			AddRow(2, "RevenueCard", model.ComponentStatusActive))

	components, err := repo.FindActiveByIDs(context.Background(), []uint{1, 2, 99})
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, "OccupancyChart", components[0].ComponentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComponentFindActiveByIDsStoreDown(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewComponentRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "components"`).
		WillReturnError(assert.AnError)

	_, err := repo.FindActiveByIDs(context.Background(), []uint{1})
	assert.ErrorIs(t, err, access.ErrStoreUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComponentRestoreConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewComponentRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "components" WHERE is_deleted =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "component_name", "is_deleted"}).
			AddRow(5, "RevenueCard", true))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "components" WHERE is_deleted = (.+) AND component_name =`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	c, err := repo.Restore(context.Background(), 5, nil)
	assert.ErrorIs(t, err, access.ErrRestoreConflict)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComponentRestoreMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewComponentRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "components" WHERE is_deleted =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, err := repo.Restore(context.Background(), 5, nil)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}
