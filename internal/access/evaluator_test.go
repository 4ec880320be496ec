package access

import (
	"context"
	"testing"

	"github.com/saran-softdev/component-library-sub001/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeComponentCatalog struct {
	calls      int
	components []model.Component
	err        error
}

func (c *fakeComponentCatalog) FindActiveByIDs(ctx context.Context, ids []uint) ([]model.Component, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	// Mimic the repository contract: only active, live components whose
	// ids are in the requested set come back.
	byID := make(map[uint]bool, len(ids))
	for _, id := range ids {
		byID[id] = true
	}
	var out []model.Component
	for _, comp := range c.components {
		if byID[comp.ID] && comp.Status == model.ComponentStatusActive && !comp.IsDeleted {
			out = append(out, comp)
		}
	}
	return out, nil
}

func matrixWithPermissions(perms ...model.Permission) *model.AccessMatrix {
	return &model.AccessMatrix{ID: 1, RoleID: 2, MatrixType: model.MatrixTypeRBAC, Permissions: perms}
}

func TestComponentsForDeniesWithoutEntry(t *testing.T) {
	evaluator := NewEvaluator(&fakeComponentCatalog{})
	matrix := matrixWithPermissions(model.Permission{ModuleID: 7, ComponentIDs: []uint{1}})

	_, err := evaluator.ComponentsFor(context.Background(), matrix, 99)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestComponentsForEmptyGrantIsValid(t *testing.T) {
	catalog := &fakeComponentCatalog{}
	evaluator := NewEvaluator(catalog)
	matrix := matrixWithPermissions(model.Permission{ModuleID: 7, ComponentIDs: []uint{}})

	views, err := evaluator.ComponentsFor(context.Background(), matrix, 7)
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.NotNil(t, views)
	// An empty grant never touches the catalog
	assert.Zero(t, catalog.calls)
}

func TestComponentsForDropsRetiredComponents(t *testing.T) {
	catalog := &fakeComponentCatalog{
		components: []model.Component{
			{ID: 1, ComponentName: "RevenueCard", Description: "Monthly revenue", Status: model.ComponentStatusActive},
			{ID: 2, ComponentName: "OccupancyChart", Status: model.ComponentStatusActive, SoftDelete: model.SoftDelete{IsDeleted: true}},
			{ID: 3, ComponentName: "LegacyPanel", Status: model.ComponentStatusInactive},
		},
	}
	evaluator := NewEvaluator(catalog)
	// Id 4 was granted but the component no longer exists
	matrix := matrixWithPermissions(model.Permission{ModuleID: 7, ComponentIDs: []uint{1, 2, 3, 4}})

	views, err := evaluator.ComponentsFor(context.Background(), matrix, 7)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "RevenueCard", views[0].Name)
	assert.Equal(t, "Monthly revenue", views[0].Description)
	assert.Equal(t, model.ComponentStatusActive, views[0].Status)
}

func TestComponentsForPropagatesCatalogFailure(t *testing.T) {
	catalog := &fakeComponentCatalog{err: ErrStoreUnavailable}
	evaluator := NewEvaluator(catalog)
	matrix := matrixWithPermissions(model.Permission{ModuleID: 7, ComponentIDs: []uint{1}})

	_, err := evaluator.ComponentsFor(context.Background(), matrix, 7)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestPermissionReturnsGrantedFlags(t *testing.T) {
	evaluator := NewEvaluator(&fakeComponentCatalog{})
	matrix := matrixWithPermissions(model.Permission{
		ModuleID: 7,
		Access:   model.AccessLevel{Read: true, Update: true},
	})

	level, err := evaluator.Permission(matrix, 7)
	require.NoError(t, err)
	assert.True(t, level.Read)
	assert.True(t, level.Update)
	assert.False(t, level.Create)
	assert.False(t, level.Delete)

	_, err = evaluator.Permission(matrix, 8)
	assert.ErrorIs(t, err, ErrForbidden)
}
