package access

import (
	"context"
	"testing"
	"time"

	"github.com/saran-softdev/component-library-sub001/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModuleDirectory struct {
	hrefCalls int
	modules   []model.Module
}

func (d *fakeModuleDirectory) FindLiveByHref(ctx context.Context, href string) (*model.Module, error) {
	d.hrefCalls++
	for i := range d.modules {
		if d.modules[i].Href == href && !d.modules[i].IsDeleted {
			return &d.modules[i], nil
		}
	}
	return nil, nil
}

func (d *fakeModuleDirectory) FindLiveByIDs(ctx context.Context, ids []uint) ([]model.Module, error) {
	byID := make(map[uint]bool, len(ids))
	for _, id := range ids {
		byID[id] = true
	}
	var out []model.Module
	for _, m := range d.modules {
		if byID[m.ID] && !m.IsDeleted {
			out = append(out, m)
		}
	}
	return out, nil
}

func newTestFacade(dir *fakeModuleDirectory, store *fakeMatrixStore, catalog *fakeComponentCatalog, opts Options) *Facade {
	return NewFacade(dir, store, catalog, opts)
}

func TestResolveComponentAccessRequiresPathname(t *testing.T) {
	facade := newTestFacade(&fakeModuleDirectory{}, &fakeMatrixStore{}, &fakeComponentCatalog{}, Options{})

	_, err := facade.ResolveComponentAccess(context.Background(), "", Principal{UserID: 1, RoleID: 2, OrganizationID: 3})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestResolveComponentAccessUnknownPathname(t *testing.T) {
	dir := &fakeModuleDirectory{modules: []model.Module{
		{ID: 7, Href: "/dashboard", SoftDelete: model.SoftDelete{IsDeleted: true}},
	}}
	facade := newTestFacade(dir, &fakeMatrixStore{}, &fakeComponentCatalog{}, Options{})

	// Soft-deleted modules are invisible to pathname lookup
	_, err := facade.ResolveComponentAccess(context.Background(), "/dashboard", Principal{UserID: 1, RoleID: 2, OrganizationID: 3})
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestResolveComponentAccessEndToEnd(t *testing.T) {
	dir := &fakeModuleDirectory{modules: []model.Module{
		{ID: 7, Href: "/dashboard", SidebarDisplayName: "Dashboard"},
	}}
	store := &fakeMatrixStore{
		find: func(q MatrixQuery) (*model.AccessMatrix, error) {
			if q.RoleOnly && q.OrganizationID == 0 {
				return &model.AccessMatrix{
					ID:         42,
					RoleID:     2,
					MatrixType: model.MatrixTypeRBAC,
					Permissions: []model.Permission{{
						ModuleID:     7,
						Access:       model.AccessLevel{Read: true},
						ComponentIDs: []uint{1, 2},
					}},
				}, nil
			}
			return nil, nil
		},
	}
	catalog := &fakeComponentCatalog{components: []model.Component{
		{ID: 1, ComponentName: "RevenueCard", Status: model.ComponentStatusActive},
		{ID: 2, ComponentName: "OccupancyChart", Status: model.ComponentStatusActive, SoftDelete: model.SoftDelete{IsDeleted: true}},
	}}

	facade := newTestFacade(dir, store, catalog, Options{})
	views, err := facade.ResolveComponentAccess(context.Background(), "/dashboard", Principal{UserID: 1, RoleID: 2, OrganizationID: 3})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "RevenueCard", views[0].Name)
}

func TestResolveComponentAccessCachesPerTuple(t *testing.T) {
	var hits, misses int
	dir := &fakeModuleDirectory{modules: []model.Module{{ID: 7, Href: "/dashboard"}}}
	store := &fakeMatrixStore{
		find: func(q MatrixQuery) (*model.AccessMatrix, error) {
			if q.UserID != nil {
				return &model.AccessMatrix{
					ID:          10,
					RoleID:      2,
					UserID:      q.UserID,
					MatrixType:  model.MatrixTypeABAC,
					Permissions: []model.Permission{{ModuleID: 7, ComponentIDs: []uint{}}},
				}, nil
			}
			return nil, nil
		},
	}
	facade := newTestFacade(dir, store, &fakeComponentCatalog{}, Options{
		CacheSize:   8,
		CacheTTL:    time.Minute,
		OnCacheHit:  func(string) { hits++ },
		OnCacheMiss: func(string) { misses++ },
	})
	principal := Principal{UserID: 1, RoleID: 2, OrganizationID: 3}

	first, err := facade.ResolveComponentAccess(context.Background(), "/dashboard", principal)
	require.NoError(t, err)
	second, err := facade.ResolveComponentAccess(context.Background(), "/dashboard", principal)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, dir.hrefCalls)
	assert.Len(t, store.queries, 1)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	// Mutations purge the cache and the next call re-resolves
	facade.Invalidate()
	_, err = facade.ResolveComponentAccess(context.Background(), "/dashboard", principal)
	require.NoError(t, err)
	assert.Equal(t, 2, dir.hrefCalls)
	assert.Equal(t, 2, misses)
}

func TestResolveComponentAccessFailureIsNotCached(t *testing.T) {
	dir := &fakeModuleDirectory{modules: []model.Module{{ID: 7, Href: "/dashboard"}}}
	store := &fakeMatrixStore{}
	facade := newTestFacade(dir, store, &fakeComponentCatalog{}, Options{CacheSize: 8, CacheTTL: time.Minute})
	principal := Principal{UserID: 1, RoleID: 2, OrganizationID: 3}

	_, err := facade.ResolveComponentAccess(context.Background(), "/dashboard", principal)
	assert.ErrorIs(t, err, ErrNoAccessMatrix)

	// The denial was not cached: the stores are consulted again
	_, err = facade.ResolveComponentAccess(context.Background(), "/dashboard", principal)
	assert.ErrorIs(t, err, ErrNoAccessMatrix)
	assert.Len(t, store.queries, 6)
}

func TestResolveSidebarModulesOrdersAndFilters(t *testing.T) {
	dir := &fakeModuleDirectory{modules: []model.Module{
		{ID: 7, Href: "/dashboard", SidebarDisplayName: "Dashboard", SidebarDisplayGroup: "Overview", SortOrder: 2},
		{ID: 8, Href: "/bookings", SidebarDisplayName: "Bookings", SidebarDisplayGroup: "Operations", SortOrder: 1},
		{ID: 9, Href: "/reports", SidebarDisplayName: "Reports", SortOrder: 3, SoftDelete: model.SoftDelete{IsDeleted: true}},
	}}
	store := &fakeMatrixStore{
		find: func(q MatrixQuery) (*model.AccessMatrix, error) {
			if !q.RoleOnly {
				return nil, nil
			}
			return &model.AccessMatrix{
				ID:         42,
				RoleID:     2,
				MatrixType: model.MatrixTypeRBAC,
				Permissions: []model.Permission{
					{ModuleID: 7, Access: model.AccessLevel{Read: true}},
					{ModuleID: 8, Access: model.AccessLevel{Read: true}},
					// Read not granted, so the module stays hidden
					{ModuleID: 10, Access: model.AccessLevel{Create: true}},
					// Granted but soft-deleted, so it is dropped
					{ModuleID: 9, Access: model.AccessLevel{Read: true}},
				},
			}, nil
		},
	}

	facade := newTestFacade(dir, store, &fakeComponentCatalog{}, Options{})
	result, err := facade.ResolveSidebarModules(context.Background(), Principal{UserID: 1, RoleID: 2, OrganizationID: 3})
	require.NoError(t, err)

	require.Len(t, result.Modules, 2)
	assert.Equal(t, "Bookings", result.Modules[0].Name)
	assert.Equal(t, "Dashboard", result.Modules[1].Name)

	assert.Equal(t, uint(42), result.Diagnostics.MatrixID)
	assert.Equal(t, model.MatrixTypeRBAC, result.Diagnostics.MatrixType)
	assert.Equal(t, 4, result.Diagnostics.PermissionCount)
	assert.Equal(t, 2, result.Diagnostics.ModuleCount)
}

func TestResolveSidebarModulesNoReadGrants(t *testing.T) {
	store := &fakeMatrixStore{
		find: func(q MatrixQuery) (*model.AccessMatrix, error) {
			if !q.RoleOnly {
				return nil, nil
			}
			return &model.AccessMatrix{ID: 42, RoleID: 2, MatrixType: model.MatrixTypeRBAC}, nil
		},
	}

	facade := newTestFacade(&fakeModuleDirectory{}, store, &fakeComponentCatalog{}, Options{})
	result, err := facade.ResolveSidebarModules(context.Background(), Principal{UserID: 1, RoleID: 2, OrganizationID: 3})
	require.NoError(t, err)
	assert.Empty(t, result.Modules)
	assert.Zero(t, result.Diagnostics.ModuleCount)
}
