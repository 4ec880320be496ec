package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/saran-softdev/component-library-sub001/internal/access"
	"github.com/saran-softdev/component-library-sub001/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubStores struct {
	module *model.Module
	matrix *model.AccessMatrix
	err    error
}

func (s *stubStores) FindLiveByHref(ctx context.Context, href string) (*model.Module, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.module != nil && s.module.Href == href {
		return s.module, nil
	}
	return nil, nil
}

func (s *stubStores) FindLiveByIDs(ctx context.Context, ids []uint) ([]model.Module, error) {
	if s.module == nil {
		return nil, nil
	}
	return []model.Module{*s.module}, nil
}

func (s *stubStores) FindActiveMatrix(ctx context.Context, q access.MatrixQuery) (*model.AccessMatrix, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.matrix, nil
}

func (s *stubStores) FindActiveByIDs(ctx context.Context, ids []uint) ([]model.Component, error) {
	return []model.Component{{ID: 1, ComponentName: "RevenueCard", Status: model.ComponentStatusActive}}, nil
}

func newAccessContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/access/components", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("logger", zap.NewNop())
	c.Set("user_id", uint(1))
	c.Set("role_id", uint(2))
	c.Set("organization_id", uint(3))
	return c, rec
}

func newAccessHandler(stores *stubStores) *AccessHandler {
	facade := access.NewFacade(stores, stores, stores, access.Options{})
	return NewAccessHandler(facade)
}

func TestResolveComponentAccessOK(t *testing.T) {
	stores := &stubStores{
		module: &model.Module{ID: 7, Href: "/dashboard"},
		matrix: &model.AccessMatrix{
			ID:         42,
			RoleID:     2,
			MatrixType: model.MatrixTypeRBAC,
			Permissions: []model.Permission{
				{ModuleID: 7, Access: model.AccessLevel{Read: true}, ComponentIDs: []uint{1}},
			},
		},
	}
	c, rec := newAccessContext(t, `{"pathname":"/dashboard"}`)

	require.NoError(t, newAccessHandler(stores).ResolveComponentAccess(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "RevenueCard")
}

func TestResolveComponentAccessDenialsShareOneBody(t *testing.T) {
	tests := []struct {
		name   string
		stores *stubStores
		status int
	}{
		{
			"unknown pathname",
			&stubStores{},
			http.StatusNotFound,
		},
		{
			"no matrix for principal",
			&stubStores{module: &model.Module{ID: 7, Href: "/dashboard"}},
			http.StatusNotFound,
		},
		{
			"no permission entry for module",
			&stubStores{
				module: &model.Module{ID: 7, Href: "/dashboard"},
				matrix: &model.AccessMatrix{ID: 42, RoleID: 2, MatrixType: model.MatrixTypeRBAC},
			},
			http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newAccessContext(t, `{"pathname":"/dashboard"}`)
			require.NoError(t, newAccessHandler(tt.stores).ResolveComponentAccess(c))
			assert.Equal(t, tt.status, rec.Code)
			// Denial responses never explain which check failed
			assert.JSONEq(t, `{"error":"no access"}`, rec.Body.String())
		})
	}
}

func TestResolveComponentAccessStoreDown(t *testing.T) {
	stores := &stubStores{err: access.ErrStoreUnavailable}
	c, rec := newAccessContext(t, `{"pathname":"/dashboard"}`)

	require.NoError(t, newAccessHandler(stores).ResolveComponentAccess(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"service unavailable"}`, rec.Body.String())
}

func TestResolveComponentAccessMissingPathname(t *testing.T) {
	c, rec := newAccessContext(t, `{}`)

	require.NoError(t, newAccessHandler(&stubStores{}).ResolveComponentAccess(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request"}`, rec.Body.String())
}

func TestGetSidebarOK(t *testing.T) {
	stores := &stubStores{
		module: &model.Module{ID: 7, Href: "/dashboard", SidebarDisplayName: "Dashboard"},
		matrix: &model.AccessMatrix{
			ID:         42,
			RoleID:     2,
			MatrixType: model.MatrixTypeRBAC,
			Permissions: []model.Permission{
				{ModuleID: 7, Access: model.AccessLevel{Read: true}},
			},
		},
	}
	c, rec := newAccessContext(t, "")

	require.NoError(t, newAccessHandler(stores).GetSidebar(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Dashboard"`)
	assert.Contains(t, rec.Body.String(), `"matrix_id":42`)
}
