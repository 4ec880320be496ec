package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/saran-softdev/component-library-sub001/internal/access"
	"github.com/saran-softdev/component-library-sub001/internal/middleware"
	"github.com/saran-softdev/component-library-sub001/pkg/logger"
	"github.com/saran-softdev/component-library-sub001/prometheus"
	"go.uber.org/zap"
)

// AccessHandler exposes the two resolution operations of the engine.
type AccessHandler struct {
	facade *access.Facade
}

func NewAccessHandler(facade *access.Facade) *AccessHandler {
	return &AccessHandler{facade: facade}
}

// GetSidebar resolves the sidebar modules for the authenticated
// principal.
func (h *AccessHandler) GetSidebar(c echo.Context) error {
	log := logger.FromContext(c)
	principal := middleware.PrincipalFromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	result, err := h.facade.ResolveSidebarModules(c.Request().Context(), principal)
	if err != nil {
		return respondResolutionError(c, log, "sidebar", principal, err)
	}

	prometheus.RecordResolution("sidebar", "ok")
	log.Info("Sidebar resolved",
		zap.Uint("user_id", principal.UserID),
		zap.Uint("matrix_id", result.Diagnostics.MatrixID),
		zap.String("matrix_type", result.Diagnostics.MatrixType),
		zap.Int("module_count", result.Diagnostics.ModuleCount))

	return c.JSON(http.StatusOK, result)
}

// ComponentAccessRequest carries the pathname whose widgets are being
// resolved.
type ComponentAccessRequest struct {
	Pathname string `json:"pathname"`
}

// ResolveComponentAccess resolves the components the principal may
// render under the module matching the request pathname.
func (h *AccessHandler) ResolveComponentAccess(c echo.Context) error {
	log := logger.FromContext(c)
	principal := middleware.PrincipalFromContext(c)

	var req ComponentAccessRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse component access request", zap.Error(err))
		prometheus.RecordResolution("components", "invalid_argument")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	components, err := h.facade.ResolveComponentAccess(c.Request().Context(), req.Pathname, principal)
	if err != nil {
		return respondResolutionError(c, log, "components", principal, err)
	}

	prometheus.RecordResolution("components", "ok")
	log.Info("Component access resolved",
		zap.Uint("user_id", principal.UserID),
		zap.String("pathname", req.Pathname),
		zap.Int("component_count", len(components)))

	return c.JSON(http.StatusOK, echo.Map{"components": components})
}

// respondResolutionError maps engine errors onto HTTP statuses. Every
// class denies; the UI treats module-not-found, no-matrix, and
// forbidden uniformly while the log line keeps the distinction.
func respondResolutionError(c echo.Context, log *zap.Logger, operation string, p access.Principal, err error) error {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Uint("user_id", p.UserID),
		zap.Uint("role_id", p.RoleID),
		zap.Uint("organization_id", p.OrganizationID),
		zap.Error(err),
	}

	switch {
	case errors.Is(err, access.ErrInvalidArgument):
		log.Warn("Resolution rejected: invalid argument", fields...)
		prometheus.RecordResolution(operation, "invalid_argument")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	case errors.Is(err, access.ErrModuleNotFound):
		log.Warn("Resolution denied: module not found", fields...)
		prometheus.RecordResolution(operation, "module_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no access"})
	case errors.Is(err, access.ErrNoAccessMatrix):
		log.Warn("Resolution denied: no access matrix", fields...)
		prometheus.RecordResolution(operation, "no_matrix")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no access"})
	case errors.Is(err, access.ErrForbidden):
		log.Warn("Resolution denied: no permission entry", fields...)
		prometheus.RecordResolution(operation, "forbidden")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no access"})
	default:
		log.Error("Resolution failed: store unavailable", fields...)
		prometheus.RecordResolution(operation, "store_unavailable")
		prometheus.RecordAccessError("db_error")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
	}
}
