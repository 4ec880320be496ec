package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/saran-softdev/component-library-sub001/internal/model"
	"github.com/saran-softdev/component-library-sub001/internal/repository"
	"github.com/saran-softdev/component-library-sub001/pkg/logger"
	"github.com/saran-softdev/component-library-sub001/prometheus"
	"go.uber.org/zap"
)

// RoleHandler manages roles.
type RoleHandler struct {
	repo *repository.RoleRepository
}

func NewRoleHandler(repo *repository.RoleRepository) *RoleHandler {
	return &RoleHandler{repo: repo}
}

// Create handles role creation
func (h *RoleHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("role", "create")

	var req struct {
		RoleName    string `json:"role_name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse role creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.RoleName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role_name is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	role := model.Role{
		RoleName:    req.RoleName,
		Description: req.Description,
	}
	role.CreatedBy = actorFromContext(c)

	if err := h.repo.Create(c.Request().Context(), &role); err != nil {
		log.Error("Failed to create role", zap.String("role_name", req.RoleName), zap.Error(err))
		return respondWriteError(c, err)
	}

	log.Info("Role created", zap.Uint("id", role.ID), zap.String("role_name", role.RoleName))
	return c.JSON(http.StatusCreated, role)
}

// List returns all live roles
func (h *RoleHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	roles, err := h.repo.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list roles", zap.Error(err))
		return respondWriteError(c, err)
	}
	return c.JSON(http.StatusOK, roles)
}

// Get returns a single live role by id
func (h *RoleHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	role, err := h.repo.FindByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to get role", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if role == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
	}
	return c.JSON(http.StatusOK, role)
}

// Delete soft-deletes a role
func (h *RoleHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("role", "delete")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	found, err := h.repo.SoftDelete(c.Request().Context(), id, actorFromContext(c))
	if err != nil {
		log.Error("Failed to delete role", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
	}

	log.Info("Role soft-deleted", zap.Uint("id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "role deleted"})
}

// Restore revives a soft-deleted role unless its name now collides
func (h *RoleHandler) Restore(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("role", "restore")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	role, err := h.repo.Restore(c.Request().Context(), id, actorFromContext(c))
	if err != nil {
		log.Error("Failed to restore role", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if role == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "deleted role not found"})
	}

	log.Info("Role restored", zap.Uint("id", id), zap.String("role_name", role.RoleName))
	return c.JSON(http.StatusOK, role)
}
