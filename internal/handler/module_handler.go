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
	"gorm.io/datatypes"
)

// ModuleHandler manages the sidebar module directory.
type ModuleHandler struct {
	repo       *repository.ModuleRepository
	invalidate func()
}

func NewModuleHandler(repo *repository.ModuleRepository, invalidate func()) *ModuleHandler {
	return &ModuleHandler{repo: repo, invalidate: invalidate}
}

// ModuleRequest defines the structure for module creation requests.
type ModuleRequest struct {
	SidebarDisplayGroup string            `json:"sidebar_display_group"`
	SidebarDisplayName  string            `json:"sidebar_display_name"`
	Href                string            `json:"href"`
	Icon                string            `json:"icon"`
	SortOrder           int               `json:"sort_order"`
	Children            []model.ChildLink `json:"children"`
}

// ModuleUpdateRequest is the partial-update body; absent fields keep
// their current values.
type ModuleUpdateRequest struct {
	SidebarDisplayGroup *string            `json:"sidebar_display_group"`
	SidebarDisplayName  *string            `json:"sidebar_display_name"`
	Href                *string            `json:"href"`
	Icon                *string            `json:"icon"`
	SortOrder           *int               `json:"sort_order"`
	Children            *[]model.ChildLink `json:"children"`
}

// Create handles module creation
func (h *ModuleHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("module", "create")

	var req ModuleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse module creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.SidebarDisplayName == "" || req.Href == "" {
		log.Error("Invalid module data", zap.String("href", req.Href))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sidebar_display_name and href are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	module := model.Module{
		SidebarDisplayGroup: req.SidebarDisplayGroup,
		SidebarDisplayName:  req.SidebarDisplayName,
		Href:                req.Href,
		Icon:                req.Icon,
		SortOrder:           req.SortOrder,
		Children:            datatypes.JSONSlice[model.ChildLink](req.Children),
	}
	module.CreatedBy = actorFromContext(c)

	if err := h.repo.Create(c.Request().Context(), &module); err != nil {
		log.Error("Failed to create module", zap.String("href", req.Href), zap.Error(err))
		return respondWriteError(c, err)
	}

	h.invalidate()
	log.Info("Module created", zap.Uint("id", module.ID), zap.String("href", module.Href))
	return c.JSON(http.StatusCreated, module)
}

// List returns all live modules
func (h *ModuleHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	modules, err := h.repo.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list modules", zap.Error(err))
		return respondWriteError(c, err)
	}
	return c.JSON(http.StatusOK, modules)
}

// ListDeleted returns the soft-deleted set
func (h *ModuleHandler) ListDeleted(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	modules, err := h.repo.ListDeleted(c.Request().Context())
	if err != nil {
		log.Error("Failed to list deleted modules", zap.Error(err))
		return respondWriteError(c, err)
	}
	return c.JSON(http.StatusOK, modules)
}

// Get returns a single live module by id
func (h *ModuleHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid module ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	module, err := h.repo.FindByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to get module", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if module == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "module not found"})
	}
	return c.JSON(http.StatusOK, module)
}

// Update applies a partial update to a module
func (h *ModuleHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("module", "update")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid module ID"})
	}

	var req ModuleUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse module update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	module, err := h.repo.Update(c.Request().Context(), id, repository.ModuleUpdate{
		SidebarDisplayGroup: req.SidebarDisplayGroup,
		SidebarDisplayName:  req.SidebarDisplayName,
		Href:                req.Href,
		Icon:                req.Icon,
		SortOrder:           req.SortOrder,
		Children:            req.Children,
	}, actorFromContext(c))
	if err != nil {
		log.Error("Failed to update module", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if module == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "module not found"})
	}

	h.invalidate()
	log.Info("Module updated", zap.Uint("id", id))
	return c.JSON(http.StatusOK, module)
}

// Delete soft-deletes a module
func (h *ModuleHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("module", "delete")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid module ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	found, err := h.repo.SoftDelete(c.Request().Context(), id, actorFromContext(c))
	if err != nil {
		log.Error("Failed to delete module", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "module not found"})
	}

	h.invalidate()
	log.Info("Module soft-deleted", zap.Uint("id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "module deleted"})
}

// Restore revives a soft-deleted module unless its href now collides
// with a live module
func (h *ModuleHandler) Restore(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("module", "restore")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid module ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	module, err := h.repo.Restore(c.Request().Context(), id, actorFromContext(c))
	if err != nil {
		log.Error("Failed to restore module", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if module == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "deleted module not found"})
	}

	h.invalidate()
	log.Info("Module restored", zap.Uint("id", id), zap.String("href", module.Href))
	return c.JSON(http.StatusOK, module)
}

// HardDelete physically removes a module
func (h *ModuleHandler) HardDelete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("module", "hard_delete")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid module ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	found, err := h.repo.HardDelete(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to hard-delete module", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "module not found"})
	}

	h.invalidate()
	log.Info("Module permanently deleted", zap.Uint("id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "module permanently deleted"})
}
