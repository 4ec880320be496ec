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

// ComponentHandler manages the widget catalog.
type ComponentHandler struct {
	repo       *repository.ComponentRepository
	invalidate func()
}

func NewComponentHandler(repo *repository.ComponentRepository, invalidate func()) *ComponentHandler {
	return &ComponentHandler{repo: repo, invalidate: invalidate}
}

// ComponentRequest defines the structure for component creation requests.
type ComponentRequest struct {
	ComponentName string `json:"component_name"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	ModuleID      *uint  `json:"module_id"`
}

// ComponentUpdateRequest is the partial-update body.
type ComponentUpdateRequest struct {
	ComponentName *string `json:"component_name"`
	Description   *string `json:"description"`
	Status        *string `json:"status"`
	ModuleID      *uint   `json:"module_id"`
}

// Create handles component creation
func (h *ComponentHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("component", "create")

	var req ComponentRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse component creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ComponentName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "component_name is required"})
	}
	status := req.Status
	if status == "" {
		status = model.ComponentStatusActive
	}
	if status != model.ComponentStatusActive && status != model.ComponentStatusInactive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be active or inactive"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	component := model.Component{
		ComponentName: req.ComponentName,
		Description:   req.Description,
		Status:        status,
		ModuleID:      req.ModuleID,
	}
	component.CreatedBy = actorFromContext(c)

	if err := h.repo.Create(c.Request().Context(), &component); err != nil {
		log.Error("Failed to create component", zap.String("name", req.ComponentName), zap.Error(err))
		return respondWriteError(c, err)
	}

	h.invalidate()
	log.Info("Component created", zap.Uint("id", component.ID), zap.String("name", component.ComponentName))
	return c.JSON(http.StatusCreated, component)
}

// List returns all live components
func (h *ComponentHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	components, err := h.repo.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list components", zap.Error(err))
		return respondWriteError(c, err)
	}
	return c.JSON(http.StatusOK, components)
}

// ListDeleted returns the soft-deleted set
func (h *ComponentHandler) ListDeleted(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	components, err := h.repo.ListDeleted(c.Request().Context())
	if err != nil {
		log.Error("Failed to list deleted components", zap.Error(err))
		return respondWriteError(c, err)
	}
	return c.JSON(http.StatusOK, components)
}

// Get returns a single live component by id
func (h *ComponentHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid component ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	component, err := h.repo.FindByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to get component", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if component == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "component not found"})
	}
	return c.JSON(http.StatusOK, component)
}

// Update applies a partial update to a component
func (h *ComponentHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("component", "update")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid component ID"})
	}

	var req ComponentUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse component update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Status != nil && *req.Status != model.ComponentStatusActive && *req.Status != model.ComponentStatusInactive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be active or inactive"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	component, err := h.repo.Update(c.Request().Context(), id, repository.ComponentUpdate{
		ComponentName: req.ComponentName,
		Description:   req.Description,
		Status:        req.Status,
		ModuleID:      req.ModuleID,
	}, actorFromContext(c))
	if err != nil {
		log.Error("Failed to update component", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if component == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "component not found"})
	}

	h.invalidate()
	log.Info("Component updated", zap.Uint("id", id))
	return c.JSON(http.StatusOK, component)
}

// Delete soft-deletes a component. Permission entries keep referencing
// it; resolution drops the stale id.
func (h *ComponentHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("component", "delete")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid component ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	found, err := h.repo.SoftDelete(c.Request().Context(), id, actorFromContext(c))
	if err != nil {
		log.Error("Failed to delete component", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "component not found"})
	}

	h.invalidate()
	log.Info("Component soft-deleted", zap.Uint("id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "component deleted"})
}

// Restore revives a soft-deleted component unless its name now
// collides with a live component
func (h *ComponentHandler) Restore(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("component", "restore")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid component ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	component, err := h.repo.Restore(c.Request().Context(), id, actorFromContext(c))
	if err != nil {
		log.Error("Failed to restore component", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if component == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "deleted component not found"})
	}

	h.invalidate()
	log.Info("Component restored", zap.Uint("id", id), zap.String("name", component.ComponentName))
	return c.JSON(http.StatusOK, component)
}

// HardDelete physically removes a component
func (h *ComponentHandler) HardDelete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("component", "hard_delete")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid component ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	found, err := h.repo.HardDelete(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to hard-delete component", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "component not found"})
	}

	h.invalidate()
	log.Info("Component permanently deleted", zap.Uint("id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "component permanently deleted"})
}
