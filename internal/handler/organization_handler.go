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

// OrganizationHandler manages organizations. New organizations are
// optionally attached to the configured default role's RBAC matrix so
// their users resolve a baseline permission set immediately.
type OrganizationHandler struct {
	repo          *repository.OrganizationRepository
	matrices      *repository.MatrixRepository
	defaultRoleID uint
	invalidate    func()
}

func NewOrganizationHandler(repo *repository.OrganizationRepository, matrices *repository.MatrixRepository, defaultRoleID uint, invalidate func()) *OrganizationHandler {
	return &OrganizationHandler{
		repo:          repo,
		matrices:      matrices,
		defaultRoleID: defaultRoleID,
		invalidate:    invalidate,
	}
}

// Create handles organization creation
func (h *OrganizationHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("organization", "create")

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse organization creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	org := model.Organization{
		Name:        req.Name,
		Description: req.Description,
	}
	org.CreatedBy = actorFromContext(c)

	if err := h.repo.Create(c.Request().Context(), &org); err != nil {
		log.Error("Failed to create organization", zap.String("name", req.Name), zap.Error(err))
		return respondWriteError(c, err)
	}

	// Attach the new organization to the default role's RBAC matrix
	// when one is configured
	if h.defaultRoleID != 0 {
		if err := h.matrices.AttachOrganization(c.Request().Context(), h.defaultRoleID, org.ID); err != nil {
			log.Warn("Failed to attach organization to default role matrix",
				zap.Uint("organization_id", org.ID),
				zap.Uint("default_role_id", h.defaultRoleID),
				zap.Error(err))
		} else {
			h.invalidate()
		}
	}

	log.Info("Organization created", zap.Uint("id", org.ID), zap.String("name", org.Name))
	return c.JSON(http.StatusCreated, org)
}

// List returns all live organizations
func (h *OrganizationHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	orgs, err := h.repo.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list organizations", zap.Error(err))
		return respondWriteError(c, err)
	}
	return c.JSON(http.StatusOK, orgs)
}

// Get returns a single live organization by id
func (h *OrganizationHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid organization ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	org, err := h.repo.FindByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to get organization", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if org == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "organization not found"})
	}
	return c.JSON(http.StatusOK, org)
}

// Delete soft-deletes an organization
func (h *OrganizationHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("organization", "delete")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid organization ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	found, err := h.repo.SoftDelete(c.Request().Context(), id, actorFromContext(c))
	if err != nil {
		log.Error("Failed to delete organization", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "organization not found"})
	}

	log.Info("Organization soft-deleted", zap.Uint("id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "organization deleted"})
}

// Restore revives a soft-deleted organization unless its name now
// collides
func (h *OrganizationHandler) Restore(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("organization", "restore")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid organization ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	org, err := h.repo.Restore(c.Request().Context(), id, actorFromContext(c))
	if err != nil {
		log.Error("Failed to restore organization", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if org == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "deleted organization not found"})
	}

	log.Info("Organization restored", zap.Uint("id", id), zap.String("name", org.Name))
	return c.JSON(http.StatusOK, org)
}
