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

// MatrixHandler manages access matrices.
type MatrixHandler struct {
	repo       *repository.MatrixRepository
	invalidate func()
}

func NewMatrixHandler(repo *repository.MatrixRepository, invalidate func()) *MatrixHandler {
	return &MatrixHandler{repo: repo, invalidate: invalidate}
}

// MatrixRequest creates a matrix. A nil user_id makes a role-scoped
// RBAC matrix; a set user_id makes a user-scoped ABAC override.
type MatrixRequest struct {
	RoleID          uint               `json:"role_id"`
	UserID          *uint              `json:"user_id"`
	OrganizationIDs []uint             `json:"organization_ids"`
	Permissions     []model.Permission `json:"permissions"`
}

// MatrixUpdateRequest patches the organization list and/or permission
// entries. Identity fields are immutable.
type MatrixUpdateRequest struct {
	OrganizationIDs *[]uint             `json:"organization_ids"`
	Permissions     *[]model.Permission `json:"permissions"`
}

// Create handles matrix creation
func (h *MatrixHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("matrix", "create")

	var req MatrixRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse matrix creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.RoleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role_id is required"})
	}
	if req.UserID != nil && *req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id must be a valid id or absent"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	matrix, err := h.repo.Create(c.Request().Context(), req.RoleID, req.UserID,
		req.OrganizationIDs, req.Permissions, actorFromContext(c))
	if err != nil {
		log.Error("Failed to create matrix",
			zap.Uint("role_id", req.RoleID),
			zap.Error(err))
		return respondWriteError(c, err)
	}

	h.invalidate()
	log.Info("Access matrix created",
		zap.Uint("id", matrix.ID),
		zap.String("matrix_type", matrix.MatrixType),
		zap.Uint("role_id", matrix.RoleID))
	return c.JSON(http.StatusCreated, matrix)
}

// List returns all live matrices
func (h *MatrixHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	matrices, err := h.repo.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list matrices", zap.Error(err))
		return respondWriteError(c, err)
	}
	return c.JSON(http.StatusOK, matrices)
}

// Get returns a single live matrix by id
func (h *MatrixHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid matrix ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	matrix, err := h.repo.FindByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to get matrix", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if matrix == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "matrix not found"})
	}
	return c.JSON(http.StatusOK, matrix)
}

// Update patches a matrix's organizations and/or permissions
func (h *MatrixHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("matrix", "update")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid matrix ID"})
	}

	var req MatrixUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse matrix update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	matrix, err := h.repo.Update(c.Request().Context(), id, repository.MatrixUpdate{
		OrganizationIDs: req.OrganizationIDs,
		Permissions:     req.Permissions,
	}, actorFromContext(c))
	if err != nil {
		log.Error("Failed to update matrix", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if matrix == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "matrix not found"})
	}

	h.invalidate()
	log.Info("Access matrix updated", zap.Uint("id", id))
	return c.JSON(http.StatusOK, matrix)
}

// Delete soft-deletes a matrix, freeing its (user, role) key
func (h *MatrixHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("matrix", "delete")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid matrix ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	found, err := h.repo.SoftDelete(c.Request().Context(), id, actorFromContext(c))
	if err != nil {
		log.Error("Failed to delete matrix", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "matrix not found"})
	}

	h.invalidate()
	log.Info("Access matrix soft-deleted", zap.Uint("id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "matrix deleted"})
}

// Restore revives a soft-deleted matrix unless its key now collides
func (h *MatrixHandler) Restore(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("matrix", "restore")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid matrix ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	matrix, err := h.repo.Restore(c.Request().Context(), id, actorFromContext(c))
	if err != nil {
		log.Error("Failed to restore matrix", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if matrix == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "deleted matrix not found"})
	}

	h.invalidate()
	log.Info("Access matrix restored", zap.Uint("id", id))
	return c.JSON(http.StatusOK, matrix)
}
