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
	"golang.org/x/crypto/bcrypt"
)

// UserHandler provisions users. Login and token issuance live in the
// identity service; this surface only maintains the user records the
// resolution engine keys on.
type UserHandler struct {
	repo *repository.UserRepository
}

func NewUserHandler(repo *repository.UserRepository) *UserHandler {
	return &UserHandler{repo: repo}
}

// Create provisions a user with an initial password
func (h *UserHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("user", "create")

	var req struct {
		Name           string `json:"name"`
		Email          string `json:"email"`
		Password       string `json:"password"`
		RoleID         uint   `json:"role_id"`
		OrganizationID uint   `json:"organization_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse user creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" || req.RoleID == 0 || req.OrganizationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password, role_id and organization_id are required"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to process password"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	user := model.User{
		Name:           req.Name,
		Email:          req.Email,
		Password:       string(hashed),
		RoleID:         req.RoleID,
		OrganizationID: req.OrganizationID,
	}
	user.CreatedBy = actorFromContext(c)

	if err := h.repo.Create(c.Request().Context(), &user); err != nil {
		log.Error("Failed to create user", zap.String("email", req.Email), zap.Error(err))
		return respondWriteError(c, err)
	}

	log.Info("User created",
		zap.Uint("id", user.ID),
		zap.String("email", user.Email),
		zap.Uint("role_id", user.RoleID),
		zap.Uint("organization_id", user.OrganizationID))
	return c.JSON(http.StatusCreated, user)
}

// List returns all live users
func (h *UserHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	users, err := h.repo.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list users", zap.Error(err))
		return respondWriteError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns a single live user by id
func (h *UserHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	user, err := h.repo.FindByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to get user", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, user)
}

// Delete soft-deletes a user
func (h *UserHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("user", "delete")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	found, err := h.repo.SoftDelete(c.Request().Context(), id, actorFromContext(c))
	if err != nil {
		log.Error("Failed to delete user", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	log.Info("User soft-deleted", zap.Uint("id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

// Restore revives a soft-deleted user unless their email now collides
func (h *UserHandler) Restore(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("user", "restore")

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	user, err := h.repo.Restore(c.Request().Context(), id, actorFromContext(c))
	if err != nil {
		log.Error("Failed to restore user", zap.Uint("id", id), zap.Error(err))
		return respondWriteError(c, err)
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "deleted user not found"})
	}

	log.Info("User restored", zap.Uint("id", id), zap.String("email", user.Email))
	return c.JSON(http.StatusOK, user)
}
