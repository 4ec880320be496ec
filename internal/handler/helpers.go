package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/saran-softdev/component-library-sub001/internal/access"
	"github.com/saran-softdev/component-library-sub001/prometheus"
)

// actorFromContext returns the authenticated user id for audit
// stamping, or nil when the request is unauthenticated.
func actorFromContext(c echo.Context) *uint {
	if userID, ok := c.Get("user_id").(uint); ok {
		return &userID
	}
	return nil
}

// idParam parses the :id path parameter.
func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// respondWriteError maps repository write failures onto HTTP statuses.
func respondWriteError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, access.ErrDuplicateKey):
		prometheus.RecordAccessError("duplicate_key")
		return c.JSON(http.StatusConflict, echo.Map{"error": "a live record with this key already exists"})
	case errors.Is(err, access.ErrRestoreConflict):
		prometheus.RecordAccessError("restore_conflict")
		return c.JSON(http.StatusConflict, echo.Map{"error": "restore would collide with a live record"})
	default:
		prometheus.RecordAccessError("db_error")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
	}
}
