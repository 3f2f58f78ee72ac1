package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rollbook/internal/accounts"
	"rollbook/internal/attendance"
	"rollbook/internal/export"
	"rollbook/internal/observability"
	"rollbook/internal/tenant"
)

func success(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

var (
	badRequest = []error{
		accounts.ErrEmptyUsername,
		accounts.ErrPasswordMismatch,
		accounts.ErrInvalidTenantCode,
		tenant.ErrEmptyCode,
		attendance.ErrEmptyName,
		attendance.ErrEmptySubjectList,
		attendance.ErrInvalidWeekday,
		attendance.ErrInvalidDate,
		attendance.ErrInvalidStatus,
		attendance.ErrEmptyMarks,
		attendance.ErrSubjectNotScheduled,
	}
	conflict = []error{accounts.ErrDuplicateUsername, tenant.ErrDuplicateCode}
	notFound = []error{tenant.ErrCodeNotFound, export.ErrNoRecords}
)

func matches(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// respondErr maps domain errors to statuses. Anything unrecognised is an
// internal error: logged, reported, and hidden from the client.
func respondErr(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case matches(err, badRequest):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, accounts.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error())
	case matches(err, notFound):
		fail(c, http.StatusNotFound, err.Error())
	case matches(err, conflict):
		fail(c, http.StatusConflict, err.Error())
	default:
		log.Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
		observability.CaptureErr(err)
		fail(c, http.StatusInternalServerError, "internal error")
	}
}
