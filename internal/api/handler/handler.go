package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"simlab/internal/service"
	"simlab/internal/validation"
	pkgerrors "simlab/pkg/errors"
	"simlab/pkg/response"
)

// Handler aggregates every module handler
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	LabRoom    *LabRoomHandler
	Course     *CourseHandler
	Schedule   *ScheduleHandler
	Stats      *StatsHandler
	Export     *ExportHandler
	Validation *ValidationHandler
}

// NewHandler wires handlers to services
func NewHandler(svc *service.Service, v *validation.Validator) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User, v),
		LabRoom:    NewLabRoomHandler(svc.LabRoom, v),
		Course:     NewCourseHandler(svc.Course, v),
		Schedule:   NewScheduleHandler(svc.Schedule, v),
		Stats:      NewStatsHandler(svc.Stats),
		Export:     NewExportHandler(svc.Export),
		Validation: NewValidationHandler(v),
	}
}

// bindJSON decodes the body into req and runs field validation. On failure
// the 400 response is already written.
func bindJSON(c *gin.Context, v *validation.Validator, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return false
	}
	if fields := v.Validate(req); !fields.Valid() {
		response.ValidationFailed(c, fields)
		return false
	}
	return true
}

// bindQuery list query parameters
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return false
	}
	return true
}

// pathID reads the :id route parameter; a malformed id answers 400.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(c, 10001, "invalid id")
		return "", false
	}
	return id, true
}

// handleCommonError maps the shared error kinds when a module has no
// dedicated code for err.
func handleCommonError(c *gin.Context, err error) {
	var fields validation.FieldErrors
	switch {
	case errors.As(err, &fields):
		response.ValidationFailed(c, fields)
	case errors.Is(err, pkgerrors.ErrValidation):
		response.BadRequest(c, 10001, err.Error())
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, 10006, err.Error())
	case errors.Is(err, pkgerrors.ErrDuplicateKey):
		response.Conflict(c, 10007, err.Error())
	case errors.Is(err, pkgerrors.ErrDependencyExists):
		response.Conflict(c, 10008, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10009, err.Error())
	default:
		response.InternalError(c)
	}
}
