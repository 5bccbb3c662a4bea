package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"simlab/internal/dto"
	"simlab/internal/service"
	"simlab/internal/validation"
	"simlab/pkg/response"
)

// CourseHandler course (mata kuliah) endpoints
type CourseHandler struct {
	courseSvc service.CourseService
	validator *validation.Validator
}

// NewCourseHandler creates a CourseHandler
func NewCourseHandler(courseSvc service.CourseService, v *validation.Validator) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc, validator: v}
}

// List paginated courses
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	var req dto.CourseListRequest
	if !bindQuery(c, &req) {
		return
	}

	courses, total, err := h.courseSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OKPage(c, courses, total, req.GetPage(), req.GetPageSize())
}

// Options active courses for select boxes
// GET /api/v1/courses/options
func (h *CourseHandler) Options(c *gin.Context) {
	options, err := h.courseSvc.Options(c.Request.Context())
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, options)
}

// Get one course
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	course, err := h.courseSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// Create new course
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateCourseRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, course)
}

// Update partial course update
// PATCH /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateCourseRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// AssignInstructor sets the course instructor
// POST /api/v1/courses/:id/assign-instructor
func (h *CourseHandler) AssignInstructor(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AssignInstructorRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	course, err := h.courseSvc.AssignInstructor(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// Delete course without schedule entries
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.courseSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 40001, "course not found")
	case errors.Is(err, service.ErrCourseCodeExists):
		response.Conflict(c, 40002, "kode_mk already exists")
	case errors.Is(err, service.ErrCourseHasSchedule):
		response.Conflict(c, 40003, "course has schedule entries")
	case errors.Is(err, service.ErrNotInstructor):
		response.BadRequest(c, 40004, "user is not an active dosen")
	case errors.Is(err, service.ErrLabRoomNotFound):
		response.NotFound(c, 40005, "lab room not found")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 40006, "dosen not found")
	default:
		handleCommonError(c, err)
	}
}
