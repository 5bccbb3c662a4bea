package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"simlab/internal/dto"
	"simlab/internal/service"
	"simlab/internal/validation"
	pkgerrors "simlab/pkg/errors"
	"simlab/pkg/response"
)

// ScheduleHandler schedule entry (jadwal praktikum) endpoints
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
	validator   *validation.Validator
}

// NewScheduleHandler creates a ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService, v *validation.Validator) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc, validator: v}
}

// List paginated schedule entries; own-only roles see their own entries
// GET /api/v1/schedule-entries
func (h *ScheduleHandler) List(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var req dto.ScheduleEntryListRequest
	if !bindQuery(c, &req) {
		return
	}

	entries, total, err := h.scheduleSvc.List(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OKPage(c, entries, total, req.GetPage(), req.GetPageSize())
}

// Get one schedule entry
// GET /api/v1/schedule-entries/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	entry, err := h.scheduleSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, entry)
}

// Create books a lab room slot
// POST /api/v1/schedule-entries
func (h *ScheduleHandler) Create(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var req dto.CreateScheduleEntryRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	entry, err := h.scheduleSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, entry)
}

// Update partial update, re-checking the slot when it moves
// PATCH /api/v1/schedule-entries/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateScheduleEntryRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	entry, err := h.scheduleSvc.Update(c.Request.Context(), id, &req, caller)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, entry)
}

// Delete schedule entry
// DELETE /api/v1/schedule-entries/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.scheduleSvc.Delete(c.Request.Context(), id, caller); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Availability tests a proposed slot against the room calendar
// POST /api/v1/schedule-entries/availability
func (h *ScheduleHandler) Availability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	result, err := h.scheduleSvc.CheckAvailability(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// Stats status counters, scoped like List
// GET /api/v1/schedule-entries/stats
func (h *ScheduleHandler) Stats(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	stats, err := h.scheduleSvc.Stats(c.Request.Context(), caller)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, stats)
}

func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	var conflict *service.RoomConflictError
	switch {
	case errors.As(err, &conflict):
		details := conflict.Conflicts
		if details == nil {
			details = []dto.ScheduleConflict{}
		}
		response.ErrorWithDetails(c, http.StatusConflict, 60002, conflict.Error(), details)
	case errors.Is(err, service.ErrScheduleEntryNotFound):
		response.NotFound(c, 60001, "schedule entry not found")
	case errors.Is(err, service.ErrSlotBusy):
		response.Conflict(c, 60003, "slot is being booked by another request, retry")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		response.BadRequest(c, 60004, err.Error())
	case errors.Is(err, service.ErrScheduleNotOwner):
		response.Forbidden(c, 60005, "schedule entry belongs to another instructor")
	case errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrWeekdayMismatch),
		errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 60006, err.Error())
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 60007, "course not found")
	case errors.Is(err, service.ErrLabRoomNotFound):
		response.NotFound(c, 60008, "lab room not found")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 60009, "dosen not found")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 60010, "schedule entry was modified by another operation, reload and retry")
	default:
		handleCommonError(c, err)
	}
}
