package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"simlab/internal/dto"
	"simlab/internal/service"
	"simlab/internal/validation"
	"simlab/pkg/response"
)

// LabRoomHandler lab room endpoints
type LabRoomHandler struct {
	labRoomSvc service.LabRoomService
	validator  *validation.Validator
}

// NewLabRoomHandler creates a LabRoomHandler
func NewLabRoomHandler(labRoomSvc service.LabRoomService, v *validation.Validator) *LabRoomHandler {
	return &LabRoomHandler{labRoomSvc: labRoomSvc, validator: v}
}

// List paginated lab rooms
// GET /api/v1/lab-rooms
func (h *LabRoomHandler) List(c *gin.Context) {
	var req dto.LabRoomListRequest
	if !bindQuery(c, &req) {
		return
	}

	rooms, total, err := h.labRoomSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleLabRoomError(c, err)
		return
	}

	response.OKPage(c, rooms, total, req.GetPage(), req.GetPageSize())
}

// Options active lab rooms for select boxes
// GET /api/v1/lab-rooms/options
func (h *LabRoomHandler) Options(c *gin.Context) {
	options, err := h.labRoomSvc.Options(c.Request.Context())
	if err != nil {
		h.handleLabRoomError(c, err)
		return
	}
	response.OK(c, options)
}

// Get one lab room
// GET /api/v1/lab-rooms/:id
func (h *LabRoomHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	room, err := h.labRoomSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleLabRoomError(c, err)
		return
	}

	response.OK(c, room)
}

// Create new lab room
// POST /api/v1/lab-rooms
func (h *LabRoomHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateLabRoomRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	room, err := h.labRoomSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleLabRoomError(c, err)
		return
	}

	response.Created(c, room)
}

// Update partial lab room update
// PATCH /api/v1/lab-rooms/:id
func (h *LabRoomHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateLabRoomRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	room, err := h.labRoomSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleLabRoomError(c, err)
		return
	}

	response.OK(c, room)
}

// Delete lab room without courses
// DELETE /api/v1/lab-rooms/:id
func (h *LabRoomHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.labRoomSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleLabRoomError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *LabRoomHandler) handleLabRoomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLabRoomNotFound):
		response.NotFound(c, 30001, "lab room not found")
	case errors.Is(err, service.ErrLabRoomCodeExists):
		response.Conflict(c, 30002, "kode_lab already exists")
	case errors.Is(err, service.ErrLabRoomHasCourses):
		response.Conflict(c, 30003, "lab room is used by courses")
	case errors.Is(err, service.ErrLabRoomHasSchedules):
		response.Conflict(c, 30005, "lab room has schedule entries")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 30004, "pic user not found")
	default:
		handleCommonError(c, err)
	}
}
