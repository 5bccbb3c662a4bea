package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"simlab/internal/dto"
	"simlab/internal/service"
	"simlab/internal/validation"
	"simlab/pkg/response"
)

// UserHandler user management endpoints
type UserHandler struct {
	userSvc   service.UserService
	validator *validation.Validator
}

// NewUserHandler creates a UserHandler
func NewUserHandler(userSvc service.UserService, v *validation.Validator) *UserHandler {
	return &UserHandler{userSvc: userSvc, validator: v}
}

// List paginated users
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	var req dto.UserListRequest
	if !bindQuery(c, &req) {
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// Get one user
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// Create new user with a temporary password
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateUserRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	result, err := h.userSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, result)
}

// Update partial user update
// PATCH /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// Delete user
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// ResetPassword issues a new temporary password
// POST /api/v1/users/:id/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.userSvc.ResetPassword(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "user not found")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 20002, "email already registered")
	case errors.Is(err, service.ErrNimNipExists):
		response.Conflict(c, 20003, "nim/nip already registered")
	case errors.Is(err, service.ErrUserSelfDelete):
		response.BadRequest(c, 20004, "cannot delete your own account")
	case errors.Is(err, service.ErrUserHasSchedules):
		response.Conflict(c, 20005, "user is assigned to schedule entries")
	case errors.Is(err, service.ErrLabRoomNotFound):
		response.NotFound(c, 20006, "lab room not found")
	default:
		handleCommonError(c, err)
	}
}
