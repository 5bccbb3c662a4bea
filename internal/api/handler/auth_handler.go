package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"simlab/internal/api/middleware"
	"simlab/internal/dto"
	"simlab/internal/service"
	"simlab/pkg/response"
)

// AuthHandler auth endpoints
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login email + password login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		response.BadRequest(c, 10001, "email and password are required")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, 11001, "invalid email or password")
		case errors.Is(err, service.ErrUserInactive):
			response.Forbidden(c, 11002, "account is inactive")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Logout revokes the current access token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString(middleware.CtxTokenJTI)
	var exp time.Time
	if v, ok := c.Get(middleware.CtxTokenExp); ok {
		exp, _ = v.(time.Time)
	}

	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// Me current user
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, "user not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}

// Permissions caller's permissions, routes and features
// GET /api/v1/me/permissions
func (h *AuthHandler) Permissions(c *gin.Context) {
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	response.OK(c, h.authSvc.Permissions(role))
}
