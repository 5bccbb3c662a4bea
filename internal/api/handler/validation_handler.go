package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"simlab/internal/validation"
	"simlab/pkg/response"
)

// ValidationHandler live form validation
type ValidationHandler struct {
	validator *validation.Validator
}

// NewValidationHandler creates a ValidationHandler
func NewValidationHandler(v *validation.Validator) *ValidationHandler {
	return &ValidationHandler{validator: v}
}

type validationResult struct {
	Valid  bool                  `json:"valid"`
	Errors validation.FieldErrors `json:"errors"`
}

// Validate returns field → first message for a draft record
// POST /api/v1/validation/:entity?partial=true
func (h *ValidationHandler) Validate(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	partial := c.Query("partial") == "true"
	fields, err := h.validator.ValidateEntity(c.Param("entity"), raw, partial)
	if err != nil {
		if errors.Is(err, validation.ErrUnknownEntity) {
			response.NotFound(c, 10006, err.Error())
			return
		}
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	response.OK(c, validationResult{Valid: fields.Valid(), Errors: fields})
}
