package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"simlab/internal/dto"
	"simlab/internal/service"
	"simlab/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler schedule export endpoints
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportXLSX schedule workbook, same filters as the list
// GET /api/v1/schedule-entries/export.xlsx
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var req dto.ScheduleEntryListRequest
	if !bindQuery(c, &req) {
		return
	}

	buf, filename, err := h.exportSvc.ExportXLSX(c.Request.Context(), &req, caller)
	if err != nil {
		response.InternalError(c)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportICS schedule calendar feed
// GET /api/v1/schedule-entries/export.ics
func (h *ExportHandler) ExportICS(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var req dto.ScheduleEntryListRequest
	if !bindQuery(c, &req) {
		return
	}

	body, filename, err := h.exportSvc.ExportICS(c.Request.Context(), &req, caller)
	if err != nil {
		response.InternalError(c)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, icsContentType, body)
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}
