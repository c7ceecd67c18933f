package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/skugen-backend/internal/domain/sku"
	"github.com/yungbote/skugen-backend/internal/export"
	"github.com/yungbote/skugen-backend/internal/http/response"
	"github.com/yungbote/skugen-backend/internal/platform/logger"
	"github.com/yungbote/skugen-backend/internal/services"
)

type SKUHandler struct {
	log *logger.Logger
	svc services.SKUService
}

func NewSKUHandler(log *logger.Logger, svc services.SKUService) *SKUHandler {
	return &SKUHandler{log: log.With("handler", "SKUHandler"), svc: svc}
}

// GET /api/options
func (h *SKUHandler) Options(c *gin.Context) {
	response.RespondOK(c, h.svc.Options())
}

type listSKUsResponse struct {
	SKUs  []sku.Record `json:"skus"`
	Count int          `json:"count"`
}

// GET /api/skus
func (h *SKUHandler) List(c *gin.Context) {
	records := h.svc.List(c.Request.Context())
	response.RespondOK(c, listSKUsResponse{SKUs: records, Count: len(records)})
}

// POST /api/skus
func (h *SKUHandler) Generate(c *gin.Context) {
	var req services.GenerateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// DELETE /api/skus/:index
func (h *SKUHandler) Delete(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_index", err)
		return
	}
	removed, count, err := h.svc.Delete(c.Request.Context(), index)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"removed": removed, "count": count})
}

// DELETE /api/skus
func (h *SKUHandler) Clear(c *gin.Context) {
	response.RespondOK(c, gin.H{"removed": h.svc.Clear(c.Request.Context())})
}

// GET /api/skus/export?format=csv|xlsx
func (h *SKUHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_format", err)
		return
	}
	var buf bytes.Buffer
	if err := h.svc.Export(c.Request.Context(), format, &buf); err != nil {
		h.log.Error("export failed", "format", format, "error", err)
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
