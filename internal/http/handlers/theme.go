package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/skugen-backend/internal/domain/sku"
	"github.com/yungbote/skugen-backend/internal/http/response"
	"github.com/yungbote/skugen-backend/internal/services"
)

type ThemeHandler struct {
	svc services.ThemeService
}

func NewThemeHandler(svc services.ThemeService) *ThemeHandler {
	return &ThemeHandler{svc: svc}
}

type themePayload struct {
	Theme sku.Theme `json:"theme"`
}

// GET /api/theme
func (h *ThemeHandler) Get(c *gin.Context) {
	response.RespondOK(c, themePayload{Theme: h.svc.Get(c.Request.Context())})
}

// PUT /api/theme
func (h *ThemeHandler) Set(c *gin.Context) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	theme, err := h.svc.Set(c.Request.Context(), req.Theme)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, themePayload{Theme: theme})
}
