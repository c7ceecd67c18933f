package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/skugen-backend/internal/http/response"
)

// ReadyCheck reports whether the service can reach its storage.
type ReadyCheck func(ctx context.Context) error

type HealthHandler struct {
	ready ReadyCheck
}

func NewHealthHandler(ready ReadyCheck) *HealthHandler { return &HealthHandler{ready: ready} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *HealthHandler) ReadyCheck(c *gin.Context) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			response.RespondError(c, http.StatusServiceUnavailable, "storage_unavailable", err)
			return
		}
	}
	c.String(http.StatusOK, "ready")
}
