package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/skugen-backend/internal/data/blob"
	httpx "github.com/yungbote/skugen-backend/internal/http"
	httpH "github.com/yungbote/skugen-backend/internal/http/handlers"
	"github.com/yungbote/skugen-backend/internal/services"
)

func (a *App) wireRouter() *gin.Engine {
	a.Log.Info("Wiring handlers...")
	return httpx.NewRouter(httpx.RouterConfig{
		Log:             a.Log,
		Metrics:         a.Metrics,
		ServiceName:     a.Cfg.Telemetry.ServiceName,
		Tracing:         a.tracing,
		AllowedOrigins:  a.Cfg.HTTP.AllowedOrigins,
		MaxRequestBytes: a.Cfg.HTTP.MaxRequestBytes,
		HealthHandler:   httpH.NewHealthHandler(a.ready),
		SKUHandler:      httpH.NewSKUHandler(a.Log, a.Services.SKU),
		ThemeHandler:    httpH.NewThemeHandler(a.Services.Theme),
	})
}

// ready reads the theme slot; a missing slot still proves the store answers.
func (a *App) ready(ctx context.Context) error {
	_, err := a.Blob.Get(ctx, services.ThemeSlot)
	if errors.Is(err, blob.ErrNotFound) {
		return nil
	}
	return err
}
