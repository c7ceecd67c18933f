package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/yungbote/skugen-backend/internal/data/blob"
	"github.com/yungbote/skugen-backend/internal/domain/sku"
	"github.com/yungbote/skugen-backend/internal/observability"
	"github.com/yungbote/skugen-backend/internal/platform/apierr"
	"github.com/yungbote/skugen-backend/internal/platform/ctxutil"
	"github.com/yungbote/skugen-backend/internal/platform/logger"
)

// ThemeSlot is the blob slot holding the theme preference as a JSON string.
const ThemeSlot = "theme"

type ThemeService interface {
	// Load reads the persisted preference. A missing or malformed slot keeps
	// the default; any other read error is returned.
	Load(ctx context.Context) error
	Get(ctx context.Context) sku.Theme
	Set(ctx context.Context, raw string) (sku.Theme, error)
}

type themeService struct {
	log      *logger.Logger
	blob     blob.Store
	metrics  *observability.Metrics
	fallback sku.Theme

	mu      sync.RWMutex
	current sku.Theme
}

func NewThemeService(baseLog *logger.Logger, b blob.Store, fallback sku.Theme, metrics *observability.Metrics) ThemeService {
	if fallback != sku.ThemeDark {
		fallback = sku.ThemeLight
	}
	return &themeService{
		log:      baseLog.With("service", "ThemeService"),
		blob:     b,
		metrics:  metrics,
		fallback: fallback,
		current:  fallback,
	}
}

func (s *themeService) Load(ctx context.Context) error {
	raw, err := s.blob.Get(ctx, ThemeSlot)
	if errors.Is(err, blob.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var stored string
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.log.Warn("stored theme is malformed, using default", "error", err, "default", s.fallback)
		return nil
	}
	theme, err := sku.ParseTheme(stored)
	if err != nil {
		s.log.Warn("stored theme is unknown, using default", "value", stored, "default", s.fallback)
		return nil
	}
	s.mu.Lock()
	s.current = theme
	s.mu.Unlock()
	return nil
}

func (s *themeService) Get(ctx context.Context) sku.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *themeService) Set(ctx context.Context, raw string) (sku.Theme, error) {
	theme, err := sku.ParseTheme(raw)
	if err != nil {
		return "", apierr.New(http.StatusBadRequest, "invalid_theme", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = theme

	payload, err := json.Marshal(string(theme))
	if err == nil {
		err = s.blob.Put(ctx, ThemeSlot, payload)
	}
	s.metrics.ObservePersist(ThemeSlot, err)
	if err != nil {
		s.log.Warn("persist theme failed", append(ctxutil.LogFields(ctx), "theme", theme, "error", err)...)
	}
	return theme, nil
}
