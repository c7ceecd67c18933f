package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/yungbote/skugen-backend/internal/domain/sku"
	"github.com/yungbote/skugen-backend/internal/export"
	"github.com/yungbote/skugen-backend/internal/observability"
	"github.com/yungbote/skugen-backend/internal/platform/apierr"
	"github.com/yungbote/skugen-backend/internal/platform/ctxutil"
	"github.com/yungbote/skugen-backend/internal/platform/logger"
	"github.com/yungbote/skugen-backend/internal/sku/collection"
)

// GeneratorSettings are the configured defaults applied to every generation.
type GeneratorSettings struct {
	DefaultRule      sku.Rule
	DefaultSeparator sku.Separator
	RuleLength       int
	Sizes            []string
}

type GenerateInput struct {
	Product    string               `json:"product"`
	Year       string               `json:"year"`
	Attributes []sku.AttributeValue `json:"attributes"`
	Sizes      []string             `json:"sizes"`
	// Rule and Separator fall back to the configured defaults when empty.
	Rule      string `json:"rule"`
	Separator string `json:"separator"`
}

type GenerateResult struct {
	Generated []sku.Record `json:"generated"`
	Accepted  []sku.Record `json:"accepted"`
	Dropped   []string     `json:"dropped"`
	Count     int          `json:"count"`
}

type RuleOption struct {
	Value sku.Rule `json:"value"`
	Label string   `json:"label"`
}

type Options struct {
	Rules            []RuleOption    `json:"rules"`
	Separators       []sku.Separator `json:"separators"`
	Sizes            []string        `json:"sizes"`
	Formats          []export.Format `json:"formats"`
	DefaultRule      sku.Rule        `json:"default_rule"`
	DefaultSeparator sku.Separator   `json:"default_separator"`
	RuleLength       int             `json:"rule_length"`
}

type SKUService interface {
	Options() Options
	Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error)
	List(ctx context.Context) []sku.Record
	// Delete returns the removed record and the collection size right after removal.
	Delete(ctx context.Context, index int) (sku.Record, int, error)
	Clear(ctx context.Context) int
	Export(ctx context.Context, format export.Format, w io.Writer) error
}

type skuService struct {
	log      *logger.Logger
	store    *collection.Store
	settings GeneratorSettings
	metrics  *observability.Metrics
}

func NewSKUService(baseLog *logger.Logger, store *collection.Store, settings GeneratorSettings, metrics *observability.Metrics) SKUService {
	if settings.RuleLength <= 0 {
		settings.RuleLength = sku.DefaultRuleLength
	}
	if len(settings.Sizes) == 0 {
		settings.Sizes = append([]string(nil), sku.DefaultSizes...)
	}
	if !settings.DefaultRule.Valid() {
		settings.DefaultRule = sku.RuleFirstLetters
	}
	if !settings.DefaultSeparator.Valid() {
		settings.DefaultSeparator = sku.SeparatorDash
	}
	return &skuService{
		log:      baseLog.With("service", "SKUService"),
		store:    store,
		settings: settings,
		metrics:  metrics,
	}
}

func (s *skuService) Options() Options {
	rules := make([]RuleOption, 0, len(sku.Rules))
	for _, r := range sku.Rules {
		rules = append(rules, RuleOption{Value: r, Label: r.Label()})
	}
	return Options{
		Rules:            rules,
		Separators:       append([]sku.Separator(nil), sku.Separators...),
		Sizes:            append([]string(nil), s.settings.Sizes...),
		Formats:          append([]export.Format(nil), export.Formats...),
		DefaultRule:      s.settings.DefaultRule,
		DefaultSeparator: s.settings.DefaultSeparator,
		RuleLength:       s.settings.RuleLength,
	}
}

func (s *skuService) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	rule := s.settings.DefaultRule
	if strings.TrimSpace(in.Rule) != "" {
		parsed, err := sku.ParseRule(in.Rule)
		if err != nil {
			return nil, apierr.New(http.StatusBadRequest, "invalid_rule", err)
		}
		rule = parsed
	}
	sep := s.settings.DefaultSeparator
	if in.Separator != "" {
		parsed, err := sku.ParseSeparator(in.Separator)
		if err != nil {
			return nil, apierr.New(http.StatusBadRequest, "invalid_separator", err)
		}
		sep = parsed
	}

	candidates, err := collection.GenerateBatch(collection.Form{
		Product:    in.Product,
		Year:       strings.TrimSpace(in.Year),
		Attributes: in.Attributes,
		Sizes:      in.Sizes,
	}, collection.Settings{
		Rule:         rule,
		Separator:    sep,
		RuleLength:   s.settings.RuleLength,
		AllowedSizes: s.settings.Sizes,
	})
	if err != nil {
		return nil, generateError(err)
	}

	accepted := s.store.Append(ctx, candidates)
	// accepted is an ordered subsequence of candidates holding the first
	// occurrence of each new SKU; every other candidate position was dropped.
	dropped := []string{}
	next := 0
	for _, c := range candidates {
		if next < len(accepted) && accepted[next].SKU == c.SKU {
			next++
			continue
		}
		dropped = append(dropped, c.SKU)
	}
	if accepted == nil {
		accepted = []sku.Record{}
	}
	s.metrics.ObserveGenerate(len(candidates), len(accepted))

	count := s.store.Len()
	s.log.Debug("generated skus", append(ctxutil.LogFields(ctx),
		"generated", len(candidates), "accepted", len(accepted), "dropped", len(dropped), "count", count)...)
	return &GenerateResult{
		Generated: candidates,
		Accepted:  accepted,
		Dropped:   dropped,
		Count:     count,
	}, nil
}

func generateError(err error) error {
	switch {
	case errors.Is(err, collection.ErrProductRequired):
		return apierr.New(http.StatusBadRequest, "product_required", err)
	case errors.Is(err, collection.ErrNoSizes):
		return apierr.New(http.StatusBadRequest, "sizes_required", err)
	case errors.Is(err, collection.ErrUnknownSize):
		return apierr.New(http.StatusBadRequest, "unknown_size", err)
	case errors.Is(err, collection.ErrDuplicateAttribute):
		return apierr.New(http.StatusBadRequest, "duplicate_attribute", err)
	default:
		return apierr.From(err)
	}
}

func (s *skuService) List(ctx context.Context) []sku.Record {
	return s.store.Records()
}

func (s *skuService) Delete(ctx context.Context, index int) (sku.Record, int, error) {
	removed, remaining, err := s.store.DeleteAt(ctx, index)
	if errors.Is(err, collection.ErrIndexOutOfRange) {
		return sku.Record{}, remaining, apierr.New(http.StatusNotFound, "sku_not_found", err)
	}
	if err != nil {
		return sku.Record{}, remaining, apierr.From(err)
	}
	s.log.Info("sku deleted", append(ctxutil.LogFields(ctx), "index", index, "sku", removed.SKU, "count", remaining)...)
	return removed, remaining, nil
}

func (s *skuService) Clear(ctx context.Context) int {
	n := s.store.Clear(ctx)
	s.log.Info("sku collection cleared", append(ctxutil.LogFields(ctx), "removed", n)...)
	return n
}

func (s *skuService) Export(ctx context.Context, format export.Format, w io.Writer) error {
	records := s.store.Records()
	if err := export.Write(w, format, records); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	s.metrics.IncExport(string(format))
	s.log.Debug("sku collection exported", append(ctxutil.LogFields(ctx), "format", format, "count", len(records))...)
	return nil
}
