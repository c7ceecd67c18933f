package collection

import (
	"fmt"
	"strings"

	"github.com/yungbote/skugen-backend/internal/domain/sku"
	"github.com/yungbote/skugen-backend/internal/sku/derive"
)

// Form is what the caller collected for one generation.
type Form struct {
	Product    string
	Year       string
	Attributes []sku.AttributeValue
	// Sizes in the order the user selected them.
	Sizes []string
}

// Settings is the configuration snapshot applied to one generation.
type Settings struct {
	Rule       sku.Rule
	Separator  sku.Separator
	RuleLength int
	// AllowedSizes restricts Form.Sizes; empty means any size is accepted.
	AllowedSizes []string
}

// Validate checks the generation preconditions. A failing form produces no
// records.
func (f Form) Validate(s Settings) error {
	if strings.TrimSpace(f.Product) == "" {
		return ErrProductRequired
	}
	if len(f.Sizes) == 0 {
		return ErrNoSizes
	}
	if !s.Rule.Valid() {
		_, err := sku.ParseRule(string(s.Rule))
		return err
	}
	if !s.Separator.Valid() {
		_, err := sku.ParseSeparator(string(s.Separator))
		return err
	}
	names := make(map[string]struct{}, len(f.Attributes))
	for _, a := range f.Attributes {
		if _, dup := names[a.Name]; dup {
			return fmt.Errorf("%q: %w", a.Name, ErrDuplicateAttribute)
		}
		names[a.Name] = struct{}{}
	}
	if len(s.AllowedSizes) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(s.AllowedSizes))
	for _, size := range s.AllowedSizes {
		allowed[strings.ToUpper(strings.TrimSpace(size))] = struct{}{}
	}
	for _, size := range f.Sizes {
		if _, ok := allowed[strings.ToUpper(strings.TrimSpace(size))]; !ok {
			return fmt.Errorf("%q: %w", size, ErrUnknownSize)
		}
	}
	return nil
}

// GenerateBatch derives the product and attribute codes once and composes one
// record per selected size, in selection order.
func GenerateBatch(f Form, s Settings) ([]sku.Record, error) {
	if err := f.Validate(s); err != nil {
		return nil, err
	}
	n := s.RuleLength
	if n <= 0 {
		n = sku.DefaultRuleLength
	}

	productCode := derive.ProductCode(f.Product, f.Year, s.Rule, n)
	codes := make([]string, 0, len(f.Attributes))
	for _, a := range f.Attributes {
		codes = append(codes, derive.AttributeCode(a.Value, s.Rule, n, a.FullMode))
	}

	var attrs []sku.AttributeValue
	if len(f.Attributes) > 0 {
		attrs = make([]sku.AttributeValue, len(f.Attributes))
		copy(attrs, f.Attributes)
	}

	out := make([]sku.Record, 0, len(f.Sizes))
	for _, raw := range f.Sizes {
		size := strings.ToUpper(strings.TrimSpace(raw))
		out = append(out, sku.Record{
			SKU:        derive.ComposeSKU(productCode, codes, size, s.Separator),
			Product:    f.Product,
			Year:       f.Year,
			Attributes: attrs,
			Size:       size,
			Rule:       s.Rule,
			Separator:  s.Separator,
		})
	}
	return out, nil
}
