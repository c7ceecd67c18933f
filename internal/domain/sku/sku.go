package sku

import (
	"fmt"
	"strings"

	pkgerrors "github.com/yungbote/skugen-backend/internal/pkg/errors"
)

// Rule selects how an attribute's text is shortened into a token.
type Rule string

const (
	// RuleFirstLetters keeps the first n characters of the first word.
	RuleFirstLetters Rule = "rule1"
	// RuleInitials keeps the first character of each of the first n words.
	RuleInitials Rule = "rule2"
)

// DefaultRuleLength is the n both rules are parameterised with.
const DefaultRuleLength = 3

var Rules = []Rule{RuleFirstLetters, RuleInitials}

func (r Rule) Valid() bool {
	return r == RuleFirstLetters || r == RuleInitials
}

func (r Rule) Label() string {
	switch r {
	case RuleFirstLetters:
		return "First letters of first word"
	case RuleInitials:
		return "Initials of first words"
	default:
		return string(r)
	}
}

func ParseRule(raw string) (Rule, error) {
	r := Rule(strings.ToLower(strings.TrimSpace(raw)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown rule %q: %w", raw, pkgerrors.ErrInvalidArgument)
	}
	return r, nil
}

// Separator joins the tokens of one SKU.
type Separator string

const (
	SeparatorDash  Separator = "-"
	SeparatorColon Separator = ":"
	SeparatorSlash Separator = "/"
)

var Separators = []Separator{SeparatorDash, SeparatorColon, SeparatorSlash}

func (s Separator) Valid() bool {
	return s == SeparatorDash || s == SeparatorColon || s == SeparatorSlash
}

func ParseSeparator(raw string) (Separator, error) {
	s := Separator(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown separator %q: %w", raw, pkgerrors.ErrInvalidArgument)
	}
	return s, nil
}

// DefaultSizes is the size enumeration offered when none is configured.
var DefaultSizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

// AttributeValue is one named free-text attribute as typed by the user.
type AttributeValue struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	FullMode bool   `json:"full_mode,omitempty"`
}

// Record is one generated SKU together with the inputs and settings that produced it.
// Records are stored, never recomputed.
type Record struct {
	SKU        string           `json:"sku"`
	Product    string           `json:"product"`
	Year       string           `json:"year,omitempty"`
	Attributes []AttributeValue `json:"attributes,omitempty"`
	Size       string           `json:"size"`
	Rule       Rule             `json:"rule"`
	Separator  Separator        `json:"separator"`
}

// Attribute returns the value stored under name.
func (r Record) Attribute(name string) (AttributeValue, bool) {
	for _, a := range r.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return AttributeValue{}, false
}

// Theme is the UI colour scheme preference persisted next to the collection.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ParseTheme(raw string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("unknown theme %q: %w", raw, pkgerrors.ErrInvalidArgument)
	}
}
