// Package derive turns free-text product attributes into short uppercase
// tokens and composes them into SKU strings. Every function here is pure and
// total: empty or whitespace-only input yields an empty token, never an error.
package derive

import (
	"strings"

	"github.com/yungbote/skugen-backend/internal/domain/sku"
)

// FirstLettersOfFirstWord returns the first n characters of the first
// whitespace-separated word of text, upper-cased.
func FirstLettersOfFirstWord(text string, n int) string {
	words := strings.Fields(text)
	if len(words) == 0 || n <= 0 {
		return ""
	}
	return strings.ToUpper(prefix(words[0], n))
}

// InitialsOfFirstNWords returns the first character of each of the first n
// whitespace-separated words of text, concatenated and upper-cased.
func InitialsOfFirstNWords(text string, n int) string {
	words := strings.Fields(text)
	if n <= 0 {
		return ""
	}
	if len(words) > n {
		words = words[:n]
	}
	var b strings.Builder
	for _, w := range words {
		b.WriteString(prefix(w, 1))
	}
	return strings.ToUpper(b.String())
}

// Sanitize drops every character that is not an ASCII letter or digit and
// upper-cases the rest. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ApplyRule shortens text with the selected rule. Unknown rules yield "".
func ApplyRule(text string, rule sku.Rule, n int) string {
	switch rule {
	case sku.RuleFirstLetters:
		return FirstLettersOfFirstWord(text, n)
	case sku.RuleInitials:
		return InitialsOfFirstNWords(text, n)
	default:
		return ""
	}
}

// AttributeCode derives the token for one attribute. With fullMode set the
// sanitized full text is used instead of the rule output.
func AttributeCode(text string, rule sku.Rule, n int, fullMode bool) string {
	if text == "" {
		return ""
	}
	if fullMode {
		return Sanitize(text)
	}
	return ApplyRule(text, rule, n)
}

// ProductCode derives the product token and fuses the last two characters of
// year onto it without a separator.
func ProductCode(product, year string, rule sku.Rule, n int) string {
	code := AttributeCode(product, rule, n, false)
	if year == "" {
		return code
	}
	return code + suffix(year, 2)
}

// ComposeSKU joins the non-empty tokens with sep and appends the size. When
// every token is empty the SKU is the size alone.
func ComposeSKU(productCode string, attributeCodes []string, size string, sep sku.Separator) string {
	parts := make([]string, 0, len(attributeCodes)+1)
	if productCode != "" {
		parts = append(parts, productCode)
	}
	for _, c := range attributeCodes {
		if c != "" {
			parts = append(parts, c)
		}
	}
	joined := strings.Join(parts, string(sep))
	if joined == "" {
		return size
	}
	return joined + string(sep) + size
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func suffix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
