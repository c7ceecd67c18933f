// Package collection holds the ordered, duplicate-free list of generated SKU
// records and the operations that grow and shrink it.
package collection

import (
	"fmt"

	"github.com/yungbote/skugen-backend/internal/domain/sku"
	pkgerrors "github.com/yungbote/skugen-backend/internal/pkg/errors"
)

var (
	ErrProductRequired    = fmt.Errorf("product is required: %w", pkgerrors.ErrInvalidArgument)
	ErrNoSizes            = fmt.Errorf("at least one size must be selected: %w", pkgerrors.ErrInvalidArgument)
	ErrUnknownSize        = fmt.Errorf("unknown size: %w", pkgerrors.ErrInvalidArgument)
	ErrIndexOutOfRange    = fmt.Errorf("index out of range: %w", pkgerrors.ErrNotFound)
	// ErrDuplicateAttribute rejects a form that names the same attribute twice;
	// each attribute name maps to exactly one export column.
	ErrDuplicateAttribute = fmt.Errorf("duplicate attribute name: %w", pkgerrors.ErrInvalidArgument)
)

// AppendUnique appends the candidates whose SKU is not already present, in
// candidate order. Duplicates inside candidates are collapsed to the first
// occurrence. existing is never modified; the returned slice is fresh.
func AppendUnique(existing, candidates []sku.Record) ([]sku.Record, []sku.Record) {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	for _, r := range existing {
		seen[r.SKU] = struct{}{}
	}
	out := make([]sku.Record, len(existing), len(existing)+len(candidates))
	copy(out, existing)

	var accepted []sku.Record
	for _, c := range candidates {
		if _, dup := seen[c.SKU]; dup {
			continue
		}
		seen[c.SKU] = struct{}{}
		out = append(out, c)
		accepted = append(accepted, c)
	}
	return out, accepted
}

// DeleteAt removes the record at index. Out-of-range indexes return
// ErrIndexOutOfRange and leave records untouched.
func DeleteAt(records []sku.Record, index int) ([]sku.Record, sku.Record, error) {
	if index < 0 || index >= len(records) {
		return records, sku.Record{}, fmt.Errorf("delete %d of %d: %w", index, len(records), ErrIndexOutOfRange)
	}
	out := make([]sku.Record, 0, len(records)-1)
	out = append(out, records[:index]...)
	out = append(out, records[index+1:]...)
	return out, records[index], nil
}

// Clear returns an empty collection.
func Clear() []sku.Record {
	return []sku.Record{}
}

// Contains reports whether a record with code is present.
func Contains(records []sku.Record, code string) bool {
	for _, r := range records {
		if r.SKU == code {
			return true
		}
	}
	return false
}
