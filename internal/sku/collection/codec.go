package collection

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yungbote/skugen-backend/internal/domain/sku"
)

// Encode serializes records as a JSON list of objects. A nil collection
// encodes as [] so the stored slot is always a list.
func Encode(records []sku.Record) ([]byte, error) {
	if records == nil {
		records = []sku.Record{}
	}
	return json.Marshal(records)
}

// Decode parses a payload written by Encode. A blank or null payload decodes
// to an empty collection.
func Decode(payload []byte) ([]sku.Record, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []sku.Record{}, nil
	}
	var records []sku.Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("decode sku collection: %w", err)
	}
	if records == nil {
		records = []sku.Record{}
	}
	return records, nil
}
