package export

import (
	"io"

	"github.com/yungbote/skugen-backend/internal/domain/sku"
)

// Write builds the table for records and writes it in format.
func Write(w io.Writer, format Format, records []sku.Record) error {
	t := BuildTable(records)
	if format == FormatXLSX {
		return WriteXLSX(w, t)
	}
	return WriteCSV(w, t)
}
