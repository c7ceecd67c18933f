// Package export renders the SKU collection as a flat table and writes it as
// CSV or as an XLSX workbook.
package export

import (
	"fmt"
	"strings"

	"github.com/yungbote/skugen-backend/internal/domain/sku"
	pkgerrors "github.com/yungbote/skugen-backend/internal/pkg/errors"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var Formats = []Format{FormatCSV, FormatXLSX}

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown export format %q: %w", raw, pkgerrors.ErrInvalidArgument)
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Filename() string {
	return "skus." + string(f)
}

// SheetName is the worksheet the XLSX export writes to.
const SheetName = "SKUs"

// Table is a header row plus one row of string cells per record.
type Table struct {
	Header []string
	Rows   [][]string
}

// BuildTable flattens records. Attribute columns follow the first-seen order
// of attribute names across the collection; a "<name> Full" Yes/No column is
// added for every attribute that is full-mode in at least one record.
func BuildTable(records []sku.Record) Table {
	var names []string
	seen := map[string]bool{}
	full := map[string]bool{}
	for _, r := range records {
		for _, a := range r.Attributes {
			if !seen[a.Name] {
				seen[a.Name] = true
				names = append(names, a.Name)
			}
			if a.FullMode {
				full[a.Name] = true
			}
		}
	}
	var fullNames []string
	for _, n := range names {
		if full[n] {
			fullNames = append(fullNames, n)
		}
	}

	header := make([]string, 0, 6+len(names)+len(fullNames))
	header = append(header, "SKU", "Product", "Year")
	header = append(header, names...)
	header = append(header, "Size", "Rule", "Separator")
	for _, n := range fullNames {
		header = append(header, n+" Full")
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, 0, len(header))
		row = append(row, r.SKU, r.Product, r.Year)
		for _, n := range names {
			a, _ := r.Attribute(n)
			row = append(row, a.Value)
		}
		row = append(row, r.Size, string(r.Rule), string(r.Separator))
		for _, n := range fullNames {
			a, _ := r.Attribute(n)
			row = append(row, yesNo(a.FullMode))
		}
		rows = append(rows, row)
	}
	return Table{Header: header, Rows: rows}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
