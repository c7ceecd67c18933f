package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/yungbote/skugen-backend/internal/domain/sku"
	pkgerrors "github.com/yungbote/skugen-backend/internal/pkg/errors"
)

func sampleRecords() []sku.Record {
	return []sku.Record{
		{
			SKU:     "FAL24-DEN-M",
			Product: "Fall Winter",
			Year:    "2024",
			Attributes: []sku.AttributeValue{
				{Name: "Collection", Value: ""},
				{Name: "Material", Value: "Denim"},
			},
			Size:      "M",
			Rule:      sku.RuleFirstLetters,
			Separator: sku.SeparatorDash,
		},
		{
			SKU:        "S:NAVYBLUE:S",
			Product:    "Summer",
			Attributes: []sku.AttributeValue{{Name: "Color", Value: "Navy Blue", FullMode: true}},
			Size:       "S",
			Rule:       sku.RuleInitials,
			Separator:  sku.SeparatorColon,
		},
		{
			SKU:       "0012/XL",
			Product:   "0012",
			Size:      "XL",
			Rule:      sku.RuleFirstLetters,
			Separator: sku.SeparatorSlash,
		},
	}
}

func TestBuildTable(t *testing.T) {
	table := BuildTable(sampleRecords())
	wantHeader := []string{"SKU", "Product", "Year", "Collection", "Material", "Color", "Size", "Rule", "Separator", "Color Full"}
	if !reflect.DeepEqual(table.Header, wantHeader) {
		t.Fatalf("header:\nwant=%v\ngot=%v", wantHeader, table.Header)
	}
	wantRows := [][]string{
		{"FAL24-DEN-M", "Fall Winter", "2024", "", "Denim", "", "M", "rule1", "-", "No"},
		{"S:NAVYBLUE:S", "Summer", "", "", "", "Navy Blue", "S", "rule2", ":", "Yes"},
		{"0012/XL", "0012", "", "", "", "", "XL", "rule1", "/", "No"},
	}
	if !reflect.DeepEqual(table.Rows, wantRows) {
		t.Fatalf("rows:\nwant=%v\ngot=%v", wantRows, table.Rows)
	}
}

func TestBuildTableEmpty(t *testing.T) {
	table := BuildTable(nil)
	if len(table.Rows) != 0 {
		t.Fatalf("rows: %v", table.Rows)
	}
	if !reflect.DeepEqual(table.Header, []string{"SKU", "Product", "Year", "Size", "Rule", "Separator"}) {
		t.Fatalf("header: %v", table.Header)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, sampleRecords()); err != nil {
		t.Fatalf("Write csv: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("want header + 3 rows, got %d", len(rows))
	}
	if rows[2][0] != "S:NAVYBLUE:S" || rows[2][5] != "Navy Blue" {
		t.Fatalf("row 2: %v", rows[2])
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatXLSX, sampleRecords()); err != nil {
		t.Fatalf("Write xlsx: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetName {
		t.Fatalf("sheets: %v", sheets)
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 || rows[0][0] != "SKU" {
		t.Fatalf("rows: %v", rows)
	}
	if got := rows[3][1]; got != "0012" {
		t.Fatalf("string cells must not be coerced, got %q", got)
	}
	typ, err := f.GetCellType(SheetName, "B4")
	if err != nil {
		t.Fatalf("GetCellType: %v", err)
	}
	if typ == excelize.CellTypeNumber {
		t.Fatalf("B4 stored as number")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatCSV, "CSV": FormatCSV, " xlsx ": FormatXLSX} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q): got %q err=%v", in, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("ParseFormat(pdf): %v", err)
	}
	if FormatXLSX.Filename() != "skus.xlsx" || FormatCSV.ContentType() != "text/csv; charset=utf-8" {
		t.Fatalf("format metadata mismatch")
	}
}
