package collection

import (
	"errors"
	"reflect"
	"testing"

	"github.com/yungbote/skugen-backend/internal/domain/sku"
	pkgerrors "github.com/yungbote/skugen-backend/internal/pkg/errors"
)

func rec(code string) sku.Record {
	return sku.Record{SKU: code, Product: "P", Size: "M", Rule: sku.RuleFirstLetters, Separator: sku.SeparatorDash}
}

func codes(records []sku.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.SKU)
	}
	return out
}

func TestAppendUniqueSkipsExisting(t *testing.T) {
	existing := []sku.Record{rec("A-M"), rec("B-M")}
	next, accepted := AppendUnique(existing, []sku.Record{rec("B-M"), rec("C-M")})

	if got, want := codes(next), []string{"A-M", "B-M", "C-M"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("collection: want=%v got=%v", want, got)
	}
	if got, want := codes(accepted), []string{"C-M"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("accepted: want=%v got=%v", want, got)
	}
	if len(existing) != 2 {
		t.Fatalf("existing must not be modified, len=%d", len(existing))
	}
}

func TestAppendUniqueCollapsesDuplicatesInBatch(t *testing.T) {
	next, accepted := AppendUnique(nil, []sku.Record{rec("X-S"), rec("X-S"), rec("Y-S"), rec("X-S")})
	if got, want := codes(next), []string{"X-S", "Y-S"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("want=%v got=%v", want, got)
	}
	if len(accepted) != 2 {
		t.Fatalf("accepted: want 2 got %d", len(accepted))
	}
}

func TestAppendUniqueIdempotent(t *testing.T) {
	batch := []sku.Record{rec("A-S"), rec("A-M"), rec("A-L")}
	once, _ := AppendUnique(nil, batch)
	twice, accepted := AppendUnique(once, batch)
	if !reflect.DeepEqual(codes(once), codes(twice)) {
		t.Fatalf("second append changed the collection: %v -> %v", codes(once), codes(twice))
	}
	if len(accepted) != 0 {
		t.Fatalf("second append accepted %d records", len(accepted))
	}
}

func TestAppendUniqueKeepsCodesDistinct(t *testing.T) {
	var all []sku.Record
	for _, batch := range [][]string{{"A", "B", "A"}, {"C", "B"}, {"D", "A", "E"}} {
		var cand []sku.Record
		for _, c := range batch {
			cand = append(cand, rec(c))
		}
		all, _ = AppendUnique(all, cand)
	}
	seen := map[string]bool{}
	for _, r := range all {
		if seen[r.SKU] {
			t.Fatalf("duplicate code %q in %v", r.SKU, codes(all))
		}
		seen[r.SKU] = true
	}
	if got, want := codes(all), []string{"A", "B", "C", "D", "E"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order: want=%v got=%v", want, got)
	}
}

func TestDeleteAt(t *testing.T) {
	records := []sku.Record{rec("A"), rec("B"), rec("C")}
	next, removed, err := DeleteAt(records, 1)
	if err != nil {
		t.Fatalf("DeleteAt: %v", err)
	}
	if removed.SKU != "B" {
		t.Fatalf("removed: want B got %q", removed.SKU)
	}
	if got, want := codes(next), []string{"A", "C"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("want=%v got=%v", want, got)
	}
	if got := codes(records); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("input mutated: %v", got)
	}
}

func TestDeleteAtOutOfRange(t *testing.T) {
	records := []sku.Record{rec("A")}
	for _, idx := range []int{-1, 1, 5} {
		next, _, err := DeleteAt(records, idx)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("DeleteAt(%d): expected ErrIndexOutOfRange, got %v", idx, err)
		}
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			t.Fatalf("DeleteAt(%d): expected not-found classification", idx)
		}
		if len(next) != 1 {
			t.Fatalf("DeleteAt(%d): collection changed", idx)
		}
	}
}

func TestClearAndContains(t *testing.T) {
	if got := Clear(); got == nil || len(got) != 0 {
		t.Fatalf("Clear: want empty non-nil slice, got %#v", got)
	}
	records := []sku.Record{rec("A-M")}
	if !Contains(records, "A-M") || Contains(records, "B-M") {
		t.Fatalf("Contains mismatch")
	}
}

func TestGenerateBatchRule1(t *testing.T) {
	out, err := GenerateBatch(Form{
		Product: "Fall Winter",
		Year:    "2024",
		Attributes: []sku.AttributeValue{
			{Name: "Collection", Value: ""},
			{Name: "Material", Value: "Denim"},
		},
		Sizes: []string{"M"},
	}, Settings{Rule: sku.RuleFirstLetters, Separator: sku.SeparatorDash, RuleLength: 3})
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	if len(out) != 1 || out[0].SKU != "FAL24-DEN-M" {
		t.Fatalf("want [FAL24-DEN-M] got %v", codes(out))
	}
	r := out[0]
	if r.Product != "Fall Winter" || r.Year != "2024" || r.Size != "M" || r.Rule != sku.RuleFirstLetters || r.Separator != sku.SeparatorDash {
		t.Fatalf("record fields not captured: %+v", r)
	}
	if len(r.Attributes) != 2 || r.Attributes[1].Value != "Denim" {
		t.Fatalf("attributes not captured: %+v", r.Attributes)
	}
}

func TestGenerateBatchRule2(t *testing.T) {
	out, err := GenerateBatch(Form{
		Product:    "Summer",
		Attributes: []sku.AttributeValue{{Name: "Style", Value: "Basic Tee"}},
		Sizes:      []string{"S"},
	}, Settings{Rule: sku.RuleInitials, Separator: sku.SeparatorDash})
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	if got := codes(out); !reflect.DeepEqual(got, []string{"S-BT-S"}) {
		t.Fatalf("want [S-BT-S] got %v", got)
	}
}

func TestGenerateBatchSizeOrderAndFullMode(t *testing.T) {
	out, err := GenerateBatch(Form{
		Product:    "Oversized Tshirt",
		Attributes: []sku.AttributeValue{{Name: "Color", Value: "Navy Blue", FullMode: true}},
		Sizes:      []string{"xl", "S", "M"},
	}, Settings{Rule: sku.RuleFirstLetters, Separator: sku.SeparatorColon, AllowedSizes: sku.DefaultSizes})
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	want := []string{"OVE:NAVYBLUE:XL", "OVE:NAVYBLUE:S", "OVE:NAVYBLUE:M"}
	if got := codes(out); !reflect.DeepEqual(got, want) {
		t.Fatalf("want=%v got=%v", want, got)
	}
}

func TestGenerateBatchPreconditions(t *testing.T) {
	settings := Settings{Rule: sku.RuleFirstLetters, Separator: sku.SeparatorDash, AllowedSizes: sku.DefaultSizes}
	cases := []struct {
		name string
		form Form
		want error
	}{
		{"empty_product", Form{Product: "", Sizes: []string{"M"}}, ErrProductRequired},
		{"blank_product", Form{Product: "   ", Sizes: []string{"M"}}, ErrProductRequired},
		{"no_sizes", Form{Product: "Tee"}, ErrNoSizes},
		{"unknown_size", Form{Product: "Tee", Sizes: []string{"M", "XXXL"}}, ErrUnknownSize},
		{"duplicate_attribute", Form{
			Product:    "Summer",
			Attributes: []sku.AttributeValue{{Name: "Color", Value: "Red"}, {Name: "Color", Value: "Blue"}},
			Sizes:      []string{"M"},
		}, ErrDuplicateAttribute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := GenerateBatch(tc.form, settings)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v got %v", tc.want, err)
			}
			if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
				t.Fatalf("expected invalid-argument classification, got %v", err)
			}
			if out != nil {
				t.Fatalf("no records expected, got %v", codes(out))
			}
		})
	}
}

func TestGenerateBatchRejectsBadSettings(t *testing.T) {
	form := Form{Product: "Tee", Sizes: []string{"M"}}
	if _, err := GenerateBatch(form, Settings{Rule: "rule9", Separator: sku.SeparatorDash}); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("bad rule: got %v", err)
	}
	if _, err := GenerateBatch(form, Settings{Rule: sku.RuleInitials, Separator: "|"}); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("bad separator: got %v", err)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	records, err := GenerateBatch(Form{
		Product:    "Fall Winter",
		Year:       "2024",
		Attributes: []sku.AttributeValue{{Name: "Color", Value: "Sky Blue", FullMode: true}},
		Sizes:      []string{"S", "M"},
	}, Settings{Rule: sku.RuleInitials, Separator: sku.SeparatorSlash})
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	payload, err := Encode(records)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(records, back) {
		t.Fatalf("round trip mismatch:\nwant=%+v\ngot=%+v", records, back)
	}
}

func TestCodecEdges(t *testing.T) {
	b, err := Encode(nil)
	if err != nil || string(b) != "[]" {
		t.Fatalf("Encode(nil): got %s err=%v", b, err)
	}
	for _, in := range []string{"", "  ", "null", "[]"} {
		got, err := Decode([]byte(in))
		if err != nil || got == nil || len(got) != 0 {
			t.Fatalf("Decode(%q): got %#v err=%v", in, got, err)
		}
	}
	if _, err := Decode([]byte(`{"sku":`)); err == nil {
		t.Fatalf("Decode: expected error for malformed payload")
	}
}
