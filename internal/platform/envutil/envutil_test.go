package envutil

import "testing"

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SKUGEN_TEST_INT", "nope")
	if got := Int("SKUGEN_TEST_INT", 7); got != 7 {
		t.Fatalf("want=7 got=%d", got)
	}
	t.Setenv("SKUGEN_TEST_INT", " 3 ")
	if got := Int("SKUGEN_TEST_INT", 7); got != 3 {
		t.Fatalf("want=3 got=%d", got)
	}
}

func TestStringAndBool(t *testing.T) {
	t.Setenv("SKUGEN_TEST_STR", "  ")
	if got := String("SKUGEN_TEST_STR", "def"); got != "def" {
		t.Fatalf("blank should fall back, got %q", got)
	}
	t.Setenv("SKUGEN_TEST_BOOL", "YES")
	if !Bool("SKUGEN_TEST_BOOL", false) {
		t.Fatalf("YES should parse true")
	}
	if ParseBool("off") {
		t.Fatalf("off should parse false")
	}
}
