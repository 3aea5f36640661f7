package variation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
)

func TestIdentifier(t *testing.T) {
	id := uuid.MustParse("1a2b3c4d-0000-0000-0000-000000000000")
	if got := Identifier("  cotton  t shirt ", id); got != "COTTON-T-SHIRT-1A2B3C4D" {
		t.Errorf("Identifier = %q", got)
	}
}

func TestTempIdentifier(t *testing.T) {
	a := TempIdentifier("Mug")
	b := TempIdentifier("Mug")
	if !strings.HasPrefix(a, "MUG-TMP") {
		t.Errorf("TempIdentifier = %q", a)
	}
	if a == b {
		t.Errorf("temporary identifiers should differ, both %q", a)
	}
}

func TestSKU(t *testing.T) {
	combo := Combination{
		{Name: "Color", Value: "light blue"},
		{Name: "Size", Value: "xl"},
	}
	if got := SKU("SHIRT-1A2B3C4D", combo); got != "SHIRT-1A2B3C4D-LIGHT-BLUE-XL" {
		t.Errorf("SKU = %q", got)
	}
	if got := SKU("SHIRT-1A2B3C4D", nil); got != "SHIRT-1A2B3C4D" {
		t.Errorf("SKU without combination = %q", got)
	}
}

func TestSKUTruncated(t *testing.T) {
	combo := Combination{{Name: "Finish", Value: strings.Repeat("glossy ", 12)}}
	got := SKU("PAINT-1A2B3C4D", combo)
	if n := utf8.RuneCountInString(got); n > MaxSKULength {
		t.Fatalf("len = %d, want <= %d (%q)", n, MaxSKULength, got)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("truncated sku ends with a hyphen: %q", got)
	}
	if !strings.HasPrefix(got, "PAINT-1A2B3C4D-GLOSSY") {
		t.Errorf("SKU = %q", got)
	}
}

func TestFirstDuplicate(t *testing.T) {
	if sku, ok := FirstDuplicate([]string{"A-1", "B-1", "a-1", "B-1"}); !ok || sku != "a-1" {
		t.Errorf("FirstDuplicate = %q, %v", sku, ok)
	}
	if _, ok := FirstDuplicate([]string{"A", "B"}); ok {
		t.Error("no duplicates expected")
	}
}
