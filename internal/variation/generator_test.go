package variation

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
)

var (
	colorID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	sizeID  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func colorSize() []Selection {
	return []Selection{
		{AttributeID: colorID, Name: "Color", Values: []string{"Red", "Blue"}},
		{AttributeID: sizeID, Name: "Size", Values: []string{"S", "M", "L"}},
	}
}

func collectValues(selections []Selection) [][]string {
	var out [][]string
	for combo := range Generate(selections) {
		out = append(out, combo.Values())
	}
	return out
}

func TestGenerateOrder(t *testing.T) {
	got := collectValues(colorSize())
	want := [][]string{
		{"Red", "S"}, {"Red", "M"}, {"Red", "L"},
		{"Blue", "S"}, {"Blue", "M"}, {"Blue", "L"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("combinations = %v, want %v", got, want)
	}
}

func TestGenerateCount(t *testing.T) {
	tests := []struct {
		counts []int
		want   int
	}{
		{[]int{2, 3}, 6},
		{[]int{1}, 1},
		{[]int{4, 1, 2}, 8},
		{[]int{3, 0, 2}, 6}, // empty selections are skipped, not multiplied
		{[]int{}, 1},
		{[]int{0, 0}, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.counts), func(t *testing.T) {
			var sels []Selection
			for i, n := range tt.counts {
				s := Selection{AttributeID: uuid.New(), Name: fmt.Sprintf("A%d", i)}
				for j := 0; j < n; j++ {
					s.Values = append(s.Values, fmt.Sprintf("v%d", j))
				}
				sels = append(sels, s)
			}
			got := len(collectValues(sels))
			if got != tt.want {
				t.Errorf("generated %d combinations, want %d", got, tt.want)
			}
			if c := Count(sels); c != tt.want {
				t.Errorf("Count = %d, want %d", c, tt.want)
			}
		})
	}
}

func TestGenerateEmptyYieldsSingleEmptyCombination(t *testing.T) {
	var combos []Combination
	for c := range Generate(nil) {
		combos = append(combos, c)
	}
	if len(combos) != 1 || len(combos[0]) != 0 {
		t.Fatalf("got %v, want one empty combination", combos)
	}
}

func TestGenerateDistinct(t *testing.T) {
	sels := colorSize()
	sels[0].Values = append(sels[0].Values, "Red", " Blue ", "")
	seen := map[string]bool{}
	for combo := range Generate(sels) {
		key := strings.Join(combo.Values(), "|")
		if seen[key] {
			t.Fatalf("duplicate combination %s", key)
		}
		seen[key] = true
	}
	if len(seen) != 6 {
		t.Fatalf("got %d distinct combinations, want 6", len(seen))
	}
}

func TestGenerateRestartable(t *testing.T) {
	seq := Generate(colorSize())
	var first, second [][]string
	for c := range seq {
		first = append(first, c.Values())
	}
	for c := range seq {
		second = append(second, c.Values())
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second pass differs:\n%v\n%v", first, second)
	}
}

func TestGenerateStopsEarly(t *testing.T) {
	n := 0
	for range Generate(colorSize()) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("n = %d", n)
	}
}

func TestCombinationProjection(t *testing.T) {
	var combo Combination
	for c := range Generate(colorSize()) {
		combo = c
		break
	}
	if got := combo.Map(); !reflect.DeepEqual(got, map[string]string{"Color": "Red", "Size": "S"}) {
		t.Errorf("Map = %v", got)
	}
	if got := combo.Label(); got != "Red / S" {
		t.Errorf("Label = %q", got)
	}
	if combo[0].AttributeID != colorID || combo[1].AttributeID != sizeID {
		t.Errorf("attribute ids not kept in order: %+v", combo)
	}
}

func TestExpandIdempotent(t *testing.T) {
	a := Expand("SHIRT-ABCD1234", colorSize())
	b := Expand("SHIRT-ABCD1234", colorSize())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("expanding the same selections twice gave different results")
	}
	skus := make([]string, len(a))
	for i, g := range a {
		skus[i] = g.SKU
	}
	if !slices.Contains(skus, "SHIRT-ABCD1234-BLUE-M") {
		t.Errorf("skus = %v", skus)
	}
	if _, dup := FirstDuplicate(skus); dup {
		t.Errorf("generated duplicate skus: %v", skus)
	}
}
