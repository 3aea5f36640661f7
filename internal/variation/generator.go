// Package variation expands attribute selections into the Cartesian product of
// their values and derives SKUs for the resulting combinations.
package variation

import (
	"iter"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Selection is the subset of an attribute's values chosen for one product.
type Selection struct {
	AttributeID uuid.UUID `json:"attribute_id"`
	Name        string    `json:"name"`
	Values      []string  `json:"values"`
}

// Pair is one attribute value inside a combination.
type Pair struct {
	AttributeID uuid.UUID `json:"attribute_id"`
	Name        string    `json:"name"`
	Value       string    `json:"value"`
}

// Combination keeps the selection order. Downstream SKU suffixes depend on it.
type Combination []Pair

func (c Combination) Values() []string {
	values := make([]string, len(c))
	for i, p := range c {
		values[i] = p.Value
	}
	return values
}

// Map projects the combination to an attribute name keyed map for API output.
func (c Combination) Map() map[string]string {
	m := make(map[string]string, len(c))
	for _, p := range c {
		m[p.Name] = p.Value
	}
	return m
}

// Label is the human readable variant name, e.g. "Red / S".
func (c Combination) Label() string {
	return strings.Join(c.Values(), " / ")
}

// Normalize trims values, drops blanks and repeated values, and removes
// selections left without values. Order is preserved.
func Normalize(selections []Selection) []Selection {
	out := make([]Selection, 0, len(selections))
	for _, s := range selections {
		values := make([]string, 0, len(s.Values))
		for _, v := range s.Values {
			v = strings.TrimSpace(v)
			if v == "" || slices.Contains(values, v) {
				continue
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			continue
		}
		out = append(out, Selection{AttributeID: s.AttributeID, Name: strings.TrimSpace(s.Name), Values: values})
	}
	return out
}

// Count is the number of combinations Generate yields.
func Count(selections []Selection) int {
	n := 1
	for _, s := range Normalize(selections) {
		n *= len(s.Values)
	}
	return n
}

// Generate lazily yields every combination, nesting outer to inner in
// selection order: Color:[Red,Blue] x Size:[S,M] gives (Red,S) (Red,M)
// (Blue,S) (Blue,M). With no usable selection it yields a single empty
// combination. The sequence can be ranged over more than once.
func Generate(selections []Selection) iter.Seq[Combination] {
	active := Normalize(selections)
	return func(yield func(Combination) bool) {
		walk(active, make(Combination, 0, len(active)), yield)
	}
}

func walk(rest []Selection, prefix Combination, yield func(Combination) bool) bool {
	if len(rest) == 0 {
		return yield(slices.Clone(prefix))
	}
	head := rest[0]
	for _, v := range head.Values {
		next := append(prefix, Pair{AttributeID: head.AttributeID, Name: head.Name, Value: v})
		if !walk(rest[1:], next, yield) {
			return false
		}
	}
	return true
}

// Generated is a combination with its derived SKU and label.
type Generated struct {
	Combination Combination `json:"combination"`
	SKU         string      `json:"sku"`
	Name        string      `json:"variant_name"`
}

// Expand materialises Generate with SKUs built from identifier.
func Expand(identifier string, selections []Selection) []Generated {
	out := make([]Generated, 0, Count(selections))
	for combo := range Generate(selections) {
		out = append(out, Generated{
			Combination: combo,
			SKU:         SKU(identifier, combo),
			Name:        combo.Label(),
		})
	}
	return out
}
