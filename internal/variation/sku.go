package variation

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxSKULength matches the item_variations.sku column.
const MaxSKULength = 50

const tempPrefix = "TMP"

func normalize(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), "-"))
}

func shortID(id uuid.UUID) string {
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// Identifier derives the SKU stem of a saved product, e.g. "T-SHIRT-1A2B3C4D".
func Identifier(skuOrName string, productID uuid.UUID) string {
	return normalize(skuOrName) + "-" + shortID(productID)
}

// TempIdentifier is used while a product has not been persisted yet.
func TempIdentifier(skuOrName string) string {
	return normalize(skuOrName) + "-" + tempPrefix + shortID(uuid.New())[:5]
}

// SKU joins the identifier with the upper-cased combination values and cuts
// the result to MaxSKULength characters.
func SKU(identifier string, combo Combination) string {
	parts := make([]string, 0, len(combo))
	for _, v := range combo.Values() {
		parts = append(parts, normalize(v))
	}
	sku := identifier
	if len(parts) > 0 {
		sku += "-" + strings.Join(parts, "-")
	}
	return truncate(sku, MaxSKULength)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimRight(string(r[:n]), "-")
}

// FirstDuplicate returns the first SKU seen twice, comparing case-insensitively.
func FirstDuplicate(skus []string) (string, bool) {
	seen := make(map[string]struct{}, len(skus))
	for _, sku := range skus {
		key := strings.ToUpper(strings.TrimSpace(sku))
		if _, ok := seen[key]; ok {
			return sku, true
		}
		seen[key] = struct{}{}
	}
	return "", false
}
