package pipeline

import (
	"strings"

	"facturas/internal"
	"facturas/internal/util"
)

// DedupeItems drops repeats of the same line item caused by at-least-once
// delivery upstream. The first occurrence of each fingerprint wins and
// encounter order is preserved.
func DedupeItems(provider internal.ProviderSchema, items []internal.RawLineItem) []internal.RawLineItem {
	seen := map[string]struct{}{}
	out := make([]internal.RawLineItem, 0, len(items))
	for _, item := range items {
		key := fingerprint(provider, item)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// fingerprint is the content identity of one line item: normalized code and
// description plus the parsed quantity and gross amount. SAMS invoices carry
// a line-level discount, so it participates there; CITY has none.
func fingerprint(provider internal.ProviderSchema, item internal.RawLineItem) string {
	parts := []string{
		util.MappingKey(item.SupplierCode),
		util.NormalizeText(item.Description),
		util.ParseDecimal(item.Quantity).String(),
		util.ParseDecimal(item.Amount).String(),
	}
	if provider == internal.ProviderSAMS {
		parts = append(parts, util.ParseDecimal(item.Discount).String())
	}
	return strings.Join(parts, "|")
}
