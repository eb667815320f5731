package pipeline

import (
	"github.com/shopspring/decimal"

	"facturas/internal"
	"facturas/internal/catalog"
)

// BuildRows assembles the ten-column output records. The supplier code is
// translated to an internal SKU through the product mapping; codes without a
// mapping pass through unchanged.
func BuildRows(lines []internal.ComputedLine, mapping catalog.Mapping) []internal.EntryRow {
	rows := make([]internal.EntryRow, 0, len(lines))
	for _, line := range lines {
		sku := line.SupplierCode
		if rec, ok := mapping.Lookup(line.SupplierCode); ok && rec.SKU != "" {
			sku = rec.SKU
		}
		rows = append(rows, internal.EntryRow{
			SKU:         sku,
			Description: line.Description,
			Quantity:    formatQuantity(line.Quantity),
			UnitNetCost: line.UnitNetCost.StringFixed(2),
			LineNetCost: line.LineNetCost.StringFixed(2),
			IVALabel:    line.IVALabel,
			IEPSLabel:   line.IEPSLabel,
			InvoiceDate: line.InvoiceDate,
			InvoiceID:   line.InvoiceID,
			Provider:    line.Provider.Label(),
		})
	}
	return rows
}

// Integral quantities print without decimals; fractional ones as extracted.
func formatQuantity(q decimal.Decimal) string {
	if q.IsInteger() {
		return q.Truncate(0).String()
	}
	return q.String()
}
