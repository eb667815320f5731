package pipeline

import (
	"fmt"

	"github.com/shopspring/decimal"

	"facturas/internal"
	"facturas/internal/util"
)

var one = decimal.NewFromInt(1)

// ComputeLines applies the supplier-specific cost formula to each line item.
// Malformed numerics degrade to zero; a non-positive quantity forces zero
// costs and "No Aplicable" labels, never an error.
func ComputeLines(provider internal.ProviderSchema, header internal.Header, items []internal.RawLineItem) ([]internal.ComputedLine, error) {
	var compute func(internal.Header, internal.RawLineItem) internal.ComputedLine
	switch provider {
	case internal.ProviderSAMS:
		compute = computeSams
	case internal.ProviderCITY:
		compute = computeCity
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	lines := make([]internal.ComputedLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, compute(header, item))
	}
	return lines, nil
}

// computeSams reconstructs the tax-inclusive unit cost from the line-level
// gross amount: (gross - discount) / qty * (1+IVA) * (1+IEPS). Applying the
// rates per unit keeps lineNet == unitNet * qty exact.
func computeSams(header internal.Header, item internal.RawLineItem) internal.ComputedLine {
	qty := util.ParseDecimal(item.Quantity)
	line := newLine(internal.ProviderSAMS, header, item, qty)
	if qty.Sign() <= 0 {
		return line
	}

	gross := util.ParseDecimal(item.Amount)
	discount := util.ParseDecimal(item.Discount)
	ivaRate, ivaFound := util.ParsePercentNear(item.TaxText, "IVA")
	iepsRate, iepsFound := util.ParsePercentNear(item.TaxText, "IEPS")

	baseUnit := gross.Sub(discount).Div(qty)
	unit := baseUnit.Mul(one.Add(ivaRate)).Mul(one.Add(iepsRate))

	line.UnitNetCost = unit
	line.LineNetCost = unit.Mul(qty)
	line.IVALabel = util.LabelPercent(ivaRate, ivaFound)
	line.IEPSLabel = util.LabelPercent(iepsRate, iepsFound)
	return line
}

// computeCity takes the extracted line total verbatim; it is already
// tax-inclusive. VAT is the fixed statutory 16% whenever a VAT amount is
// present, and the IEPS rate is back-computed as tax amount over the
// pre-tax amount since no percentage is extracted for it.
func computeCity(header internal.Header, item internal.RawLineItem) internal.ComputedLine {
	qty := util.ParseDecimal(item.Quantity)
	line := newLine(internal.ProviderCITY, header, item, qty)
	if qty.Sign() <= 0 {
		return line
	}

	total := util.ParseDecimal(item.TotalAmount)
	amount := util.ParseDecimal(item.Amount)
	vatAmount := util.ParseDecimal(item.VATAmount)
	iepsAmount := util.ParseDecimal(item.IEPSAmount)

	line.UnitNetCost = total.Div(qty)
	line.LineNetCost = total

	if vatAmount.Sign() > 0 {
		line.IVALabel = util.LabelPercent(decimal.New(16, -2), true)
	}

	iepsRate := decimal.Zero
	if amount.Sign() > 0 && iepsAmount.Sign() > 0 {
		iepsRate = iepsAmount.Div(amount)
	}
	line.IEPSLabel = util.LabelPercent(iepsRate, true)
	return line
}

// newLine seeds the zero-cost, "No Aplicable" form shared by all guards.
func newLine(provider internal.ProviderSchema, header internal.Header, item internal.RawLineItem, qty decimal.Decimal) internal.ComputedLine {
	return internal.ComputedLine{
		SupplierCode: item.SupplierCode,
		Description:  item.Description,
		Quantity:     qty,
		UnitNetCost:  decimal.Zero,
		LineNetCost:  decimal.Zero,
		IVALabel:     util.LabelPercent(decimal.Zero, false),
		IEPSLabel:    util.LabelPercent(decimal.Zero, false),
		InvoiceDate:  header.InvoiceDate,
		InvoiceID:    header.InvoiceID,
		Provider:     provider,
	}
}
