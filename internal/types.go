package internal

import "github.com/shopspring/decimal"

type ProviderSchema string

const (
	ProviderSAMS    ProviderSchema = "SAMS"
	ProviderCITY    ProviderSchema = "CITY"
	ProviderUnknown ProviderSchema = "UNKNOWN"
)

// Label is the display name written to the output rows.
func (p ProviderSchema) Label() string {
	switch p {
	case ProviderSAMS:
		return "Sam's Club"
	case ProviderCITY:
		return "City Club"
	default:
		return ""
	}
}

// EntityProperty is one nested field of an extracted entity, as returned by
// the extraction service.
type EntityProperty struct {
	Type        string `json:"type"`
	MentionText string `json:"mentionText"`
}

// ExtractedEntity is one recognized region of the source document.
type ExtractedEntity struct {
	Type        string           `json:"type"`
	MentionText string           `json:"mentionText"`
	Properties  []EntityProperty `json:"properties,omitempty"`
}

// Header carries the document-level fields. InvoiceDate is already
// normalized to DD/MM/YYYY where possible.
type Header struct {
	InvoiceID   string
	InvoiceDate string
}

// RawLineItem is the provider-agnostic carrier of one line item's field
// values. Everything stays a raw string until it passes through util's
// parsers. SAMS fills Amount/Discount/TaxText; CITY fills
// Amount/TotalAmount/VATAmount/IEPSAmount.
type RawLineItem struct {
	SupplierCode string
	Description  string
	Quantity     string
	Amount       string
	Discount     string
	TaxText      string
	TotalAmount  string
	VATAmount    string
	IEPSAmount   string
}

// ComputedLine is the terminal record for one surviving line item.
type ComputedLine struct {
	SupplierCode string
	Description  string
	Quantity     decimal.Decimal
	UnitNetCost  decimal.Decimal
	LineNetCost  decimal.Decimal
	IVALabel     string
	IEPSLabel    string
	InvoiceDate  string
	InvoiceID    string
	Provider     ProviderSchema
}

// EntryRow is the ten-column output record in its fixed order.
type EntryRow struct {
	SKU         string
	Description string
	Quantity    string
	UnitNetCost string
	LineNetCost string
	IVALabel    string
	IEPSLabel   string
	InvoiceDate string
	InvoiceID   string
	Provider    string
}

// Columns returns the row in sink order:
// SKU, Descripción, Unidades, Costo por unidad neta, Costo total,
// Producto con IVA, Producto con IEPS, Fecha, Factura proveedor, Proveedor.
func (r EntryRow) Columns() []string {
	return []string{
		r.SKU,
		r.Description,
		r.Quantity,
		r.UnitNetCost,
		r.LineNetCost,
		r.IVALabel,
		r.IEPSLabel,
		r.InvoiceDate,
		r.InvoiceID,
		r.Provider,
	}
}

// ProductRecord is one row of the supplier-code → internal-SKU mapping.
type ProductRecord struct {
	SKU          string
	Description  string
	SupplierCode string
}

// DocumentRow is the ledger entry for one fetched source document.
type DocumentRow struct {
	ID         int
	Name       string
	Hash       string
	Provider   string
	Status     string
	PDFRef     string
	ExtractRef string
	InvoiceID  string
	FailReason string
	Archived   bool
}

const (
	DocStatusFetched   = "fetched"
	DocStatusProcessed = "processed"
	DocStatusSkipped   = "skipped"
	DocStatusFailed    = "failed"
	DocStatusExported  = "exported"
)
