package pipeline

import (
	"errors"
	"testing"

	"facturas/internal"
)

func samsProduct(props map[string]string) internal.ExtractedEntity {
	e := internal.ExtractedEntity{Type: "PRODUCTO"}
	for k, v := range props {
		e.Properties = append(e.Properties, internal.EntityProperty{Type: k, MentionText: v})
	}
	return e
}

func TestParseEntitiesSams(t *testing.T) {
	entities := []internal.ExtractedEntity{
		{Type: "FECHA_FACTURA", MentionText: "27 de Mayo del 2025"},
		{Type: "NUMERO_FACTURA", MentionText: "FA-1001"},
		samsProduct(map[string]string{
			"CODIGO_DE_PRODUCTO":       " 4011 ",
			"DESCRIPCION_PRODUCTO":     "PLATANO CHIAPAS",
			"CANTIDAD_PRODUCTO":        "2",
			"COSTO_TOTAL_POR_PRODUCTO": "$100.00",
			"DESCUENTO":                "10.00",
			"IVA":                      "IVA 16.000000 % IEPS 8.000000 %",
		}),
	}

	header, items, err := ParseEntities(internal.ProviderSAMS, entities)
	if err != nil {
		t.Fatalf("ParseEntities: %v", err)
	}
	if header.InvoiceDate != "27/05/2025" {
		t.Fatalf("InvoiceDate = %q", header.InvoiceDate)
	}
	if header.InvoiceID != "FA-1001" {
		t.Fatalf("InvoiceID = %q", header.InvoiceID)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d", len(items))
	}
	item := items[0]
	if item.SupplierCode != "4011" {
		t.Errorf("SupplierCode = %q", item.SupplierCode)
	}
	if item.Amount != "$100.00" || item.Discount != "10.00" {
		t.Errorf("Amount/Discount = %q / %q", item.Amount, item.Discount)
	}
	if item.TaxText != "IVA 16.000000 % IEPS 8.000000 %" {
		t.Errorf("TaxText = %q", item.TaxText)
	}
}

func TestParseEntitiesCity(t *testing.T) {
	entities := []internal.ExtractedEntity{
		{Type: "invoice_date", MentionText: "05-03-2025"},
		{Type: "invoice_id", MentionText: "CC-778"},
		{Type: "line_item", Properties: []internal.EntityProperty{
			{Type: "product_code", MentionText: "880112"},
			{Type: "description", MentionText: "CAFE SOLUBLE"},
			{Type: "quantity", MentionText: "10"},
			{Type: "amount", MentionText: "200.00"},
			{Type: "total_amount", MentionText: "232.00"},
			{Type: "vat", MentionText: "32.00"},
		}},
	}

	header, items, err := ParseEntities(internal.ProviderCITY, entities)
	if err != nil {
		t.Fatalf("ParseEntities: %v", err)
	}
	if header.InvoiceDate != "05/03/2025" {
		t.Fatalf("InvoiceDate = %q", header.InvoiceDate)
	}
	if header.InvoiceID != "CC-778" {
		t.Fatalf("InvoiceID = %q", header.InvoiceID)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d", len(items))
	}
	if items[0].TotalAmount != "232.00" || items[0].VATAmount != "32.00" {
		t.Errorf("TotalAmount/VATAmount = %q / %q", items[0].TotalAmount, items[0].VATAmount)
	}
	if items[0].IEPSAmount != "" {
		t.Errorf("IEPSAmount = %q, want empty", items[0].IEPSAmount)
	}
}

func TestParseHeaderFirstNonEmptyWins(t *testing.T) {
	entities := []internal.ExtractedEntity{
		{Type: "NUMERO_FACTURA", MentionText: "  "},
		{Type: "NUMERO_FACTURA", MentionText: "FA-1"},
		{Type: "NUMERO_FACTURA", MentionText: "FA-2"},
	}
	header, _, err := ParseEntities(internal.ProviderSAMS, entities)
	if err != nil {
		t.Fatalf("ParseEntities: %v", err)
	}
	if header.InvoiceID != "FA-1" {
		t.Fatalf("InvoiceID = %q, want FA-1", header.InvoiceID)
	}
}

func TestParseEntitiesIgnoresUnknownTypes(t *testing.T) {
	entities := []internal.ExtractedEntity{
		{Type: "SUBTOTAL", MentionText: "999"},
		{Type: "algo_raro", MentionText: "x"},
	}
	_, items, err := ParseEntities(internal.ProviderSAMS, entities)
	if err != nil {
		t.Fatalf("ParseEntities: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %d, want 0", len(items))
	}
}

func TestParseEntitiesUnknownProvider(t *testing.T) {
	_, _, err := ParseEntities(internal.ProviderUnknown, nil)
	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("err = %v, want ErrUnknownProvider", err)
	}
}
