package pipeline

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"facturas/internal"
	"facturas/internal/catalog"
)

func TestBuildRowsMapsSupplierCode(t *testing.T) {
	mapping := catalog.NewMapping([]internal.ProductRecord{
		{SKU: "SKU-PLATANO", Description: "Plátano", SupplierCode: "4011"},
	})

	lines := []internal.ComputedLine{{
		SupplierCode: "4011",
		Description:  "PLATANO CHIAPAS",
		Quantity:     decimal.NewFromInt(2),
		UnitNetCost:  decimal.RequireFromString("56.376"),
		LineNetCost:  decimal.RequireFromString("112.752"),
		IVALabel:     "Aplicable 16%",
		IEPSLabel:    "Aplicable 8%",
		InvoiceDate:  "27/05/2025",
		InvoiceID:    "FA-1001",
		Provider:     internal.ProviderSAMS,
	}}

	rows := BuildRows(lines, mapping)
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}

	want := internal.EntryRow{
		SKU:         "SKU-PLATANO",
		Description: "PLATANO CHIAPAS",
		Quantity:    "2",
		UnitNetCost: "56.38",
		LineNetCost: "112.75",
		IVALabel:    "Aplicable 16%",
		IEPSLabel:   "Aplicable 8%",
		InvoiceDate: "27/05/2025",
		InvoiceID:   "FA-1001",
		Provider:    "Sam's Club",
	}
	if !reflect.DeepEqual(rows[0], want) {
		t.Fatalf("row = %+v, want %+v", rows[0], want)
	}
}

func TestBuildRowsUnmappedCodePassesThrough(t *testing.T) {
	lines := []internal.ComputedLine{{
		SupplierCode: "999999",
		Quantity:     decimal.NewFromInt(1),
		UnitNetCost:  decimal.NewFromInt(10),
		LineNetCost:  decimal.NewFromInt(10),
		Provider:     internal.ProviderCITY,
	}}

	rows := BuildRows(lines, catalog.NewMapping(nil))
	if rows[0].SKU != "999999" {
		t.Fatalf("SKU = %q, want raw code", rows[0].SKU)
	}
	if rows[0].Provider != "City Club" {
		t.Fatalf("Provider = %q", rows[0].Provider)
	}
}

func TestBuildRowsQuantityFormatting(t *testing.T) {
	cases := []struct {
		qty  string
		want string
	}{
		{"3", "3"},
		{"3.0", "3"},
		{"2.5", "2.5"},
		{"0.25", "0.25"},
	}
	for _, tc := range cases {
		lines := []internal.ComputedLine{{Quantity: decimal.RequireFromString(tc.qty)}}
		rows := BuildRows(lines, catalog.NewMapping(nil))
		if rows[0].Quantity != tc.want {
			t.Errorf("qty %s: got %q, want %q", tc.qty, rows[0].Quantity, tc.want)
		}
	}
}

func TestBuildRowsColumnOrder(t *testing.T) {
	row := internal.EntryRow{
		SKU: "a", Description: "b", Quantity: "c", UnitNetCost: "d", LineNetCost: "e",
		IVALabel: "f", IEPSLabel: "g", InvoiceDate: "h", InvoiceID: "i", Provider: "j",
	}
	want := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	if got := row.Columns(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Columns() = %v", got)
	}
}
