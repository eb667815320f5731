package catalog

import (
	"testing"

	"facturas/internal"
)

func TestMappingLookupNormalizesCode(t *testing.T) {
	m := NewMapping([]internal.ProductRecord{
		{SKU: "SKU-1", SupplierCode: "AB-12"},
		{SKU: "SKU-2", SupplierCode: "7754"},
	})

	rec, ok := m.Lookup("ab 12")
	if !ok || rec.SKU != "SKU-1" {
		t.Fatalf("Lookup(ab 12) = %+v, %v", rec, ok)
	}
	if _, ok := m.Lookup("9999"); ok {
		t.Fatal("unexpected hit for unmapped code")
	}
}

func TestMappingFirstRecordWins(t *testing.T) {
	m := NewMapping([]internal.ProductRecord{
		{SKU: "FIRST", SupplierCode: "100"},
		{SKU: "SECOND", SupplierCode: "100"},
	})
	rec, _ := m.Lookup("100")
	if rec.SKU != "FIRST" {
		t.Fatalf("SKU = %q, want FIRST", rec.SKU)
	}
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
}

func TestMappingSkipsEmptyCodes(t *testing.T) {
	m := NewMapping([]internal.ProductRecord{{SKU: "X", SupplierCode: "  "}})
	if m.Len() != 0 {
		t.Fatalf("Len = %d, want 0", m.Len())
	}
}
