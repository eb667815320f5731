package pipeline

import (
	"reflect"
	"testing"

	"facturas/internal"
)

func TestDedupeItemsIdentical(t *testing.T) {
	item := internal.RawLineItem{
		SupplierCode: "4011",
		Description:  "PLATANO CHIAPAS",
		Quantity:     "2",
		Amount:       "100.00",
		Discount:     "10.00",
	}
	items := []internal.RawLineItem{item, item, item}

	out := DedupeItems(internal.ProviderSAMS, items)
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
}

func TestDedupeItemsKeepsOrderAndFirst(t *testing.T) {
	items := []internal.RawLineItem{
		{SupplierCode: "B", Quantity: "1", Amount: "5"},
		{SupplierCode: "A", Quantity: "1", Amount: "5"},
		{SupplierCode: "B", Quantity: "1", Amount: "5", Description: "repeat"},
	}

	out := DedupeItems(internal.ProviderCITY, items)
	if len(out) != 3 {
		// The repeat carries a different description, so it is a distinct item.
		t.Fatalf("len = %d, want 3", len(out))
	}
	if out[0].SupplierCode != "B" || out[1].SupplierCode != "A" {
		t.Fatalf("order not preserved: %v", out)
	}
}

func TestDedupeItemsNormalizedEquality(t *testing.T) {
	items := []internal.RawLineItem{
		{SupplierCode: "ab-12", Description: "Café  Soluble", Quantity: "2", Amount: "100.00"},
		{SupplierCode: "AB12", Description: "CAFE SOLUBLE", Quantity: "2.0", Amount: "100"},
	}

	out := DedupeItems(internal.ProviderCITY, items)
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
}

func TestDedupeItemsDiscountOnlyMattersForSams(t *testing.T) {
	items := []internal.RawLineItem{
		{SupplierCode: "4011", Quantity: "2", Amount: "100", Discount: "10"},
		{SupplierCode: "4011", Quantity: "2", Amount: "100", Discount: "20"},
	}

	if out := DedupeItems(internal.ProviderSAMS, items); len(out) != 2 {
		t.Fatalf("sams len = %d, want 2", len(out))
	}
	if out := DedupeItems(internal.ProviderCITY, items); len(out) != 1 {
		t.Fatalf("city len = %d, want 1", len(out))
	}
}

func TestDedupeItemsIdempotent(t *testing.T) {
	items := []internal.RawLineItem{
		{SupplierCode: "A", Quantity: "1", Amount: "5"},
		{SupplierCode: "A", Quantity: "1", Amount: "5"},
		{SupplierCode: "B", Quantity: "1", Amount: "5"},
	}

	once := DedupeItems(internal.ProviderCITY, items)
	twice := DedupeItems(internal.ProviderCITY, once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("not idempotent: %v vs %v", once, twice)
	}
}
