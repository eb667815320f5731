package util

import "testing"

func TestNormalizeType(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "descripción_producto", want: "DESCRIPCION_PRODUCTO"},
		{input: "NÚMERO_FACTURA", want: "NUMERO_FACTURA"},
		{input: " producto ", want: "PRODUCTO"},
		{input: "line_item", want: "LINE_ITEM"},
	}
	for _, tc := range cases {
		if got := NormalizeType(tc.input); got != tc.want {
			t.Fatalf("NormalizeType(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMappingKey(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: " 980-123 456 ", want: "980123456"},
		{input: "ab-12.3", want: "AB123"},
		{input: "CÓD 55", want: "COD55"},
		{input: "---", want: ""},
	}
	for _, tc := range cases {
		if got := MappingKey(tc.input); got != tc.want {
			t.Fatalf("MappingKey(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
