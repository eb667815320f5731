package util

import "testing"

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "45.00", want: "45"},
		{name: "currency and thousands", input: "$1,234.56", want: "1234.56"},
		{name: "negative", input: "-45.3 MXN", want: "-45.3"},
		{name: "trailing percent", input: "16.000000 %", want: "16"},
		{name: "embedded", input: "TOTAL: 232.00 PESOS", want: "232"},
		{name: "no number", input: "N/A", want: "0"},
		{name: "empty", input: "", want: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseDecimal(tc.input)
			if got.String() != tc.want {
				t.Fatalf("got %s want %s", got.String(), tc.want)
			}
		})
	}
}

func TestParsePercentNear(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		label     string
		want      string
		wantFound bool
	}{
		{name: "iva", text: "IVA 16% IEPS 8%", label: "IVA", want: "0.16", wantFound: true},
		{name: "ieps", text: "IVA 16% IEPS 8%", label: "IEPS", want: "0.08", wantFound: true},
		{name: "long decimals", text: "IVA 16.000000 %", label: "IVA", want: "0.16", wantFound: true},
		{name: "comma decimal", text: "IEPS 8,5 %", label: "IEPS", want: "0.085", wantFound: true},
		{name: "explicit zero", text: "IVA 0%", label: "IVA", want: "0", wantFound: true},
		{name: "absent label", text: "IEPS 8%", label: "IVA", want: "0", wantFound: false},
		{name: "empty block", text: "", label: "IVA", want: "0", wantFound: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := ParsePercentNear(tc.text, tc.label)
			if found != tc.wantFound {
				t.Fatalf("found=%v want %v", found, tc.wantFound)
			}
			if got.String() != tc.want {
				t.Fatalf("got %s want %s", got.String(), tc.want)
			}
		})
	}
}

func TestLabelPercent(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		found bool
		want  string
	}{
		{name: "integral", text: "0.16", found: true, want: "Aplicable 16%"},
		{name: "fractional", text: "0.085", found: true, want: "Aplicable 8.5%"},
		{name: "high excise", text: "0.53", found: true, want: "Aplicable 53%"},
		{name: "explicit zero", text: "0", found: true, want: "No Aplicable"},
		{name: "absent", text: "0", found: false, want: "No Aplicable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := LabelPercent(ParseDecimal(tc.text), tc.found)
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

// Re-extracting the rate from a rendered label and rendering it again must
// reproduce the label.
func TestLabelPercentRoundTrip(t *testing.T) {
	for _, raw := range []string{"0.16", "0.085", "0.53"} {
		label := LabelPercent(ParseDecimal(raw), true)
		rate, found := ParsePercentNear(label, "Aplicable")
		if !found {
			t.Fatalf("rate not found in %q", label)
		}
		if again := LabelPercent(rate, true); again != label {
			t.Fatalf("round trip %q -> %q", label, again)
		}
	}
}
