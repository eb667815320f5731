package util

import "testing"

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "slash", input: "27/05/2025", want: "27/05/2025"},
		{name: "dash", input: "27-05-2025", want: "27/05/2025"},
		{name: "dot", input: "27.05.2025", want: "27/05/2025"},
		{name: "iso", input: "2025-05-27", want: "27/05/2025"},
		{name: "spanish del", input: "27 de Mayo del 2025", want: "27/05/2025"},
		{name: "spanish de", input: "27 de MAYO de 2025", want: "27/05/2025"},
		{name: "spanish alternate spelling", input: "3 de Setiembre del 2025", want: "03/09/2025"},
		{name: "two digit year", input: "5/3/25", want: "05/03/2025"},
		{name: "single digits", input: "7-3-2025", want: "07/03/2025"},
		{name: "unreadable stays", input: "sin fecha", want: "sin fecha"},
		{name: "empty", input: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeDate(tc.input); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}
