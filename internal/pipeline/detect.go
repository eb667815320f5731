package pipeline

import (
	"bytes"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"facturas/internal"
)

// DetectProvider sniffs the supplier layout from the first page of a PDF.
func DetectProvider(content []byte) internal.ProviderSchema {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil || r.NumPage() < 1 {
		return internal.ProviderUnknown
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return internal.ProviderUnknown
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return internal.ProviderUnknown
	}
	return DetectProviderFromText(text)
}

func DetectProviderFromText(text string) internal.ProviderSchema {
	t := strings.ToUpper(text)
	switch {
	case strings.Contains(t, "NUEVA WAL MART DE MEXICO"),
		strings.Contains(t, "SAM'S CLUB"),
		strings.Contains(t, "SAMS CLUB"):
		return internal.ProviderSAMS
	case strings.Contains(t, "TIENDAS SORIANA"),
		strings.Contains(t, "CITY CLUB"):
		return internal.ProviderCITY
	}
	return internal.ProviderUnknown
}
