package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"facturas/internal"
	"facturas/internal/util"
)

// ErrUnknownProvider marks a document whose supplier layout has no schema
// table or cost formula. There is no generic fallback.
var ErrUnknownProvider = errors.New("unknown provider schema")

// ParseEntities maps a raw extraction result onto the provider-agnostic
// header and line-item records. Entities of unrecognized type are ignored.
func ParseEntities(provider internal.ProviderSchema, entities []internal.ExtractedEntity) (internal.Header, []internal.RawLineItem, error) {
	switch provider {
	case internal.ProviderSAMS:
		header, items := parseSams(entities)
		return header, items, nil
	case internal.ProviderCITY:
		header, items := parseCity(entities)
		return header, items, nil
	default:
		return internal.Header{}, nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

func parseSams(entities []internal.ExtractedEntity) (internal.Header, []internal.RawLineItem) {
	header := parseHeader(entities, "FECHA_FACTURA", "NUMERO_FACTURA")

	items := make([]internal.RawLineItem, 0)
	for _, e := range entities {
		if util.NormalizeType(e.Type) != "PRODUCTO" {
			continue
		}
		props := propMap(e.Properties)
		items = append(items, internal.RawLineItem{
			SupplierCode: strings.TrimSpace(props["CODIGO_DE_PRODUCTO"]),
			Description:  strings.TrimSpace(props["DESCRIPCION_PRODUCTO"]),
			Quantity:     props["CANTIDAD_PRODUCTO"],
			Amount:       props["COSTO_TOTAL_POR_PRODUCTO"],
			Discount:     props["DESCUENTO"],
			TaxText:      props["IVA"],
		})
	}
	return header, items
}

func parseCity(entities []internal.ExtractedEntity) (internal.Header, []internal.RawLineItem) {
	header := parseHeader(entities, "INVOICE_DATE", "INVOICE_ID")

	items := make([]internal.RawLineItem, 0)
	for _, e := range entities {
		if util.NormalizeType(e.Type) != "LINE_ITEM" {
			continue
		}
		props := propMap(e.Properties)
		items = append(items, internal.RawLineItem{
			SupplierCode: strings.TrimSpace(props["PRODUCT_CODE"]),
			Description:  strings.TrimSpace(props["DESCRIPTION"]),
			Quantity:     props["QUANTITY"],
			Amount:       props["AMOUNT"],
			TotalAmount:  props["TOTAL_AMOUNT"],
			VATAmount:    props["VAT"],
			IEPSAmount:   props["IEPS"],
		})
	}
	return header, items
}

// parseHeader scans for the date and invoice-id entity types. The first
// non-empty occurrence of each wins; later duplicates are ignored.
func parseHeader(entities []internal.ExtractedEntity, dateType, idType string) internal.Header {
	var header internal.Header
	for _, e := range entities {
		t := util.NormalizeType(e.Type)
		mention := strings.TrimSpace(e.MentionText)
		if mention == "" {
			continue
		}
		switch {
		case t == dateType && header.InvoiceDate == "":
			header.InvoiceDate = util.NormalizeDate(mention)
		case t == idType && header.InvoiceID == "":
			header.InvoiceID = mention
		}
	}
	return header
}

func propMap(props []internal.EntityProperty) map[string]string {
	out := make(map[string]string, len(props))
	for _, p := range props {
		out[util.NormalizeType(p.Type)] = p.MentionText
	}
	return out
}
