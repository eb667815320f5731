package catalog

import (
	"facturas/internal"
	"facturas/internal/util"
)

// Mapping is a read-only snapshot of the supplier-code → internal-SKU
// catalog, keyed by the normalized form of the supplier code.
type Mapping struct {
	byKey map[string]internal.ProductRecord
}

func NewMapping(records []internal.ProductRecord) Mapping {
	m := Mapping{byKey: make(map[string]internal.ProductRecord, len(records))}
	for _, r := range records {
		key := util.MappingKey(r.SupplierCode)
		if key == "" {
			continue
		}
		if _, exists := m.byKey[key]; exists {
			continue
		}
		m.byKey[key] = r
	}
	return m
}

func (m Mapping) Lookup(supplierCode string) (internal.ProductRecord, bool) {
	rec, ok := m.byKey[util.MappingKey(supplierCode)]
	return rec, ok
}

func (m Mapping) Len() int {
	return len(m.byKey)
}
