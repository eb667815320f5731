package catalog

import (
	"context"
	"fmt"
	"time"

	"facturas/internal"
	"facturas/internal/storage"
)

// ProductSource is anything that can produce the current catalog rows;
// in production this is the PRODUCTOS sheet.
type ProductSource interface {
	ReadProducts(ctx context.Context) ([]internal.ProductRecord, error)
}

// SyncService caches the spreadsheet-maintained product catalog in the
// local database so processing can run from a snapshot.
type SyncService struct {
	db     *storage.DB
	source ProductSource
}

func NewSyncService(db *storage.DB, source ProductSource) *SyncService {
	return &SyncService{db: db, source: source}
}

func (s *SyncService) Sync(ctx context.Context) (int, error) {
	if s.source == nil {
		return 0, fmt.Errorf("no product source configured")
	}
	records, err := s.source.ReadProducts(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.db.ReplaceMappings(records); err != nil {
		return 0, err
	}
	_ = s.db.SetMetadata("catalog.last_sync", time.Now().UTC().Format(time.RFC3339))
	return len(records), nil
}

// Snapshot returns the current mapping. It refreshes from the source first
// when one is configured; a refresh failure falls back to the cached copy,
// and a missing cache yields an empty mapping — processing then emits raw
// supplier codes rather than failing the document.
func (s *SyncService) Snapshot(ctx context.Context) Mapping {
	if s.source != nil {
		if _, err := s.Sync(ctx); err != nil {
			fmt.Printf("catalog sync failed, using cached mapping: %v\n", err)
		}
	}
	records, err := s.db.ListMappings()
	if err != nil {
		return Mapping{}
	}
	return NewMapping(records)
}
