package connectors

import (
	"context"
	"fmt"

	"facturas/internal/storage"
)

type FetchService struct {
	db      *storage.DB
	objects ObjectStore
	store   *DocStoreService
}

type FetchResult struct {
	Fetched int
	Stored  int
}

func NewFetchService(db *storage.DB, rawDocDir string, objects ObjectStore) *FetchService {
	return &FetchService{
		db:      db,
		objects: objects,
		store:   NewDocStoreService(db, rawDocDir),
	}
}

// FetchAndStore pulls up to max pending documents from the input location
// into the local ledger. Stored counts only new documents; a redelivered
// object is fetched but not stored again.
func (s *FetchService) FetchAndStore(ctx context.Context, max int) (FetchResult, error) {
	names, err := s.objects.ListInput(ctx, max)
	if err != nil {
		return FetchResult{}, err
	}

	result := FetchResult{Fetched: len(names)}
	for _, name := range names {
		data, err := s.objects.Download(ctx, name)
		if err != nil {
			return result, fmt.Errorf("download %s: %w", name, err)
		}
		_, created, err := s.store.Store(name, data)
		if err != nil {
			return result, fmt.Errorf("store %s: %w", name, err)
		}
		if created {
			result.Stored++
		}
	}

	return result, nil
}
