package listener

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"facturas/internal"
	"facturas/internal/config"
	"facturas/internal/connectors"
	"facturas/internal/pipeline"
	"facturas/internal/storage"
)

type Service struct {
	db        *storage.DB
	cfg       config.Config
	objects   connectors.ObjectStore
	processor *pipeline.ProcessingService
}

func NewService(db *storage.DB, cfg config.Config, objects connectors.ObjectStore, processor *pipeline.ProcessingService) *Service {
	return &Service{db: db, cfg: cfg, objects: objects, processor: processor}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			fmt.Printf("listener cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.ListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	fetchService := connectors.NewFetchService(s.db, s.cfg.RawDocDir, s.objects)
	fetchResult, err := fetchService.FetchAndStore(ctx, s.cfg.ListenerFetchMax)
	if err != nil {
		return err
	}

	processed, failed, err := s.processor.ProcessPending(ctx, s.cfg.ListenerBatch)
	if err != nil {
		return err
	}

	archived, err := s.archiveFinished(ctx)
	if err != nil {
		return err
	}

	if s.cfg.ListenerAutoExport {
		if err := s.exportProcessed(); err != nil {
			return err
		}
	}

	fmt.Printf("listener cycle done fetched=%d stored=%d processed=%d failed=%d archived=%d\n",
		fetchResult.Fetched, fetchResult.Stored, processed, failed, archived)
	return nil
}

// archiveFinished moves the source objects of finished documents out of the
// input location. A failed move is logged and retried next cycle; the
// ledger row stays unarchived until the move succeeds.
func (s *Service) archiveFinished(ctx context.Context) (int, error) {
	docs, err := s.db.ListDocumentsToArchive(s.cfg.ListenerBatch)
	if err != nil {
		return 0, err
	}

	archived := 0
	for _, doc := range docs {
		if err := s.objects.Archive(ctx, doc.Name); err != nil {
			fmt.Printf("archive %s failed, will retry: %v\n", doc.Name, err)
			continue
		}
		if err := s.db.MarkDocumentArchived(doc.ID); err != nil {
			return archived, err
		}
		archived++
	}
	return archived, nil
}

func (s *Service) exportProcessed() error {
	docs, err := s.db.ListDocumentsByStatus(internal.DocStatusProcessed, 200)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		rows, err := s.db.GetEntryRows(doc.ID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			continue
		}
		filename := fmt.Sprintf("%d_%s.xlsx", doc.ID, sanitizeName(doc.Name))
		outputPath := filepath.Join(s.cfg.OutputDir, "listener", filename)
		if err := pipeline.ExportEntriesToXLSX(rows, outputPath); err != nil {
			return err
		}
		if err := s.db.UpdateDocumentStatus(doc.ID, internal.DocStatusExported); err != nil {
			return err
		}
	}
	return nil
}

func sanitizeName(input string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", " ", "_")
	out := repl.Replace(strings.TrimSuffix(input, ".pdf"))
	if len(out) > 120 {
		out = out[:120]
	}
	return out
}
