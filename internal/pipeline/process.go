package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"facturas/internal"
	"facturas/internal/catalog"
	"facturas/internal/config"
	"facturas/internal/docai"
	"facturas/internal/storage"
)

// Extractor runs a provider-specific processor over raw PDF bytes.
type Extractor interface {
	Extract(ctx context.Context, pdfData []byte, provider internal.ProviderSchema) ([]internal.ExtractedEntity, error)
}

// RowSink receives the finished entry rows, normally the spreadsheet tab.
type RowSink interface {
	AppendEntries(ctx context.Context, rows []internal.EntryRow) error
}

// MappingSource supplies the supplier-code to SKU mapping.
type MappingSource interface {
	Snapshot(ctx context.Context) catalog.Mapping
}

type ProcessingService struct {
	db        *storage.DB
	cfg       config.Config
	extractor Extractor
	sink      RowSink
	mappings  MappingSource
}

func NewProcessingService(db *storage.DB, cfg config.Config, extractor Extractor, sink RowSink, mappings MappingSource) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg, extractor: extractor, sink: sink, mappings: mappings}
}

type ProcessResult struct {
	DocumentID int
	Provider   internal.ProviderSchema
	Rows       int
}

// ProcessPending walks the fetched queue. A document that fails is marked
// failed with its reason and the walk continues; one bad invoice must not
// stall the rest of the batch.
func (s *ProcessingService) ProcessPending(ctx context.Context, limit int) (int, int, error) {
	pending, err := s.db.ListDocumentsByStatus(internal.DocStatusFetched, limit)
	if err != nil {
		return 0, 0, err
	}

	processed, failed := 0, 0
	for _, doc := range pending {
		if _, err := s.ProcessDocument(ctx, doc); err != nil {
			failed++
			s.markFailed(doc.ID, err)
			continue
		}
		processed++
	}
	return processed, failed, nil
}

func (s *ProcessingService) ProcessByID(ctx context.Context, id int) (ProcessResult, error) {
	doc, err := s.db.MustDocumentByID(id)
	if err != nil {
		return ProcessResult{}, err
	}
	res, err := s.ProcessDocument(ctx, doc)
	if err != nil {
		s.markFailed(doc.ID, err)
		return ProcessResult{}, err
	}
	return res, nil
}

func (s *ProcessingService) ProcessDocument(ctx context.Context, doc internal.DocumentRow) (ProcessResult, error) {
	start := time.Now()

	provider, entities, err := s.materializeEntities(ctx, doc)
	if err != nil {
		return ProcessResult{}, err
	}

	if provider == internal.ProviderUnknown {
		if err := s.db.UpdateDocumentStatus(doc.ID, internal.DocStatusSkipped); err != nil {
			return ProcessResult{}, err
		}
		_ = s.db.InsertRun(traceID(), doc.ID,
			map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
			map[string]int{"entities": 0, "items": 0, "unique": 0, "rows": 0})
		return ProcessResult{DocumentID: doc.ID, Provider: provider, Rows: 0}, nil
	}

	header, items, err := ParseEntities(provider, entities)
	if err != nil {
		return ProcessResult{}, err
	}

	unique := DedupeItems(provider, items)

	lines, err := ComputeLines(provider, header, unique)
	if err != nil {
		return ProcessResult{}, err
	}

	mapping := s.mappings.Snapshot(ctx)
	rows := BuildRows(lines, mapping)

	if s.sink != nil {
		if err := s.sink.AppendEntries(ctx, rows); err != nil {
			return ProcessResult{}, fmt.Errorf("append rows: %w", err)
		}
	}

	if err := s.db.ReplaceEntries(doc.ID, rows); err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.SetDocumentInvoice(doc.ID, header.InvoiceID); err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.UpdateDocumentStatus(doc.ID, internal.DocStatusProcessed); err != nil {
		return ProcessResult{}, err
	}

	_ = s.db.InsertRun(traceID(), doc.ID,
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"entities": len(entities), "items": len(items), "unique": len(unique), "rows": len(rows)})

	fmt.Printf("processed document id=%d provider=%s invoice=%s rows=%d\n", doc.ID, provider, header.InvoiceID, len(rows))

	return ProcessResult{DocumentID: doc.ID, Provider: provider, Rows: len(rows)}, nil
}

// materializeEntities resolves the provider schema and the extraction for
// a document. A cached extraction is reused so a reprocess does not call
// the processor again.
func (s *ProcessingService) materializeEntities(ctx context.Context, doc internal.DocumentRow) (internal.ProviderSchema, []internal.ExtractedEntity, error) {
	if doc.ExtractRef != "" && doc.Provider != "" {
		entities, err := docai.LoadEntities(doc.ExtractRef)
		if err == nil {
			return internal.ProviderSchema(doc.Provider), entities, nil
		}
		fmt.Printf("cached extraction unreadable for id=%d, re-extracting: %v\n", doc.ID, err)
	}

	pdfData, err := os.ReadFile(doc.PDFRef)
	if err != nil {
		return internal.ProviderUnknown, nil, fmt.Errorf("read pdf: %w", err)
	}

	provider := DetectProvider(pdfData)
	if err := s.db.SetDocumentProvider(doc.ID, string(provider)); err != nil {
		return internal.ProviderUnknown, nil, err
	}
	if provider == internal.ProviderUnknown {
		return provider, nil, nil
	}

	entities, err := s.extractor.Extract(ctx, pdfData, provider)
	if err != nil {
		return provider, nil, fmt.Errorf("extract: %w", err)
	}

	extractPath := filepath.Join(s.cfg.RawDocDir, doc.Hash+".json")
	if err := docai.SaveEntities(extractPath, entities); err != nil {
		return provider, nil, err
	}
	if err := s.db.SetDocumentExtractRef(doc.ID, extractPath); err != nil {
		return provider, nil, err
	}

	return provider, entities, nil
}

func (s *ProcessingService) markFailed(id int, cause error) {
	reason := strings.TrimSpace(cause.Error())
	if err := s.db.SetDocumentFailure(id, reason); err != nil {
		fmt.Printf("failed to record failure for document id=%d: %v\n", id, err)
	}
	fmt.Printf("document id=%d failed: %s\n", id, reason)
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
