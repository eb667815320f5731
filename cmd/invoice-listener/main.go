package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"facturas/internal"
	"facturas/internal/catalog"
	"facturas/internal/config"
	"facturas/internal/connectors"
	gcsconnector "facturas/internal/connectors/gcs"
	localconnector "facturas/internal/connectors/local"
	"facturas/internal/docai"
	"facturas/internal/listener"
	"facturas/internal/pipeline"
	"facturas/internal/sheets"
	"facturas/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	objects, err := makeStore(ctx, cfg)
	must(err)

	extractor, err := docai.NewClient(ctx, cfg.ProjectID, cfg.DocAILocation)
	must(err)
	extractor.RegisterProcessor(internal.ProviderSAMS, cfg.SamsProcessorID, cfg.SamsProcessorVersionID)
	extractor.RegisterProcessor(internal.ProviderCITY, cfg.CityProcessorID, cfg.CityProcessorVersionID)

	var sink pipeline.RowSink
	var source catalog.ProductSource
	if cfg.SpreadsheetID != "" {
		sheetsClient, err := sheets.NewClient(ctx, cfg.SpreadsheetID, cfg.ProductsRange, cfg.EntriesRange)
		must(err)
		sink = sheetsClient
		source = sheetsClient
	}

	mappings := catalog.NewSyncService(db, source)
	processor := pipeline.NewProcessingService(db, cfg, extractor, sink, mappings)

	svc := listener.NewService(db, cfg, objects, processor)
	must(svc.Run(ctx))
}

func makeStore(ctx context.Context, cfg config.Config) (connectors.ObjectStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.ListenerStore)) {
	case "gcs":
		return gcsconnector.NewConnector(ctx, cfg)
	case "local":
		return localconnector.NewConnector(cfg.LocalInputDir, cfg.LocalDoneDir), nil
	default:
		return nil, fmt.Errorf("unsupported store: %s", cfg.ListenerStore)
	}
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
