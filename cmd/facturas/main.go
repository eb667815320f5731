package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

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

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx := context.Background()

	cmd := os.Args[1]
	switch cmd {
	case "catalog:sync":
		sheetsClient, err := makeSheets(ctx, cfg)
		must(err)
		svc := catalog.NewSyncService(db, sheetsClient)
		count, err := svc.Sync(ctx)
		must(err)
		fmt.Printf("catalog sync complete: %d products\n", count)
	case "docs:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		store := fs.String("store", cfg.ListenerStore, "gcs|local")
		max := fs.Int("max", cfg.ListenerFetchMax, "max documents")
		_ = fs.Parse(os.Args[2:])
		objects, err := makeStore(ctx, cfg, *store)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawDocDir, objects)
		result, err := fetch.FetchAndStore(ctx, *max)
		must(err)
		fmt.Printf("docs fetch done store=%s fetched=%d stored=%d\n", *store, result.Fetched, result.Stored)
	case "docs:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.Int("id", 0, "specific document id")
		batch := fs.Int("batch", cfg.ListenerBatch, "batch size")
		noAppend := fs.Bool("no-append", false, "skip the spreadsheet append")
		_ = fs.Parse(os.Args[2:])
		processor, err := makeProcessor(ctx, db, cfg, !*noAppend)
		must(err)
		if *id != 0 {
			res, err := processor.ProcessByID(ctx, *id)
			must(err)
			fmt.Printf("processed document id=%d provider=%s rows=%d\n", res.DocumentID, res.Provider, res.Rows)
			return
		}
		processed, failed, err := processor.ProcessPending(ctx, *batch)
		must(err)
		fmt.Printf("processed pending documents=%d failed=%d\n", processed, failed)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		docID := fs.Int("docId", 0, "internal document id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *docID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--docId and --out are required"))
		}
		rows, err := db.GetEntryRows(*docID)
		must(err)
		if len(rows) == 0 {
			must(fmt.Errorf("no entry rows for docId=%d", *docID))
		}
		must(pipeline.ExportEntriesToXLSX(rows, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "docs:listen":
		objects, err := makeStore(ctx, cfg, cfg.ListenerStore)
		must(err)
		processor, err := makeProcessor(ctx, db, cfg, true)
		must(err)
		s := listener.NewService(db, cfg, objects, processor)
		must(s.Run(ctx))
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "path to a pdf or an extraction json")
		provider := fs.String("provider", "", "SAMS|CITY (required for json input)")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *out == "" {
			must(fmt.Errorf("--input and --out are required"))
		}
		must(runOneShot(ctx, db, cfg, *input, *provider, *out))
	default:
		usage()
		os.Exit(1)
	}
}

// runOneShot processes a single local file outside the ledger. A .json
// input replays a saved extraction; a .pdf goes through detection and the
// processor. Rows land in a workbook, never in the spreadsheet.
func runOneShot(ctx context.Context, db *storage.DB, cfg config.Config, input, providerFlag, out string) error {
	var provider internal.ProviderSchema
	var entities []internal.ExtractedEntity

	switch {
	case strings.HasSuffix(strings.ToLower(input), ".json"):
		if strings.TrimSpace(providerFlag) == "" {
			return fmt.Errorf("--provider is required for json input")
		}
		provider = internal.ProviderSchema(strings.ToUpper(providerFlag))
		loaded, err := docai.LoadEntities(input)
		if err != nil {
			return err
		}
		entities = loaded
	default:
		pdfData, err := os.ReadFile(input)
		if err != nil {
			return err
		}
		provider = pipeline.DetectProvider(pdfData)
		if provider == internal.ProviderUnknown {
			return fmt.Errorf("could not detect provider for %s", input)
		}
		extractor, err := makeExtractor(ctx, cfg)
		if err != nil {
			return err
		}
		entities, err = extractor.Extract(ctx, pdfData, provider)
		if err != nil {
			return err
		}
	}

	header, items, err := pipeline.ParseEntities(provider, entities)
	if err != nil {
		return err
	}
	lines, err := pipeline.ComputeLines(provider, header, pipeline.DedupeItems(provider, items))
	if err != nil {
		return err
	}

	mappings := catalog.NewSyncService(db, nil)
	rows := pipeline.BuildRows(lines, mappings.Snapshot(ctx))

	if err := pipeline.ExportEntriesToXLSX(rows, out); err != nil {
		return err
	}
	fmt.Printf("run done provider=%s invoice=%s rows=%d output=%s\n", provider, header.InvoiceID, len(rows), out)
	return nil
}

func makeProcessor(ctx context.Context, db *storage.DB, cfg config.Config, appendRows bool) (*pipeline.ProcessingService, error) {
	extractor, err := makeExtractor(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var sink pipeline.RowSink
	var source catalog.ProductSource
	if cfg.SpreadsheetID != "" {
		sheetsClient, err := makeSheets(ctx, cfg)
		if err != nil {
			return nil, err
		}
		source = sheetsClient
		if appendRows {
			sink = sheetsClient
		}
	}

	mappings := catalog.NewSyncService(db, source)
	return pipeline.NewProcessingService(db, cfg, extractor, sink, mappings), nil
}

func makeExtractor(ctx context.Context, cfg config.Config) (*docai.Client, error) {
	if err := cfg.Require("PROJECT_ID", cfg.ProjectID); err != nil {
		return nil, err
	}
	client, err := docai.NewClient(ctx, cfg.ProjectID, cfg.DocAILocation)
	if err != nil {
		return nil, err
	}
	client.RegisterProcessor(internal.ProviderSAMS, cfg.SamsProcessorID, cfg.SamsProcessorVersionID)
	client.RegisterProcessor(internal.ProviderCITY, cfg.CityProcessorID, cfg.CityProcessorVersionID)
	return client, nil
}

func makeSheets(ctx context.Context, cfg config.Config) (*sheets.Client, error) {
	if err := cfg.Require("SPREADSHEET_ID", cfg.SpreadsheetID); err != nil {
		return nil, err
	}
	return sheets.NewClient(ctx, cfg.SpreadsheetID, cfg.ProductsRange, cfg.EntriesRange)
}

func makeStore(ctx context.Context, cfg config.Config, store string) (connectors.ObjectStore, error) {
	switch strings.ToLower(strings.TrimSpace(store)) {
	case "gcs":
		return gcsconnector.NewConnector(ctx, cfg)
	case "local":
		return localconnector.NewConnector(cfg.LocalInputDir, cfg.LocalDoneDir), nil
	default:
		return nil, fmt.Errorf("unsupported store: %s", store)
	}
}

func usage() {
	fmt.Println("usage: facturas <command>")
	fmt.Println("commands:")
	fmt.Println("  catalog:sync")
	fmt.Println("  docs:fetch [--store=gcs|local] [--max=20]")
	fmt.Println("  docs:process [--id=1] [--batch=20] [--no-append]")
	fmt.Println("  docs:listen")
	fmt.Println("  export:xlsx --docId=1 --out=./out/result.xlsx")
	fmt.Println("  run --input=factura.pdf|extraccion.json [--provider=SAMS|CITY] --out=...xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
