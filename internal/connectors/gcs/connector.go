package gcs

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	storageapi "google.golang.org/api/storage/v1"

	"facturas/internal/config"
)

// Connector reads invoice PDFs from the input bucket and moves finished
// ones to the processed bucket.
type Connector struct {
	svc             *storageapi.Service
	inputBucket     string
	processedBucket string
}

func NewConnector(ctx context.Context, cfg config.Config) (*Connector, error) {
	if err := cfg.Require("INPUT_BUCKET", cfg.InputBucket); err != nil {
		return nil, err
	}
	if err := cfg.Require("PROCESSED_BUCKET", cfg.ProcessedBucket); err != nil {
		return nil, err
	}

	ts, err := google.DefaultTokenSource(ctx, storageapi.DevstorageReadWriteScope)
	if err != nil {
		return nil, fmt.Errorf("storage credentials: %w", err)
	}
	svc, err := storageapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("storage service: %w", err)
	}

	return &Connector{
		svc:             svc,
		inputBucket:     cfg.InputBucket,
		processedBucket: cfg.ProcessedBucket,
	}, nil
}

func (c *Connector) ListInput(ctx context.Context, max int) ([]string, error) {
	resp, err := c.svc.Objects.List(c.inputBucket).MaxResults(int64(max)).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, obj := range resp.Items {
		if !strings.HasSuffix(strings.ToLower(obj.Name), ".pdf") {
			continue
		}
		names = append(names, obj.Name)
	}
	return names, nil
}

// Download reads an object from the input bucket. If it is already gone
// from there it falls back to the processed bucket, which covers documents
// archived by a previous cycle that still need reprocessing.
func (c *Connector) Download(ctx context.Context, name string) ([]byte, error) {
	data, err := c.download(ctx, c.inputBucket, name)
	if err == nil {
		return data, nil
	}
	return c.download(ctx, c.processedBucket, name)
}

func (c *Connector) download(ctx context.Context, bucket, name string) ([]byte, error) {
	resp, err := c.svc.Objects.Get(bucket, name).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// Archive copies the object to the processed bucket and removes it from
// the input bucket.
func (c *Connector) Archive(ctx context.Context, name string) error {
	_, err := c.svc.Objects.Copy(c.inputBucket, name, c.processedBucket, name, &storageapi.Object{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("copy %s to processed: %w", name, err)
	}
	if err := c.svc.Objects.Delete(c.inputBucket, name).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete %s from input: %w", name, err)
	}
	return nil
}
