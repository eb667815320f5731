package docai

import (
	"context"
	"encoding/base64"
	"fmt"

	documentai "google.golang.org/api/documentai/v1"
	"google.golang.org/api/option"

	"facturas/internal"
)

// Client wraps the Document AI processor pair: one trained processor
// version per supplier layout.
type Client struct {
	svc       *documentai.Service
	projectID string
	location  string

	processors map[internal.ProviderSchema]processorRef
}

type processorRef struct {
	processorID string
	versionID   string
}

func NewClient(ctx context.Context, projectID, location string) (*Client, error) {
	endpoint := fmt.Sprintf("https://%s-documentai.googleapis.com/", location)
	svc, err := documentai.NewService(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("documentai service: %w", err)
	}

	return &Client{
		svc:        svc,
		projectID:  projectID,
		location:   location,
		processors: map[internal.ProviderSchema]processorRef{},
	}, nil
}

// RegisterProcessor binds a provider schema to a processor version.
func (c *Client) RegisterProcessor(provider internal.ProviderSchema, processorID, versionID string) {
	c.processors[provider] = processorRef{processorID: processorID, versionID: versionID}
}

// Extract runs the provider's processor over the PDF bytes and returns the
// extracted entity tree.
func (c *Client) Extract(ctx context.Context, pdfData []byte, provider internal.ProviderSchema) ([]internal.ExtractedEntity, error) {
	ref, ok := c.processors[provider]
	if !ok {
		return nil, fmt.Errorf("no processor registered for provider %s", provider)
	}

	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s/processorVersions/%s",
		c.projectID, c.location, ref.processorID, ref.versionID)

	req := &documentai.GoogleCloudDocumentaiV1ProcessRequest{
		RawDocument: &documentai.GoogleCloudDocumentaiV1RawDocument{
			Content:  base64.StdEncoding.EncodeToString(pdfData),
			MimeType: "application/pdf",
		},
	}

	resp, err := c.svc.Projects.Locations.Processors.ProcessorVersions.Process(name, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("process document: %w", err)
	}
	if resp.Document == nil {
		return nil, fmt.Errorf("process document: empty response")
	}

	return ConvertEntities(resp.Document.Entities), nil
}

// ConvertEntities flattens the API entity shape into the two levels the
// invoice layouts use: entities with scalar properties.
func ConvertEntities(entities []*documentai.GoogleCloudDocumentaiV1DocumentEntity) []internal.ExtractedEntity {
	out := make([]internal.ExtractedEntity, 0, len(entities))
	for _, e := range entities {
		if e == nil {
			continue
		}
		conv := internal.ExtractedEntity{
			Type:        e.Type,
			MentionText: e.MentionText,
		}
		for _, p := range e.Properties {
			if p == nil {
				continue
			}
			conv.Properties = append(conv.Properties, internal.EntityProperty{
				Type:        p.Type,
				MentionText: p.MentionText,
			})
		}
		out = append(out, conv)
	}
	return out
}
