package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"facturas/internal"
)

// Client reads the product catalog tab and appends computed entry rows to
// the shared spreadsheet.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	productsRange string
	entriesRange  string
}

func NewClient(ctx context.Context, spreadsheetID, productsRange, entriesRange string) (*Client, error) {
	ts, err := google.DefaultTokenSource(ctx, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("sheets credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		productsRange: productsRange,
		entriesRange:  entriesRange,
	}, nil
}

// ReadProducts pulls the catalog tab. Column A holds the SKU, column B the
// description and column D the supplier code. Rows without a supplier code
// are skipped; a row without a SKU maps the code to itself.
func (c *Client) ReadProducts(ctx context.Context) ([]internal.ProductRecord, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.productsRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read products range: %w", err)
	}

	var out []internal.ProductRecord
	for i, row := range resp.Values {
		if i == 0 {
			continue // header
		}
		code := cellString(row, 3)
		if code == "" {
			continue
		}
		sku := cellString(row, 0)
		if sku == "" {
			sku = code
		}
		out = append(out, internal.ProductRecord{
			SKU:          sku,
			Description:  cellString(row, 1),
			SupplierCode: code,
		})
	}
	return out, nil
}

// AppendEntries appends rows after the last filled row of the entries tab.
func (c *Client) AppendEntries(ctx context.Context, rows []internal.EntryRow) error {
	if len(rows) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cols := row.Columns()
		cells := make([]interface{}, len(cols))
		for i, col := range cols {
			cells[i] = col
		}
		values = append(values, cells)
	}

	vr := &sheets.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.entriesRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append entries: %w", err)
	}
	return nil
}

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	s, ok := row[idx].(string)
	if !ok {
		return strings.TrimSpace(fmt.Sprint(row[idx]))
	}
	return strings.TrimSpace(s)
}
