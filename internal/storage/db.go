package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"facturas/internal"
	"facturas/internal/util"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS mappings (
  key TEXT PRIMARY KEY,
  supplierCode TEXT NOT NULL,
  sku TEXT NOT NULL,
  description TEXT,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS documents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  hash TEXT NOT NULL UNIQUE,
  provider TEXT,
  status TEXT NOT NULL DEFAULT 'fetched',
  pdfRef TEXT NOT NULL,
  extractRef TEXT,
  invoiceId TEXT,
  failReason TEXT,
  archived INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

CREATE TABLE IF NOT EXISTS entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  documentId INTEGER NOT NULL,
  position INTEGER NOT NULL,
  sku TEXT NOT NULL,
  description TEXT,
  quantity TEXT,
  unitNetCost TEXT,
  lineNetCost TEXT,
  ivaLabel TEXT,
  iepsLabel TEXT,
  invoiceDate TEXT,
  invoiceId TEXT,
  provider TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(documentId, position),
  FOREIGN KEY(documentId) REFERENCES documents(id)
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  documentId INTEGER,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(documentId) REFERENCES documents(id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceMappings swaps in a fresh catalog snapshot. Keys are stored in the
// same normalized form the lookup uses.
func (d *DB) ReplaceMappings(records []internal.ProductRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM mappings`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO mappings (key, supplierCode, sku, description, updatedAt)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO NOTHING
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		key := util.MappingKey(r.SupplierCode)
		if key == "" {
			continue
		}
		if _, err := stmt.Exec(key, r.SupplierCode, r.SKU, r.Description); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListMappings() ([]internal.ProductRecord, error) {
	rows, err := d.conn.Query(`SELECT supplierCode, sku, description FROM mappings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ProductRecord
	for rows.Next() {
		var r internal.ProductRecord
		var desc sql.NullString
		if err := rows.Scan(&r.SupplierCode, &r.SKU, &desc); err != nil {
			return nil, err
		}
		r.Description = desc.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpsertDocument records one fetched source document, keyed by content
// hash so a redelivered object is recognized rather than re-queued. The
// second return reports whether the row is new.
func (d *DB) UpsertDocument(name, hash, pdfRef string) (internal.DocumentRow, bool, error) {
	existing, err := d.GetDocumentByHash(hash)
	if err != nil {
		return internal.DocumentRow{}, false, err
	}
	if existing != nil {
		return *existing, false, nil
	}

	_, err = d.conn.Exec(`
INSERT INTO documents (name, hash, pdfRef) VALUES (?, ?, ?)
`, name, hash, pdfRef)
	if err != nil {
		return internal.DocumentRow{}, false, err
	}

	row, err := d.GetDocumentByHash(hash)
	if err != nil {
		return internal.DocumentRow{}, false, err
	}
	if row == nil {
		return internal.DocumentRow{}, false, errors.New("failed to upsert document")
	}
	return *row, true, nil
}

const documentColumns = `id, name, hash, IFNULL(provider,''), status, pdfRef, IFNULL(extractRef,''), IFNULL(invoiceId,''), IFNULL(failReason,''), archived`

func scanDocument(scan func(dest ...any) error) (internal.DocumentRow, error) {
	var row internal.DocumentRow
	var archived int
	err := scan(&row.ID, &row.Name, &row.Hash, &row.Provider, &row.Status, &row.PDFRef, &row.ExtractRef, &row.InvoiceID, &row.FailReason, &archived)
	row.Archived = archived != 0
	return row, err
}

func (d *DB) GetDocumentByID(id int) (*internal.DocumentRow, error) {
	row, err := scanDocument(d.conn.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) GetDocumentByHash(hash string) (*internal.DocumentRow, error) {
	row, err := scanDocument(d.conn.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE hash = ?`, hash).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) MustDocumentByID(id int) (internal.DocumentRow, error) {
	row, err := d.GetDocumentByID(id)
	if err != nil {
		return internal.DocumentRow{}, err
	}
	if row == nil {
		return internal.DocumentRow{}, fmt.Errorf("document not found: id=%d", id)
	}
	return *row, nil
}

func (d *DB) ListDocumentsByStatus(status string, limit int) ([]internal.DocumentRow, error) {
	rows, err := d.conn.Query(`
SELECT `+documentColumns+` FROM documents WHERE status = ? ORDER BY createdAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.DocumentRow
	for rows.Next() {
		row, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListDocumentsToArchive returns finished documents whose source object has
// not yet been moved out of the input location.
func (d *DB) ListDocumentsToArchive(limit int) ([]internal.DocumentRow, error) {
	rows, err := d.conn.Query(`
SELECT `+documentColumns+` FROM documents
WHERE archived = 0 AND status IN (?, ?, ?, ?)
ORDER BY createdAt ASC LIMIT ?
`, internal.DocStatusProcessed, internal.DocStatusSkipped, internal.DocStatusFailed, internal.DocStatusExported, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.DocumentRow
	for rows.Next() {
		row, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateDocumentStatus(id int, status string) error {
	_, err := d.conn.Exec(`UPDATE documents SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

func (d *DB) SetDocumentProvider(id int, provider string) error {
	_, err := d.conn.Exec(`UPDATE documents SET provider = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, provider, id)
	return err
}

func (d *DB) SetDocumentExtractRef(id int, extractRef string) error {
	_, err := d.conn.Exec(`UPDATE documents SET extractRef = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, extractRef, id)
	return err
}

func (d *DB) SetDocumentInvoice(id int, invoiceID string) error {
	_, err := d.conn.Exec(`UPDATE documents SET invoiceId = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, invoiceID, id)
	return err
}

func (d *DB) SetDocumentFailure(id int, reason string) error {
	_, err := d.conn.Exec(`
UPDATE documents SET status = ?, failReason = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?
`, internal.DocStatusFailed, reason, id)
	return err
}

func (d *DB) MarkDocumentArchived(id int) error {
	_, err := d.conn.Exec(`UPDATE documents SET archived = 1, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

// ReplaceEntries rewrites a document's output rows. Reprocessing the same
// document therefore converges instead of accumulating duplicates.
func (d *DB) ReplaceEntries(documentID int, entries []internal.EntryRow) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM entries WHERE documentId = ?`, documentID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO entries (documentId, position, sku, description, quantity, unitNetCost, lineNetCost, ivaLabel, iepsLabel, invoiceDate, invoiceId, provider)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.Exec(documentID, i+1, e.SKU, e.Description, e.Quantity, e.UnitNetCost, e.LineNetCost, e.IVALabel, e.IEPSLabel, e.InvoiceDate, e.InvoiceID, e.Provider); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) GetEntryRows(documentID int) ([]internal.EntryRow, error) {
	rows, err := d.conn.Query(`
SELECT sku, description, quantity, unitNetCost, lineNetCost, ivaLabel, iepsLabel, invoiceDate, invoiceId, provider
FROM entries WHERE documentId = ? ORDER BY position ASC
`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.EntryRow
	for rows.Next() {
		var e internal.EntryRow
		if err := rows.Scan(&e.SKU, &e.Description, &e.Quantity, &e.UnitNetCost, &e.LineNetCost, &e.IVALabel, &e.IEPSLabel, &e.InvoiceDate, &e.InvoiceID, &e.Provider); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(traceID string, documentID int, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, documentId, timingsJson, countsJson) VALUES (?, ?, ?, ?)`, traceID, documentID, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
