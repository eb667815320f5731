package connectors

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"facturas/internal"
	"facturas/internal/storage"
)

type DocStoreService struct {
	db        *storage.DB
	rawDocDir string
}

func NewDocStoreService(db *storage.DB, rawDocDir string) *DocStoreService {
	return &DocStoreService{db: db, rawDocDir: rawDocDir}
}

// Store persists a downloaded document under its content hash and records
// it in the ledger. A document fetched twice keeps its original row.
func (s *DocStoreService) Store(name string, data []byte) (internal.DocumentRow, bool, error) {
	hashBytes := sha256.Sum256(data)
	hash := hex.EncodeToString(hashBytes[:])

	if err := os.MkdirAll(s.rawDocDir, 0o755); err != nil {
		return internal.DocumentRow{}, false, err
	}

	pdfPath := filepath.Join(s.rawDocDir, hash+".pdf")
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
			return internal.DocumentRow{}, false, err
		}
	}

	return s.db.UpsertDocument(name, hash, pdfPath)
}
