package docai

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"facturas/internal"
)

// SaveEntities writes an extraction result next to the raw document so a
// reprocess does not pay for a second processor call.
func SaveEntities(path string, entities []internal.ExtractedEntity) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func LoadEntities(path string) ([]internal.ExtractedEntity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read extraction: %w", err)
	}
	var entities []internal.ExtractedEntity
	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}
	return entities, nil
}
