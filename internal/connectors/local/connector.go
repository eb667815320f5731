package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Connector serves documents from a local directory pair. It mirrors the
// bucket connector so the pipeline can run without cloud credentials.
type Connector struct {
	inputDir string
	doneDir  string
}

func NewConnector(inputDir, doneDir string) *Connector {
	return &Connector{inputDir: inputDir, doneDir: doneDir}
}

func (c *Connector) ListInput(_ context.Context, max int) ([]string, error) {
	entries, err := os.ReadDir(c.inputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
			continue
		}
		names = append(names, e.Name())
		if len(names) >= max {
			break
		}
	}
	return names, nil
}

func (c *Connector) Download(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(c.inputDir, name))
	if err == nil {
		return data, nil
	}
	return os.ReadFile(filepath.Join(c.doneDir, name))
}

func (c *Connector) Archive(_ context.Context, name string) error {
	if err := os.MkdirAll(c.doneDir, 0o755); err != nil {
		return err
	}
	src := filepath.Join(c.inputDir, name)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	return os.Rename(src, filepath.Join(c.doneDir, name))
}
