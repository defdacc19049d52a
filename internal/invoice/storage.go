package invoice

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Exporter writes the downstream artifacts derived from a parsed invoice.
type Exporter interface {
	// Export writes the invoice's artifacts and returns the written filenames
	Export(inv *ParsedInvoice) ([]string, error)
}

// DirExporter implements Exporter by writing record.json (the full parse
// result), config.json (the logistics-config shape), and items.csv (the lot
// items) into a local directory.
type DirExporter struct {
	basePath string
}

// NewDirExporter creates a DirExporter, creating the directory if needed.
func NewDirExporter(basePath string) (*DirExporter, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	return &DirExporter{basePath: basePath}, nil
}

// Export derives and writes the three artifacts for a parsed invoice.
func (d *DirExporter) Export(inv *ParsedInvoice) ([]string, error) {
	record, err := json.MarshalIndent(inv.Record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling record: %w", err)
	}

	config, err := json.MarshalIndent(BuildLogisticsConfig(inv.Record), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}

	items, err := ItemsCSV(inv.Record)
	if err != nil {
		return nil, err
	}

	artifacts := []struct {
		name string
		data []byte
	}{
		{"record.json", record},
		{"config.json", config},
		{"items.csv", items},
	}

	written := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		path := filepath.Join(d.basePath, artifact.name)
		if err := os.WriteFile(path, artifact.data, 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", artifact.name, err)
		}
		written = append(written, artifact.name)
	}
	return written, nil
}
