package catalog

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"orderbot/internal/domain"

	"gopkg.in/yaml.v3"
)

// file is the on-disk layout of the catalog
type file struct {
	Categories []domain.Category `yaml:"categories"`
}

// Load reads and validates the catalog from a YAML file
func Load(path string) (*domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document. Unknown fields are rejected.
func Parse(data []byte) (*domain.Catalog, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	for i := range f.Categories {
		cat := &f.Categories[i]
		cat.Key = strings.TrimSpace(cat.Key)
		cat.Title = strings.TrimSpace(cat.Title)
		for j := range cat.Items {
			cat.Items[j] = strings.TrimSpace(cat.Items[j])
		}
	}

	catalog, err := domain.NewCatalog(f.Categories)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return catalog, nil
}
