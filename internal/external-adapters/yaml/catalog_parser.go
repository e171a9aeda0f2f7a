// Package yaml provides YAML-based catalog parsing and repository implementations.
package yaml

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/ochairo/addrunner/internal/domain/entities"
	derrors "github.com/ochairo/addrunner/internal/domain/errors"
)

const schemaURL = "https://github.com/ochairo/addrunner/catalog.schema.json"

//go:embed catalog.schema.json
var catalogSchema []byte

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// yamlCatalog represents the raw YAML structure
type yamlCatalog struct {
	Release string      `yaml:"release"`
	Entries []yamlEntry `yaml:"entries"`
}

type yamlEntry struct {
	OS      string `yaml:"os"`
	Arch    string `yaml:"arch"`
	Runner  string `yaml:"runner"`
	BaseURL string `yaml:"base_url"`
	Archive string `yaml:"archive"`
	SHA256  string `yaml:"sha256"`
}

// CatalogParser parses YAML catalog documents
type CatalogParser struct{}

// NewCatalogParser creates a new YAML parser
func NewCatalogParser() *CatalogParser {
	return &CatalogParser{}
}

// Parse validates YAML bytes against the catalog schema and converts them
// into an immutable Catalog
func (p *CatalogParser) Parse(data []byte) (*entities.Catalog, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, derrors.Wrap(err, derrors.ErrCatalogInvalid, "failed to parse YAML")
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, derrors.Wrap(err, derrors.ErrCatalogInvalid, "failed to compile catalog schema")
	}
	if err := schema.Validate(raw); err != nil {
		return nil, derrors.Wrap(err, derrors.ErrCatalogInvalid, "catalog does not match schema")
	}

	var doc yamlCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, derrors.Wrap(err, derrors.ErrCatalogInvalid, "failed to decode catalog")
	}

	records := make([]entities.CatalogRecord, 0, len(doc.Entries))
	seen := make(map[entities.PlatformKey]bool, len(doc.Entries))
	for i, e := range doc.Entries {
		key, err := entities.ParsePlatformKey(e.OS, e.Arch, e.Runner)
		if err != nil {
			return nil, derrors.Wrapf(err, derrors.ErrCatalogInvalid, "entry %d", i)
		}
		if seen[key] {
			return nil, derrors.Newf(derrors.ErrCatalogInvalid, "duplicate entry for %s", key)
		}
		seen[key] = true

		records = append(records, entities.CatalogRecord{
			Key: key,
			Entry: entities.CatalogEntry{
				BaseURL:           e.BaseURL,
				ArchiveFileName:   e.Archive,
				ExpectedDigestHex: e.SHA256,
			},
		})
	}

	return entities.NewCatalog(doc.Release, records), nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(catalogSchema))
		if err != nil {
			compileErr = fmt.Errorf("read schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}
