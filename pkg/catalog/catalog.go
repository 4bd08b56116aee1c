// pkg/catalog/catalog.go
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed catalog.json
var defaultCatalog []byte

//go:embed catalog.schema.json
var catalogSchema []byte

// Default returns the embedded catalog. The embedded file is validated like
// any other so a bad edit fails loudly at startup rather than admitting
// unvetted options.
func Default() (*FieldCatalog, error) {
	return parse(defaultCatalog)
}

// Load reads a catalog override from disk.
func Load(path string) (*FieldCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*FieldCatalog, error) {
	schemaLoader := gojsonschema.NewBytesLoader(catalogSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("catalog schema validation: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("catalog does not match schema: %s", strings.Join(msgs, "; "))
	}

	var cat FieldCatalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &cat, nil
}

// Contains reports whether value is one of opts (exact match).
func Contains(opts []string, value string) bool {
	for _, o := range opts {
		if o == value {
			return true
		}
	}
	return false
}
