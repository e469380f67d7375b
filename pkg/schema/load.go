package schema

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/astrolab/starschema/pkg/errors"
)

// Parse decodes a YAML target document, normalizes defaults, and validates
// the result.
func Parse(data []byte) (*Table, error) {
	return parse(data, "")
}

// LoadFile reads and parses a YAML target document from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return parse(data, path)
}

func parse(data []byte, file string) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.NewParseError("yaml", file, err.Error(), err)
	}

	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return &t, nil
}

// Marshal renders the target back to YAML with the conventional formatting.
func Marshal(t *Table) ([]byte, error) {
	data, err := yaml.MarshalWithOptions(t,
		yaml.Indent(2),             // 2-space indentation
		yaml.IndentSequence(false), // Keep sequences flush with their key
	)
	if err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	return data, nil
}
