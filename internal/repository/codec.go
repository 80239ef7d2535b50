package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	mode       fs.FileMode
	schemaName string
	schema     []byte
}

func newStoreOptions(opts []Option) storeOptions {
	o := storeOptions{mode: defaultFileMode}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSchema validates every loaded document against the given JSON schema.
func WithSchema(name string, schema []byte) Option {
	return func(o *storeOptions) {
		o.schemaName = name
		o.schema = schema
	}
}

// compileSchema returns nil when no schema was configured.
func (o storeOptions) compileSchema() (*jsonschema.Schema, error) {
	if o.schema == nil {
		return nil, nil
	}

	compiler := jsonschema.NewCompiler()
	url := "mem://" + o.schemaName
	if err := compiler.AddResource(url, bytes.NewReader(o.schema)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", o.schemaName, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", o.schemaName, err)
	}
	return schema, nil
}

// decodeRecords parses a stored collection, checking it against schema
// first when one is set.
func decodeRecords[T any](data []byte, schema *jsonschema.Schema) ([]T, error) {
	if schema != nil {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, readErr("decode", err)
		}
		if err := schema.Validate(doc); err != nil {
			return nil, readErr("validate", err)
		}
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, readErr("decode", err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// encodeRecords renders records as an indented JSON array without HTML escaping.
func encodeRecords[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
