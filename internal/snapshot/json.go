package snapshot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("snapshot.schema.json", schemaJSON)
})

// EncodeJSON writes d as indented JSON.
func EncodeJSON(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// DecodeJSON reads a JSON snapshot and validates it against the schema before
// unmarshaling it. Bounds are not checked; see Document.Validate.
func DecodeJSON(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	sch, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &d, nil
}
