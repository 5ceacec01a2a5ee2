package typed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/aretw0/folio/pkg/core"
)

// Schema validates front matter against a JSON Schema document, so a site
// can require keys (e.g. every post has a title) or constrain their values.
type Schema struct {
	schema *jsonschema.Schema
}

// CompileSchema compiles a JSON Schema (draft 2020-12 unless the document
// declares another draft).
func CompileSchema(data []byte) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("front_matter.schema.json", bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("invalid front matter schema: %w", err)
	}
	s, err := compiler.Compile("front_matter.schema.json")
	if err != nil {
		return nil, fmt.Errorf("invalid front matter schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// Validate checks meta. Violations are reported as a *core.ParseError
// listing every failing location.
func (s *Schema) Validate(meta core.Metadata) error {
	// The validator expects JSON-decoded values, YAML/TOML values are not.
	encoded, err := json.Marshal(meta)
	if err != nil {
		return &core.ParseError{Reason: "front matter cannot be validated", Err: err}
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return &core.ParseError{Reason: "front matter cannot be validated", Err: err}
	}

	err = s.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &core.ParseError{Reason: "front matter cannot be validated", Err: err}
	}
	return &core.ParseError{Reason: "front matter violates schema: " + strings.Join(issues(verr), "; ")}
}

// issues flattens the leaves of a validation error tree.
func issues(err *jsonschema.ValidationError) []string {
	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			loc := node.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, loc+": "+strings.TrimSpace(node.Message))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	sort.Strings(out)
	return out
}
