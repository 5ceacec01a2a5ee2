// Package frontmatter splits a content file into its delimited metadata block
// and its body, and decodes the block into an opaque metadata mapping.
//
// Two block styles are understood:
//
//	---            +++
//	title: YAML    title = "TOML"
//	---            +++
//
// The opening delimiter must be the first line of the file.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/folio/pkg/core"
)

// Format identifies the syntax of a front-matter block.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

const (
	yamlDelimiter = "---"
	tomlDelimiter = "+++"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is a parsed content file.
type Document struct {
	Format   Format
	Metadata core.Metadata
	Body     string
	// BodyLine is the 1-based line number at which the body starts.
	BodyLine int
}

// Read parses everything r yields. See Parse.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse splits data into front matter and body and decodes the front matter.
// It fails with a *core.ParseError when the block is absent, unterminated, not
// a mapping, or rejected by the YAML/TOML decoder. Unknown keys are kept.
func Parse(data []byte) (*Document, error) {
	format, block, body, bodyLine, err := Split(data)
	if err != nil {
		return nil, err
	}

	var meta core.Metadata
	switch format {
	case FormatTOML:
		meta, err = decodeTOML(block)
	default:
		meta, err = decodeYAML(block)
	}
	if err != nil {
		return nil, err
	}

	return &Document{
		Format:   format,
		Metadata: meta,
		Body:     string(body),
		BodyLine: bodyLine,
	}, nil
}

// Split separates the delimited block from the body without decoding it.
func Split(data []byte) (format Format, block, body []byte, bodyLine int, err error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	first, rest, _ := cutLine(data)
	var delim string
	switch string(first) {
	case yamlDelimiter:
		format, delim = FormatYAML, yamlDelimiter
	case tomlDelimiter:
		format, delim = FormatTOML, tomlDelimiter
	default:
		return "", nil, nil, 0, &core.ParseError{Line: 1, Reason: "missing front matter: file must start with --- or +++"}
	}

	start := len(data) - len(rest)
	offset := start
	line := 2
	for len(rest) > 0 {
		current, next, _ := cutLine(rest)
		if string(current) == delim {
			return format, data[start:offset], next, line + 1, nil
		}
		offset += len(rest) - len(next)
		rest = next
		line++
	}

	return "", nil, nil, 0, &core.ParseError{
		Line:   1,
		Reason: fmt.Sprintf("unterminated front matter: no closing %s", delim),
	}
}

// cutLine returns the first line of data without its terminator (\n or \r\n,
// trailing blanks ignored) and the remainder after the terminator.
func cutLine(data []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(data, []byte("\n"))
	return bytes.TrimRight(line, " \t\r"), rest, found
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

func decodeYAML(block []byte) (core.Metadata, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(block, &node); err != nil {
		return nil, &core.ParseError{Line: yamlErrorLine(err), Reason: "invalid yaml", Err: err}
	}

	root := &node
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return core.Metadata{}, nil
		}
		root = root.Content[0]
	}
	if root.Kind == 0 {
		return core.Metadata{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &core.ParseError{Line: root.Line + 1, Reason: "front matter must be a mapping of keys to values"}
	}

	var raw map[string]any
	if err := root.Decode(&raw); err != nil {
		return nil, &core.ParseError{Line: yamlErrorLine(err), Reason: "invalid yaml", Err: err}
	}
	return normalize(raw), nil
}

// yamlErrorLine maps a line reported by the yaml decoder, relative to the
// block, to a line of the file (the block starts on line 2).
func yamlErrorLine(err error) int {
	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 0
	}
	return n + 1
}

func decodeTOML(block []byte) (core.Metadata, error) {
	var raw map[string]any
	if err := toml.Unmarshal(block, &raw); err != nil {
		line := 0
		var perr toml.ParseError
		if errors.As(err, &perr) {
			line = perr.Position.Line + 1
		}
		return nil, &core.ParseError{Line: line, Reason: "invalid toml", Err: err}
	}
	return normalize(raw), nil
}

// normalize converts nested maps to map[string]any so the metadata can be
// encoded to JSON, and turns a nil mapping into an empty one.
func normalize(raw map[string]any) core.Metadata {
	meta := make(core.Metadata, len(raw))
	for k, v := range raw {
		meta[k] = normalizeValue(v)
	}
	return meta
}

func normalizeValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, item := range v {
			m[k] = normalizeValue(item)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, item := range v {
			m[fmt.Sprint(k)] = normalizeValue(item)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, item := range v {
			l[i] = normalizeValue(item)
		}
		return l
	case []map[string]any:
		l := make([]any, len(v))
		for i, item := range v {
			l[i] = normalizeValue(item)
		}
		return l
	default:
		return v
	}
}
