package frontmatter

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/folio/pkg/core"
)

// Serialize renders meta as a YAML block followed by body.
// Keys are emitted in sorted order, so the output is deterministic.
func Serialize(meta core.Metadata, body string) ([]byte, error) {
	return SerializeFormat(FormatYAML, meta, body)
}

// SerializeFormat renders meta in the given block style followed by body.
func SerializeFormat(format Format, meta core.Metadata, body string) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case FormatTOML:
		buf.WriteString(tomlDelimiter + "\n")
		if len(meta) > 0 {
			if err := toml.NewEncoder(&buf).Encode(map[string]any(meta)); err != nil {
				return nil, fmt.Errorf("encode toml front matter: %w", err)
			}
		}
		buf.WriteString(tomlDelimiter + "\n")
	case FormatYAML, "":
		buf.WriteString(yamlDelimiter + "\n")
		if len(meta) > 0 {
			encoder := yaml.NewEncoder(&buf)
			encoder.SetIndent(2)
			if err := encoder.Encode(floatNodes(map[string]any(meta))); err != nil {
				return nil, fmt.Errorf("encode yaml front matter: %w", err)
			}
			if err := encoder.Close(); err != nil {
				return nil, err
			}
		}
		buf.WriteString(yamlDelimiter + "\n")
	default:
		return nil, fmt.Errorf("unsupported front matter format: %s", format)
	}

	buf.WriteString(body)
	return buf.Bytes(), nil
}

// floatNodes copies val with every float replaced by an explicit !!float
// scalar. yaml.v3 writes float64(1) as "1", which decodes back as an int.
func floatNodes(val any) any {
	switch v := val.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, item := range v {
			m[k] = floatNodes(item)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, item := range v {
			l[i] = floatNodes(item)
		}
		return l
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(v)}
	case float32:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(float64(v))}
	default:
		return v
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}
