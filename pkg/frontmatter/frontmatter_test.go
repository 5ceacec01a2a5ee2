package frontmatter_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/frontmatter"
)

const fpgaPost = `---
layout: post
title: "FPGA Programming, Part 1"
subtitle: Host and kernel
cover-img: /assets/img/fpga.jpg
categories: [fpga, hardware]
readtime: true
---
An FPGA is not a CPU.

See {% post_url 2021-05-10-fpga-part-2 %}.
`

func TestParse_YAML(t *testing.T) {
	doc, err := frontmatter.Parse([]byte(fpgaPost))
	require.NoError(t, err)

	assert.Equal(t, frontmatter.FormatYAML, doc.Format)
	assert.Equal(t, "post", doc.Metadata["layout"])
	assert.Equal(t, "FPGA Programming, Part 1", doc.Metadata["title"])
	assert.Equal(t, []any{"fpga", "hardware"}, doc.Metadata["categories"])
	assert.Equal(t, true, doc.Metadata["readtime"])
	assert.Equal(t, "/assets/img/fpga.jpg", doc.Metadata["cover-img"], "unknown keys are preserved")
	assert.True(t, strings.HasPrefix(doc.Body, "An FPGA is not a CPU."))
	assert.Equal(t, 9, doc.BodyLine)
}

func TestParse_TOML(t *testing.T) {
	src := "+++\ntitle = \"Ray Tune on TPUs\"\ncategories = [\"tpu\", \"ml\"]\nweight = 3\n+++\nbody\n"

	doc, err := frontmatter.Parse([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, frontmatter.FormatTOML, doc.Format)
	assert.Equal(t, "Ray Tune on TPUs", doc.Metadata["title"])
	assert.Equal(t, []any{"tpu", "ml"}, doc.Metadata["categories"])
	assert.Equal(t, int64(3), doc.Metadata["weight"])
	assert.Equal(t, "body\n", doc.Body)
}

func TestParse_EdgeCases(t *testing.T) {
	t.Run("Empty block", func(t *testing.T) {
		doc, err := frontmatter.Parse([]byte("---\n---\nonly body"))
		require.NoError(t, err)
		assert.Empty(t, doc.Metadata)
		assert.NotNil(t, doc.Metadata)
		assert.Equal(t, "only body", doc.Body)
	})

	t.Run("CRLF line endings", func(t *testing.T) {
		doc, err := frontmatter.Parse([]byte("---\r\ntitle: Windows\r\n---\r\nbody\r\n"))
		require.NoError(t, err)
		assert.Equal(t, "Windows", doc.Metadata["title"])
		assert.Equal(t, "body\r\n", doc.Body)
	})

	t.Run("Byte order mark", func(t *testing.T) {
		doc, err := frontmatter.Parse(append([]byte{0xEF, 0xBB, 0xBF}, "---\ntitle: bom\n---\n"...))
		require.NoError(t, err)
		assert.Equal(t, "bom", doc.Metadata["title"])
	})

	t.Run("Nested mapping", func(t *testing.T) {
		doc, err := frontmatter.Parse([]byte("---\nauthor:\n  name: A\n  links: [x, y]\n---\n"))
		require.NoError(t, err)
		author, ok := doc.Metadata["author"].(map[string]any)
		require.True(t, ok, "got %T", doc.Metadata["author"])
		assert.Equal(t, "A", author["name"])
		assert.Equal(t, []any{"x", "y"}, author["links"])
	})

	t.Run("Dates stay strings", func(t *testing.T) {
		doc, err := frontmatter.Parse([]byte("---\ndate: 2021-05-09 10:00:00 +0000\n---\n"))
		require.NoError(t, err)
		assert.Equal(t, "2021-05-09 10:00:00 +0000", doc.Metadata["date"])
	})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
		line   int
	}{
		{"No front matter", "# Just markdown\n", "missing front matter", 1},
		{"Empty file", "", "missing front matter", 1},
		{"Unterminated yaml", "---\ntitle: x\nbody\n", "unterminated", 1},
		{"Unterminated toml", "+++\ntitle = 'x'\n", "unterminated", 1},
		{"Delimiter not on first line", "\n---\ntitle: x\n---\n", "missing front matter", 1},
		{"Unclosed flow list", "---\ncategories: [fpga, hardware\n---\n", "invalid yaml", 0},
		{"Duplicate key", "---\ntitle: a\ntitle: b\n---\n", "invalid yaml", 0},
		{"Sequence at top level", "---\n- a\n- b\n---\n", "must be a mapping", 2},
		{"Scalar at top level", "---\njust words\n---\n", "must be a mapping", 2},
		{"Invalid toml", "+++\ntitle = \n+++\n", "invalid toml", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := frontmatter.Parse([]byte(tc.input))
			require.Error(t, err)
			require.ErrorIs(t, err, core.ErrParse)

			var pe *core.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, pe.Reason, tc.reason)
			if tc.line > 0 {
				assert.Equal(t, tc.line, pe.Line)
			}
		})
	}
}

func TestParse_YAMLErrorLine(t *testing.T) {
	_, err := frontmatter.Parse([]byte("---\ntitle: ok\nsubtitle: \"unclosed\n---\n"))
	require.Error(t, err)

	var pe *core.ParseError
	require.ErrorAs(t, err, &pe)
	assert.GreaterOrEqual(t, pe.Line, 3, "line is reported relative to the file")
}

func TestRead(t *testing.T) {
	doc, err := frontmatter.Read(strings.NewReader("---\ntitle: r\n---\nx"))
	require.NoError(t, err)
	assert.Equal(t, "r", doc.Metadata["title"])
}
