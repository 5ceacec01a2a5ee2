package frontmatter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/frontmatter"
)

func TestSerialize_Deterministic(t *testing.T) {
	meta := core.Metadata{
		"title":      "Part 2",
		"categories": []any{"fpga", "hardware"},
		"layout":     "post",
	}

	first, err := frontmatter.Serialize(meta, "body\n")
	require.NoError(t, err)
	second, err := frontmatter.Serialize(meta, "body\n")
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, "---\ncategories:\n  - fpga\n  - hardware\nlayout: post\ntitle: Part 2\n---\nbody\n", string(first))
}

func TestSerialize_EmptyMetadata(t *testing.T) {
	out, err := frontmatter.Serialize(nil, "x")
	require.NoError(t, err)
	assert.Equal(t, "---\n---\nx", string(out))
}

func TestSerialize_UnsupportedFormat(t *testing.T) {
	_, err := frontmatter.SerializeFormat("json", core.Metadata{"a": 1}, "")
	assert.Error(t, err)
}

// Parse -> Serialize -> Parse must be stable for every valid block.
func TestRoundTrip(t *testing.T) {
	inputs := map[string]string{
		"post":       fpgaPost,
		"empty":      "---\n---\n",
		"no body":    "---\ntitle: only meta\n---\n",
		"numbers":    "---\nweight: 3\nratio: 0.25\nbig: 9007199254740993\n---\ntext\n",
		"booleans":   "---\nreadtime: true\npublished: false\n---\n",
		"null":       "---\nimage: ~\n---\n",
		"nested":     "---\nauthor:\n  name: A\n  tags: [x, y]\nlist:\n  - a: 1\n  - b: 2\n---\n",
		"date-like":  "---\ndate: 2021-05-09\nversion: \"1.10\"\n---\nbody",
		"multiline":  "---\nsummary: |\n  first line\n  second line\n---\n\nParagraph.\n",
		"block list": "---\ncategories:\n  - tpu\n  - ray tune\n---\n",
		"quoted":     "---\ntitle: \"yes\"\nanswer: 'no'\ncolon: \"a: b\"\n---\n",
		"float":      "---\nversion: 1.0\nscale: 2e3\ntiny: 1e-7\nnested: {w: 3.0, l: [1.0, 2]}\n---\n",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			first, err := frontmatter.Parse([]byte(input))
			require.NoError(t, err)

			out, err := frontmatter.Serialize(first.Metadata, first.Body)
			require.NoError(t, err)

			second, err := frontmatter.Parse(out)
			require.NoError(t, err)

			assert.Equal(t, first.Metadata, second.Metadata)
			assert.Equal(t, first.Body, second.Body)

			again, err := frontmatter.Serialize(second.Metadata, second.Body)
			require.NoError(t, err)
			assert.Equal(t, string(out), string(again))
		})
	}
}

func TestRoundTrip_TOML(t *testing.T) {
	input := "+++\ntitle = \"t\"\ncategories = [\"a\", \"b\"]\nweight = 2\n+++\nbody"

	first, err := frontmatter.Parse([]byte(input))
	require.NoError(t, err)

	out, err := frontmatter.SerializeFormat(frontmatter.FormatTOML, first.Metadata, first.Body)
	require.NoError(t, err)

	second, err := frontmatter.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, frontmatter.FormatTOML, second.Format)
	assert.Equal(t, first.Metadata, second.Metadata)
	assert.Equal(t, first.Body, second.Body)
}
