package typed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/typed"
)

func TestFrontMatterOf(t *testing.T) {
	meta := core.Metadata{
		"layout":     "post",
		"title":      "Distributed HPO on TPUs",
		"subtitle":   "Ray Tune meets PyTorch/XLA",
		"cover-img":  "/assets/img/tpu.png",
		"categories": []any{"tpu", "ml", "tpu"},
		"readtime":   true,
		"series":     "hpo",
		"unknown":    map[string]any{"kept": true},
	}

	fm, err := typed.FrontMatterOf(meta)
	require.NoError(t, err)

	assert.Equal(t, "Distributed HPO on TPUs", fm.Title)
	assert.Equal(t, "Ray Tune meets PyTorch/XLA", fm.Subtitle)
	assert.Equal(t, "post", fm.Layout)
	assert.Equal(t, "/assets/img/tpu.png", fm.Image)
	assert.Equal(t, []string{"tpu", "ml"}, fm.Categories)
	assert.True(t, fm.ReadTime)
	assert.True(t, fm.Published)
	assert.Equal(t, "hpo", fm.Series)
}

func TestFrontMatterOf_Variants(t *testing.T) {
	tests := []struct {
		name  string
		meta  core.Metadata
		check func(t *testing.T, fm typed.FrontMatter)
	}{
		{
			name: "Space separated categories",
			meta: core.Metadata{"categories": "fpga  hardware"},
			check: func(t *testing.T, fm typed.FrontMatter) {
				assert.Equal(t, []string{"fpga", "hardware"}, fm.Categories)
			},
		},
		{
			name: "Singular category appended",
			meta: core.Metadata{"categories": []any{"fpga"}, "category": "opencl"},
			check: func(t *testing.T, fm typed.FrontMatter) {
				assert.Equal(t, []string{"fpga", "opencl"}, fm.Categories)
			},
		},
		{
			name: "No categories",
			meta: core.Metadata{},
			check: func(t *testing.T, fm typed.FrontMatter) {
				assert.NotNil(t, fm.Categories)
				assert.Empty(t, fm.Categories)
			},
		},
		{
			name: "Numeric title",
			meta: core.Metadata{"title": 2021},
			check: func(t *testing.T, fm typed.FrontMatter) {
				assert.Equal(t, "2021", fm.Title)
			},
		},
		{
			name: "read_time as string",
			meta: core.Metadata{"read_time": "true"},
			check: func(t *testing.T, fm typed.FrontMatter) {
				assert.True(t, fm.ReadTime)
			},
		},
		{
			name: "Image mapping",
			meta: core.Metadata{"image": map[string]any{"path": "/a.png", "height": 100}},
			check: func(t *testing.T, fm typed.FrontMatter) {
				assert.Equal(t, "/a.png", fm.Image)
			},
		},
		{
			name: "Unpublished",
			meta: core.Metadata{"published": false},
			check: func(t *testing.T, fm typed.FrontMatter) {
				assert.False(t, fm.Published)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fm, err := typed.FrontMatterOf(tc.meta)
			require.NoError(t, err)
			tc.check(t, fm)
		})
	}
}

func TestFrontMatterOf_Invalid(t *testing.T) {
	tests := map[string]core.Metadata{
		"title mapping":        {"title": map[string]any{"a": 1}},
		"nested categories":    {"categories": []any{[]any{"a"}}},
		"categories mapping":   {"categories": map[string]any{"a": 1}},
		"readtime not boolean": {"readtime": "sometimes"},
		"published list":       {"published": []any{true}},
	}

	for name, meta := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := typed.FrontMatterOf(meta)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrParse)
		})
	}
}

func TestDecode(t *testing.T) {
	type seo struct {
		Title   string   `json:"title"`
		Tags    []string `json:"tags"`
		Comment bool     `json:"comments"`
	}

	post := core.Post{
		ID: "2021-05-09-fpga-part-1",
		Metadata: core.Metadata{
			"title":    "FPGA",
			"tags":     []any{"a", "b"},
			"comments": true,
			"extra":    1,
		},
	}

	model, err := typed.View[seo](post)
	require.NoError(t, err)
	assert.Equal(t, "FPGA", model.Data.Title)
	assert.Equal(t, []string{"a", "b"}, model.Data.Tags)
	assert.True(t, model.Data.Comment)
	assert.Equal(t, post.ID, model.Post.ID)

	_, err = typed.Decode[seo](core.Metadata{"title": []any{1}})
	assert.Error(t, err)

	models, err := typed.ViewAll[seo]([]core.Post{post, post})
	require.NoError(t, err)
	assert.Len(t, models, 2)
}
