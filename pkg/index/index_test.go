package index_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/index"
)

func post(t *testing.T, filename string, categories ...string) core.Post {
	t.Helper()
	n, err := index.ParseFilename(filename)
	require.NoError(t, err)
	if categories == nil {
		categories = []string{}
	}
	return core.Post{
		ID:         n.ID,
		Slug:       n.Slug,
		Date:       n.Date,
		Categories: categories,
		Path:       "_posts/" + filename,
		Metadata:   core.Metadata{},
	}
}

func TestBuild_ChronologicalOrder(t *testing.T) {
	posts := []core.Post{
		post(t, "2021-05-10-fpga-part-2.md", "fpga"),
		post(t, "2021-05-09-fpga-part-1.md", "fpga", "hardware"),
		post(t, "2022-01-01-tpu.md", "tpu"),
		post(t, "2021-05-09-aside.md", "hardware"),
	}

	ix, errs := index.Build("", posts)
	require.Empty(t, errs)

	assert.Equal(t, []string{
		"2021-05-09-aside",
		"2021-05-09-fpga-part-1",
		"2021-05-10-fpga-part-2",
		"2022-01-01-tpu",
	}, ix.Order())
	assert.Equal(t, 4, ix.Len())
}

// Ordering is total and stable: any permutation of the input yields the same order.
func TestBuild_OrderIndependentOfInput(t *testing.T) {
	names := []string{
		"2021-05-09-b.md", "2021-05-09-a.md", "2021-05-09-c.md",
		"2020-01-01-z.md", "2023-03-03-m.md", "2021-05-09-aa.md",
	}
	var posts []core.Post
	for _, n := range names {
		posts = append(posts, post(t, n))
	}

	want, errs := index.Build("", posts)
	require.Empty(t, errs)

	rng := rand.New(rand.NewSource(42))
	for range 50 {
		shuffled := append([]core.Post(nil), posts...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got, errs := index.Build("", shuffled)
		require.Empty(t, errs)
		assert.Equal(t, want.Order(), got.Order())
		assert.Equal(t, want.CategoryMap(), got.CategoryMap())
	}

	assert.Equal(t, []string{"2020-01-01-z", "2021-05-09-a", "2021-05-09-aa", "2021-05-09-b", "2021-05-09-c", "2023-03-03-m"}, want.Order())
}

func TestBuild_CategoryGrouping(t *testing.T) {
	ix, errs := index.Build("", []core.Post{
		post(t, "2022-01-01-tpu.md", "ml", "tpu"),
		post(t, "2021-05-10-fpga-part-2.md", "fpga"),
		post(t, "2021-05-09-fpga-part-1.md", "fpga", "hardware"),
		post(t, "2021-06-01-synthesis.md", "hardware", "fpga"),
	})
	require.Empty(t, errs)

	assert.Equal(t, []string{"fpga", "hardware", "ml", "tpu"}, ix.Categories())
	assert.Equal(t, []string{"2021-05-09-fpga-part-1", "2021-05-10-fpga-part-2", "2021-06-01-synthesis"}, ix.InCategory("fpga"))
	assert.Equal(t, []string{"2021-05-09-fpga-part-1", "2021-06-01-synthesis"}, ix.InCategory("hardware"))
	assert.Empty(t, ix.InCategory("missing"))

	// Returned slices are copies.
	got := ix.InCategory("fpga")
	got[0] = "mutated"
	assert.Equal(t, "2021-05-09-fpga-part-1", ix.InCategory("fpga")[0])
}

func TestBuild_DuplicateIdentifier(t *testing.T) {
	first := post(t, "2021-05-09-fpga-part-1.md")
	second := post(t, "2021-05-09-fpga-part-1.markdown")

	ix, errs := index.Build("", []core.Post{first, second})
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], core.ErrNaming)

	var ne *core.NamingError
	require.ErrorAs(t, errs[0], &ne)
	assert.Equal(t, second.Path, ne.Path)
	assert.Contains(t, ne.Reason, first.Path)

	assert.Equal(t, 1, ix.Len())
	got, ok := ix.Get(first.ID)
	require.True(t, ok)
	assert.Equal(t, first.Path, got.Path)
}

func TestIndex_AllIsLazy(t *testing.T) {
	ix, _ := index.Build("", []core.Post{
		post(t, "2021-01-01-a.md"),
		post(t, "2021-01-02-b.md"),
		post(t, "2021-01-03-c.md"),
	})

	var seen []string
	for p := range ix.All() {
		seen = append(seen, p.ID)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"2021-01-01-a", "2021-01-02-b"}, seen)
}

func TestIndex_SeriesAndBacklinks(t *testing.T) {
	p1 := post(t, "2021-05-09-fpga-part-1.md", "fpga")
	p1.Series = "fpga"
	p1.References = []string{"2021-05-10-fpga-part-2"}
	p2 := post(t, "2021-05-10-fpga-part-2.md", "fpga")
	p2.Series = "fpga"
	p3 := post(t, "2021-05-20-fpga-part-3.md", "fpga")
	p3.Series = "fpga"
	p3.References = []string{"2021-05-10-fpga-part-2", "2021-05-09-fpga-part-1"}
	other := post(t, "2021-05-15-other.md")

	ix, errs := index.Build("", []core.Post{p3, other, p2, p1})
	require.Empty(t, errs)

	assert.Equal(t, []string{p1.ID, p2.ID, p3.ID}, ix.Series("fpga"))

	prev, next := ix.Neighbors(p2.ID)
	assert.Equal(t, p1.ID, prev)
	assert.Equal(t, p3.ID, next)

	prev, next = ix.Neighbors(p1.ID)
	assert.Empty(t, prev)
	assert.Equal(t, p2.ID, next)

	prev, next = ix.Neighbors(other.ID)
	assert.Empty(t, prev)
	assert.Empty(t, next)

	assert.Equal(t, []string{p1.ID, p3.ID}, ix.Backlinks(p2.ID))
	assert.Len(t, ix.Edges(), 3)

	snap := ix.Snapshot()
	assert.Equal(t, index.SeriesLink{Prev: p1.ID, Next: p3.ID}, snap.Navigation[p2.ID])
	assert.Equal(t, ix.Order(), snap.Order)

	state, ok := ix.State().(index.IndexState)
	require.True(t, ok)
	assert.Equal(t, 4, state.Posts)
	assert.Equal(t, 3, state.Edges)
	assert.Equal(t, "index", ix.ComponentType())
}

func TestLess(t *testing.T) {
	day := time.Date(2021, 5, 9, 0, 0, 0, 0, time.UTC)
	a := core.Post{ID: "2021-05-09-a", Slug: "a", Date: day}
	b := core.Post{ID: "2021-05-09-b", Slug: "b", Date: day}
	c := core.Post{ID: "2021-05-10-a", Slug: "a", Date: day.AddDate(0, 0, 1)}

	assert.True(t, index.Less(a, b))
	assert.False(t, index.Less(b, a))
	assert.True(t, index.Less(b, c))
	assert.False(t, index.Less(a, a))
}
