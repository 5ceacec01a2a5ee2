// Package index orders posts chronologically and derives the global views the
// renderer consumes: category groups, series navigation and backlinks.
//
// An Index is built once per run and never mutated afterwards; consumers
// receive it by reference.
package index

import (
	"iter"
	"slices"
	"sort"
	"strings"

	"github.com/aretw0/introspection"

	"github.com/aretw0/folio/pkg/core"
)

// Builder accumulates posts and produces an Index.
// It enforces identifier uniqueness as posts are added.
type Builder struct {
	permalink string
	posts     []core.Post
	paths     map[string]string // ID -> path of the post that claimed it
}

// NewBuilder creates a builder expanding permalinks with pattern.
func NewBuilder(pattern string) *Builder {
	return &Builder{
		permalink: pattern,
		paths:     make(map[string]string),
	}
}

// Add registers a post. It fails with a *core.NamingError when the post's
// identifier is already taken; callers add posts in path order so the first
// path wins deterministically.
func (b *Builder) Add(post core.Post) error {
	if owner, taken := b.paths[post.ID]; taken {
		return &core.NamingError{
			Path:   post.Path,
			Name:   baseName(post.Path),
			Reason: "maps to identifier " + post.ID + " already used by " + owner,
		}
	}
	b.paths[post.ID] = post.Path
	b.posts = append(b.posts, post)
	return nil
}

// Build returns the immutable index of every added post.
func (b *Builder) Build() *Index {
	posts := make([]core.Post, len(b.posts))
	copy(posts, b.posts)
	for i := range posts {
		posts[i].Permalink = Permalink(b.permalink, posts[i])
	}
	return newIndex(posts)
}

// Build is a shortcut for adding posts to a fresh builder. Posts whose
// identifier is already taken are returned as errors and left out.
func Build(pattern string, posts []core.Post) (*Index, []error) {
	b := NewBuilder(pattern)
	var errs []error
	for _, p := range posts {
		if err := b.Add(p); err != nil {
			errs = append(errs, err)
		}
	}
	return b.Build(), errs
}

// Less is the chronological order of posts: by date, then slug, then ID.
func Less(a, b core.Post) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if a.Slug != b.Slug {
		return a.Slug < b.Slug
	}
	return a.ID < b.ID
}

// Index is the global, read-only view of a build.
type Index struct {
	posts      []core.Post
	byID       map[string]int
	categories map[string][]string
	series     map[string][]string
	backlinks  map[string][]string
}

func newIndex(posts []core.Post) *Index {
	sort.SliceStable(posts, func(i, j int) bool { return Less(posts[i], posts[j]) })

	ix := &Index{
		posts:      posts,
		byID:       make(map[string]int, len(posts)),
		categories: make(map[string][]string),
		series:     make(map[string][]string),
		backlinks:  make(map[string][]string),
	}

	for i, p := range posts {
		ix.byID[p.ID] = i
		for _, c := range p.Categories {
			ix.categories[c] = append(ix.categories[c], p.ID)
		}
		if p.Series != "" {
			ix.series[p.Series] = append(ix.series[p.Series], p.ID)
		}
	}

	// Backlinks are collected in chronological order of the referencing post.
	for _, p := range posts {
		for _, target := range p.References {
			if _, ok := ix.byID[target]; ok {
				ix.backlinks[target] = append(ix.backlinks[target], p.ID)
			}
		}
	}

	return ix
}

// Len returns the number of indexed posts.
func (ix *Index) Len() int { return len(ix.posts) }

// All lazily yields the posts in chronological order.
func (ix *Index) All() iter.Seq[core.Post] {
	return func(yield func(core.Post) bool) {
		for _, p := range ix.posts {
			if !yield(p) {
				return
			}
		}
	}
}

// Posts returns a copy of the posts in chronological order.
func (ix *Index) Posts() []core.Post {
	return slices.Clone(ix.posts)
}

// Order returns the identifiers in chronological order.
func (ix *Index) Order() []string {
	ids := make([]string, len(ix.posts))
	for i, p := range ix.posts {
		ids[i] = p.ID
	}
	return ids
}

// Get returns the post with the given identifier.
func (ix *Index) Get(id string) (core.Post, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return core.Post{}, false
	}
	return ix.posts[i], true
}

// Has reports whether id is indexed.
func (ix *Index) Has(id string) bool {
	_, ok := ix.byID[id]
	return ok
}

// Categories returns the category names in lexical order.
func (ix *Index) Categories() []string {
	names := make([]string, 0, len(ix.categories))
	for name := range ix.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InCategory returns the identifiers tagged with name, in chronological order.
func (ix *Index) InCategory(name string) []string {
	return slices.Clone(ix.categories[name])
}

// CategoryMap returns a copy of the category -> identifiers grouping.
func (ix *Index) CategoryMap() map[string][]string {
	return cloneGroups(ix.categories)
}

// Series returns the identifiers of a series in chronological order.
func (ix *Index) Series(name string) []string {
	return slices.Clone(ix.series[name])
}

// Neighbors returns the previous and next post of id within its series.
// Either is empty at the ends of the series or when id is not in a series.
func (ix *Index) Neighbors(id string) (prev, next string) {
	p, ok := ix.Get(id)
	if !ok || p.Series == "" {
		return "", ""
	}
	members := ix.series[p.Series]
	i := slices.Index(members, id)
	if i > 0 {
		prev = members[i-1]
	}
	if i >= 0 && i < len(members)-1 {
		next = members[i+1]
	}
	return prev, next
}

// Backlinks returns the posts referencing id, in chronological order.
func (ix *Index) Backlinks(id string) []string {
	return slices.Clone(ix.backlinks[id])
}

// Edges returns every cross-reference in chronological order of the source.
func (ix *Index) Edges() []core.CrossReference {
	var edges []core.CrossReference
	for _, p := range ix.posts {
		for _, target := range p.References {
			edges = append(edges, core.CrossReference{From: p.ID, To: target})
		}
	}
	return edges
}

// SeriesLink is the navigation entry of a post within its series.
type SeriesLink struct {
	Prev string `json:"prev,omitempty"`
	Next string `json:"next,omitempty"`
}

// Snapshot is the serializable global index handed to the renderer.
type Snapshot struct {
	Order      []string              `json:"order"`
	Categories map[string][]string   `json:"categories"`
	Series     map[string][]string   `json:"series"`
	Navigation map[string]SeriesLink `json:"navigation"`
	Backlinks  map[string][]string   `json:"backlinks"`
}

// Snapshot returns the serializable view of the index.
func (ix *Index) Snapshot() Snapshot {
	nav := make(map[string]SeriesLink)
	for _, members := range ix.series {
		for _, id := range members {
			prev, next := ix.Neighbors(id)
			nav[id] = SeriesLink{Prev: prev, Next: next}
		}
	}
	return Snapshot{
		Order:      ix.Order(),
		Categories: cloneGroups(ix.categories),
		Series:     cloneGroups(ix.series),
		Navigation: nav,
		Backlinks:  cloneGroups(ix.backlinks),
	}
}

// IndexState exposes the index for observability.
type IndexState struct {
	Posts      int `json:"posts"`
	Categories int `json:"categories"`
	Series     int `json:"series"`
	Edges      int `json:"edges"`
}

// State implements introspection.Introspectable.
func (ix *Index) State() any {
	edges := 0
	for _, p := range ix.posts {
		edges += len(p.References)
	}
	return IndexState{
		Posts:      len(ix.posts),
		Categories: len(ix.categories),
		Series:     len(ix.series),
		Edges:      edges,
	}
}

// ComponentType implements introspection.Component.
func (ix *Index) ComponentType() string {
	return "index"
}

var _ introspection.Introspectable = (*Index)(nil)
var _ introspection.Component = (*Index)(nil)

func cloneGroups(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = slices.Clone(v)
	}
	return out
}

func baseName(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
