package folio

import (
	"context"
	"log/slog"

	"github.com/aretw0/folio/internal/platform"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/index"
	"github.com/aretw0/folio/pkg/site"
	"github.com/aretw0/folio/pkg/typed"
)

// --- Types ---

// Service is the publishing pipeline.
type Service = site.Service

// Site is a wired pipeline with its resolved configuration.
type Site = platform.Site

// Index is the immutable result of a build.
type Index = index.Index

// Post is a published post.
type Post = core.Post

// PostModel is a post together with its front matter decoded into T.
type PostModel[T any] = typed.PostModel[T]

// --- Configuration ---

// Option defines a functional option for configuring folio.
type Option = platform.Option

// WithLogger sets the logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithSource allows injecting a custom Content Store.
func WithSource(src core.Source) Option {
	return platform.WithSource(src)
}

// WithInclude replaces the default include patterns.
func WithInclude(patterns ...string) Option {
	return platform.WithInclude(patterns...)
}

// WithExclude adds exclude patterns.
func WithExclude(patterns ...string) Option {
	return platform.WithExclude(patterns...)
}

// WithPermalink sets the permalink style or pattern.
func WithPermalink(pattern string) Option {
	return platform.WithPermalink(pattern)
}

// WithUnpublished indexes posts marked `published: false`.
func WithUnpublished(enabled bool) Option {
	return platform.WithUnpublished(enabled)
}

// WithCache enables or disables the summary cache.
func WithCache(enabled bool) Option {
	return platform.WithCache(enabled)
}

// WithRevisions stamps posts with their last git revision.
func WithRevisions(enabled bool) Option {
	return platform.WithRevisions(enabled)
}

// WithWordsPerMinute sets the reading speed used for reading time.
func WithWordsPerMinute(wpm int) Option {
	return platform.WithWordsPerMinute(wpm)
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".folio").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithOutput sets the build output directory.
func WithOutput(dir string) Option {
	return platform.WithOutput(dir)
}

// --- Factory ---

// New creates the pipeline for the site at root.
func New(root string, opts ...Option) (*Service, error) {
	return platform.New(root, opts...)
}

// Open creates the pipeline for the site at root and returns it with its
// resolved configuration.
func Open(root string, opts ...Option) (*Site, error) {
	return platform.Open(root, opts...)
}

// FindRoot looks upwards from dir for a site root.
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}

// Build runs the pipeline once over the site at root and writes the output.
// Document errors are returned as a *core.BuildErrors after the output of
// the surviving posts is written.
func Build(ctx context.Context, root string, opts ...Option) (*Index, error) {
	s, err := platform.Open(root, opts...)
	if err != nil {
		return nil, err
	}
	return s.Service.Generate(ctx, s.Sink())
}

// --- Typed access ---

// View decodes the front matter of post into T.
func View[T any](post Post) (*PostModel[T], error) {
	return typed.View[T](post)
}

// ViewAll decodes the front matter of every post of ix into T, in
// chronological order.
func ViewAll[T any](ix *Index) ([]*PostModel[T], error) {
	return typed.ViewAll[T](ix.Posts())
}

// WithSchema validates front matter against a JSON Schema file.
func WithSchema(path string) Option {
	return platform.WithSchema(path)
}
