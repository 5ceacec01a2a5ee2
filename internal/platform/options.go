package platform

import (
	"log/slog"

	"github.com/aretw0/folio/pkg/core"
)

// options holds the internal configuration of a folio site.
type options struct {
	source core.Source
	logger *slog.Logger
	// config only holds explicitly set values; they override folio.toml.
	config map[string]interface{}
}

// Option defines a functional option for configuring folio.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		config: make(map[string]interface{}),
	}
}

// WithLogger sets the logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSource allows injecting a custom Content Store (e.g. in-memory).
// If provided, the filesystem adapter is skipped and include/exclude
// patterns are ignored.
func WithSource(src core.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithInclude replaces the default include patterns (doublestar syntax,
// relative to the site root).
func WithInclude(patterns ...string) Option {
	return func(o *options) {
		o.config["include"] = patterns
	}
}

// WithExclude adds exclude patterns on top of the defaults.
func WithExclude(patterns ...string) Option {
	return func(o *options) {
		o.config["exclude"] = patterns
	}
}

// WithPermalink sets the permalink style ("date", "pretty", "ordinal",
// "none") or a pattern such as "/:year/:title/".
func WithPermalink(pattern string) Option {
	return func(o *options) {
		o.config["permalink"] = pattern
	}
}

// WithUnpublished indexes posts marked `published: false`.
func WithUnpublished(enabled bool) Option {
	return func(o *options) {
		o.config["unpublished"] = enabled
	}
}

// WithCache enables or disables the summary cache used by listings.
// By default, the cache is enabled.
func WithCache(enabled bool) Option {
	return func(o *options) {
		o.config["cache"] = enabled
	}
}

// WithRevisions stamps every post with the last git commit touching it.
// It is a no-op outside a git work tree.
func WithRevisions(enabled bool) Option {
	return func(o *options) {
		o.config["revisions"] = enabled
	}
}

// WithWordsPerMinute sets the reading speed used for reading time.
func WithWordsPerMinute(wpm int) Option {
	return func(o *options) {
		o.config["words_per_minute"] = wpm
	}
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".folio").
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithOutput sets the directory build output is written to. Relative paths
// are resolved against the site root.
func WithOutput(dir string) Option {
	return func(o *options) {
		o.config["output"] = dir
	}
}

// WithSchema validates every front-matter block against the JSON Schema file
// at path. Relative paths are resolved against the site root.
func WithSchema(path string) Option {
	return func(o *options) {
		o.config["schema"] = path
	}
}
