// Package folio is the Composition Root of the folio publishing pipeline.
//
// folio reads a Jekyll-style blog (Markdown posts named
// <YYYY-MM-DD>-<slug>.<ext>, each opening with a YAML or TOML front-matter
// block), resolves the cross-references between posts and produces the
// structured records and global index a renderer consumes.
//
// A build runs in two phases. Every document is first parsed and named, so
// all identifiers are known; then references such as {% post_url ... %} are
// resolved against that complete set. A document that fails (bad front
// matter, bad filename, dangling reference) is reported and left out, and
// the rest of the corpus is still built.
//
// Usage:
//
//	ix, err := folio.Build(ctx, "./blog", folio.WithPermalink("pretty"))
//	var be *core.BuildErrors
//	if errors.As(err, &be) {
//		// some posts were excluded, ix holds the others
//	}
package folio
