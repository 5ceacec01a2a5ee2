// Package site runs the publishing pipeline over a Content Store: documents
// are parsed and named, every identifier is collected, cross-references are
// resolved against the complete set and the survivors are indexed.
package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/frontmatter"
	"github.com/aretw0/folio/pkg/index"
	"github.com/aretw0/folio/pkg/markdown"
	"github.com/aretw0/folio/pkg/typed"
	"github.com/aretw0/folio/pkg/xref"
)

// RevisionSource reports the last revision of every tracked document, keyed
// by the document path.
type RevisionSource interface {
	Revisions(ctx context.Context) (map[string]string, error)
}

// Validator checks decoded front matter beyond its syntax.
type Validator interface {
	Validate(meta core.Metadata) error
}

// Config holds the pipeline settings.
type Config struct {
	Logger             *slog.Logger
	Permalink          string // named style or pattern, see index.Permalink
	WordsPerMinute     int
	IncludeUnpublished bool
	Cache              core.SummaryCache // optional, serves List
	Revisions          RevisionSource    // optional, stamps Post.Revision
	Validator          Validator         // optional, rejects front matter as a ParseError
}

// Service is the pipeline entry point.
type Service struct {
	source    core.Source
	logger    *slog.Logger
	analyzer  *markdown.Analyzer
	permalink string
	config    Config

	mu        sync.RWMutex
	last      *index.Index
	lastErrs  int
	builds    int
	lastBuild *time.Time
}

// NewService creates a pipeline reading from source.
func NewService(source core.Source, config Config) *Service {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Permalink == "" {
		config.Permalink = index.DefaultPermalink
	}
	return &Service{
		source:    source,
		logger:    config.Logger,
		analyzer:  markdown.NewAnalyzer(config.WordsPerMinute),
		permalink: config.Permalink,
		config:    config,
	}
}

// candidate is a document that passed the first phase.
type candidate struct {
	post core.Post
	path string
}

// Build runs the whole pipeline once. Per-document failures never abort the
// batch: they are returned together as a *core.BuildErrors next to the index
// of every post that survived. Only a failure of the Content Store itself
// returns a nil index.
func (s *Service) Build(ctx context.Context) (*index.Index, error) {
	docs, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	// Identifiers are claimed in path order whatever order the store uses.
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	revisions := s.revisions(ctx)
	errs := &core.BuildErrors{}

	// Phase 1: parse and name every document, claim identifiers in path order.
	excluded := make(map[string]string) // identifier -> why it is missing from the index
	claimed := make(map[string]string)  // identifier -> path
	var candidates []candidate

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		post, fm, docErrs := s.parse(doc)
		if len(docErrs) > 0 {
			for _, e := range docErrs {
				errs.Add(e)
			}
			if post.ID != "" {
				if _, ok := claimed[post.ID]; !ok {
					excluded[post.ID] = "it failed to parse"
				}
			}
			continue
		}
		if owner, taken := claimed[post.ID]; taken {
			errs.Add(&core.NamingError{
				Path:   doc.Path,
				Name:   doc.Name,
				Reason: "maps to identifier " + post.ID + " already used by " + owner,
			})
			continue
		}
		claimed[post.ID] = doc.Path
		delete(excluded, post.ID)

		if !fm.Published && !s.config.IncludeUnpublished {
			s.logger.Debug("skipping unpublished post", "path", doc.Path)
			excluded[post.ID] = "it is unpublished"
			continue
		}

		post.Revision = revisions[doc.Path]
		candidates = append(candidates, candidate{post: post, path: doc.Path})
	}

	// Phase 2: resolve against the complete identifier set. A post with an
	// unresolved reference leaves the index, which may orphan references to
	// it in turn, so resolution repeats until nothing else is dropped.
	active := make(map[string]*core.Post, len(candidates))
	for i := range candidates {
		active[candidates[i].post.ID] = &candidates[i].post
	}
	for {
		lookup := postLookup(active)
		var dropped []string
		for i := range candidates {
			post := &candidates[i].post
			if _, ok := active[post.ID]; !ok {
				continue
			}
			targets, refErrs := xref.ResolvePost(lookup, *post)
			if len(refErrs) == 0 {
				post.References = targets
				continue
			}
			for _, e := range refErrs {
				var ue *core.UnresolvedReferenceError
				if errors.As(e, &ue) {
					if why, ok := excluded[ue.Target]; ok {
						ue.Reason = "the target exists but is excluded because " + why
					}
				}
				errs.Add(e)
			}
			dropped = append(dropped, post.ID)
		}
		if len(dropped) == 0 {
			break
		}
		for _, id := range dropped {
			delete(active, id)
			excluded[id] = "it has unresolved references"
		}
	}

	builder := index.NewBuilder(s.permalink)
	for i := range candidates {
		if _, ok := active[candidates[i].post.ID]; !ok {
			continue
		}
		if err := builder.Add(candidates[i].post); err != nil {
			errs.Add(err)
		}
	}
	ix := builder.Build()

	errs.Sort()
	for _, e := range errs.Errs {
		s.logger.Warn("document excluded", "path", core.PathOf(e), "error", e)
	}
	s.logger.Info("build finished", "documents", len(docs), "posts", ix.Len(), "errors", errs.Len())

	s.record(ix, errs.Len())
	return ix, errs.ErrOrNil()
}

// Check runs the pipeline without producing output and reports every error.
func (s *Service) Check(ctx context.Context) error {
	_, err := s.Build(ctx)
	return err
}

// Get builds the site and returns one post.
func (s *Service) Get(ctx context.Context, id string) (core.Post, error) {
	ix, err := s.Build(ctx)
	if ix == nil {
		return core.Post{}, err
	}
	post, ok := ix.Get(id)
	if !ok {
		if err != nil {
			return core.Post{}, fmt.Errorf("%w: %s: %w", core.ErrNotFound, id, err)
		}
		return core.Post{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return post, nil
}

// parse runs the per-document stage: filename convention, front matter and
// body analysis. The identifier is filled in whenever the filename is valid,
// even if the front matter is not.
func (s *Service) parse(doc core.Document) (core.Post, typed.FrontMatter, []error) {
	var errs []error
	var post core.Post
	var fm typed.FrontMatter

	name, err := index.ParseFilename(doc.Name)
	if err != nil {
		errs = append(errs, withPath(err, doc.Path))
	} else {
		post.ID, post.Slug, post.Date = name.ID, name.Slug, name.Date
	}
	post.Path = doc.Path

	parsed, err := frontmatter.Parse(doc.Raw)
	if err != nil {
		return post, fm, append(errs, withPath(err, doc.Path))
	}
	// Post records are published as JSON.
	if _, err := json.Marshal(parsed.Metadata); err != nil {
		return post, fm, append(errs, &core.ParseError{Path: doc.Path, Reason: "front matter holds a value JSON cannot represent", Err: err})
	}
	if s.config.Validator != nil {
		if err := s.config.Validator.Validate(parsed.Metadata); err != nil {
			return post, fm, append(errs, withPath(err, doc.Path))
		}
	}
	fm, err = typed.FrontMatterOf(parsed.Metadata)
	if err != nil {
		return post, fm, append(errs, withPath(err, doc.Path))
	}
	if len(errs) > 0 {
		return post, fm, errs
	}

	analysis := s.analyzer.Analyze(parsed.Body)

	post.Title = fm.Title
	post.Subtitle = fm.Subtitle
	post.Layout = fm.Layout
	post.Image = fm.Image
	post.Categories = fm.Categories
	post.Series = fm.Series
	post.ReadTime = fm.ReadTime
	post.ReadingMinutes = analysis.ReadingMinutes
	post.Excerpt = analysis.Excerpt
	post.Footnotes = analysis.Footnotes
	post.Body = parsed.Body
	post.Metadata = parsed.Metadata
	post.References = []string{}
	return post, fm, nil
}

func (s *Service) revisions(ctx context.Context) map[string]string {
	if s.config.Revisions == nil {
		return nil
	}
	revs, err := s.config.Revisions.Revisions(ctx)
	if err != nil {
		s.logger.Warn("revisions unavailable", "error", err)
		return nil
	}
	return revs
}

func (s *Service) record(ix *index.Index, errCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.last = ix
	s.lastErrs = errCount
	s.builds++
	s.lastBuild = &now
}

// postLookup adapts the active set to xref.Lookup.
type postLookup map[string]*core.Post

func (l postLookup) Get(id string) (core.Post, bool) {
	p, ok := l[id]
	if !ok {
		return core.Post{}, false
	}
	return *p, true
}

func withPath(err error, path string) error {
	var pe *core.ParseError
	if errors.As(err, &pe) {
		pe.Path = path
		return err
	}
	var ne *core.NamingError
	if errors.As(err, &ne) {
		ne.Path = path
		return err
	}
	return fmt.Errorf("%s: %w", path, err)
}
