package site

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/frontmatter"
	"github.com/aretw0/folio/pkg/index"
	"github.com/aretw0/folio/pkg/typed"
)

// List returns the chronological listing of the published posts. Summaries
// come from the cache when a file is unchanged since it was last listed.
// Unlike Build, List does not resolve cross-references; invalid documents
// are left out silently.
func (s *Service) List(ctx context.Context) ([]core.Summary, error) {
	docs, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	cache := s.config.Cache
	if cache != nil {
		if err := cache.Load(); err != nil {
			s.logger.Warn("cache unavailable", "error", err)
		}
	}

	seen := make(map[string]bool, len(docs))
	claimed := make(map[string]bool, len(docs))
	summaries := make([]core.Summary, 0, len(docs))
	hits := 0

	for _, doc := range docs {
		seen[doc.Path] = true

		var sum core.Summary
		var ok bool
		if cache != nil {
			if sum, ok = cache.Get(doc.Path, doc.ModTime); ok {
				hits++
			}
		}
		if !ok {
			if sum, ok = s.summarize(doc); !ok {
				continue
			}
			if cache != nil {
				cache.Set(doc.Path, doc.ModTime, sum)
			}
		}
		if claimed[sum.ID] {
			continue
		}
		claimed[sum.ID] = true
		summaries = append(summaries, sum)
	}

	if cache != nil {
		cache.Prune(seen)
		if err := cache.Save(); err != nil {
			s.logger.Warn("failed to save cache", "error", err)
		}
	}
	s.logger.Debug("listing served", "documents", len(docs), "cache_hits", hits)

	sort.SliceStable(summaries, func(i, j int) bool {
		if !summaries[i].Date.Equal(summaries[j].Date) {
			return summaries[i].Date.Before(summaries[j].Date)
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

// summarize parses just enough of doc to list it. Unpublished posts are
// reported as not listable unless configured otherwise.
func (s *Service) summarize(doc core.Document) (core.Summary, bool) {
	name, err := index.ParseFilename(doc.Name)
	if err != nil {
		return core.Summary{}, false
	}
	parsed, err := frontmatter.Parse(doc.Raw)
	if err != nil {
		return core.Summary{}, false
	}
	fm, err := typed.FrontMatterOf(parsed.Metadata)
	if err != nil || (!fm.Published && !s.config.IncludeUnpublished) {
		return core.Summary{}, false
	}
	return core.Summary{
		ID:         name.ID,
		Title:      fm.Title,
		Date:       name.Date,
		Categories: fm.Categories,
		Path:       doc.Path,
	}, true
}
