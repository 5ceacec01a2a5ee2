// Package fs is the filesystem Content Store: it discovers post files under a
// site root, caches their summaries, writes build output and reports changes.
package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/folio/pkg/core"
)

// DefaultSystemDir holds folio's own files (the summary cache) inside a site.
const DefaultSystemDir = ".folio"

var (
	// PostsInclude selects posts in a Jekyll layout, where pages live next
	// to the _posts directory.
	PostsInclude = []string{"**/_posts/**/*.{md,markdown}"}
	// FlatInclude selects every Markdown file of a site without _posts.
	FlatInclude = []string{"**/*.{md,markdown}"}
	// DefaultExclude is always applied on top of the configured excludes.
	DefaultExclude = []string{"**/README.md", "_site/**"}
)

// Config holds the configuration for the filesystem source.
type Config struct {
	Path      string
	Include   []string // doublestar patterns relative to Path; empty selects the default layout
	Exclude   []string
	SystemDir string // e.g. ".folio"
	Logger    *slog.Logger
}

// Source implements core.Source and core.Watchable on a directory tree.
type Source struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

// NewSource creates a source reading the tree at config.Path.
func NewSource(config Config) *Source {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Source{
		Path:   config.Path,
		config: config,
	}
}

// Include returns the effective include patterns.
func (s *Source) Include() []string {
	if len(s.config.Include) > 0 {
		return s.config.Include
	}
	if info, err := os.Stat(filepath.Join(s.Path, "_posts")); err == nil && info.IsDir() {
		return PostsInclude
	}
	return FlatInclude
}

// Exclude returns the effective exclude patterns.
func (s *Source) Exclude() []string {
	out := make([]string, 0, len(DefaultExclude)+len(s.config.Exclude))
	out = append(out, DefaultExclude...)
	return append(out, s.config.Exclude...)
}

// List walks the tree and reads every matching file, ordered by path.
func (s *Source) List(ctx context.Context) ([]core.Document, error) {
	include, exclude := s.Include(), s.Exclude()
	var docs []core.Document

	err := filepath.WalkDir(s.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := s.rel(path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel != "." && s.skipDir(rel, d.Name(), exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !matches(rel, include, exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}

		docs = append(docs, core.Document{
			Path:    rel,
			Name:    d.Name(),
			Raw:     raw,
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", s.Path, err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	s.config.Logger.Debug("content store listed", "root", s.Path, "documents", len(docs))
	return docs, nil
}

func (s *Source) rel(path string) (string, error) {
	rel, err := filepath.Rel(s.Path, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// skipDir reports whether a directory is never part of the content tree:
// dot-directories, the system directory and excluded subtrees.
func (s *Source) skipDir(rel, name string, exclude []string) bool {
	if strings.HasPrefix(name, ".") || name == s.config.SystemDir {
		return true
	}
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok && strings.HasSuffix(pattern, "/**") {
			return true
		}
	}
	return false
}

func matches(rel string, include, exclude []string) bool {
	if strings.HasPrefix(filepath.Base(rel), ".") {
		return false
	}
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	for _, pattern := range include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

var _ core.Source = (*Source)(nil)
var _ core.Watchable = (*Source)(nil)
