package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/git"
	"github.com/aretw0/folio/pkg/site"
	"github.com/aretw0/folio/pkg/typed"
)

// Site is a wired pipeline together with its resolved configuration.
type Site struct {
	Root    string
	Config  Config
	Service *site.Service
	Source  core.Source
}

// Output returns the absolute output directory.
func (s *Site) Output() string {
	if filepath.IsAbs(s.Config.Output) {
		return s.Config.Output
	}
	return filepath.Join(s.Root, s.Config.Output)
}

// Sink returns the filesystem writer for the output directory.
func (s *Site) Sink() core.Sink {
	return fs.NewWriter(s.Output())
}

// Open wires the pipeline for the site at root: folio.toml is read, explicit
// options are layered on top and the filesystem Content Store, summary cache
// and git revisions are attached.
func Open(root string, opts ...Option) (*Site, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if o.source == nil {
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to open site: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("failed to open site: %s is not a directory", abs)
		}
	}

	file, err := LoadConfig(abs)
	if err != nil {
		return nil, err
	}
	cfg := resolve(file, o)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	src := o.source
	if src == nil {
		exclude := cfg.Exclude
		if rel, err := filepath.Rel(abs, filepath.Join(abs, cfg.Output)); err == nil && filepath.IsLocal(rel) {
			exclude = append(append([]string(nil), exclude...), filepath.ToSlash(rel)+"/**")
		}
		src = fs.NewSource(fs.Config{
			Path:      abs,
			Include:   cfg.Include,
			Exclude:   exclude,
			SystemDir: cfg.SystemDir,
			Logger:    logger,
		})
	}

	svcCfg := site.Config{
		Logger:             logger,
		Permalink:          cfg.Permalink,
		WordsPerMinute:     cfg.WordsPerMinute,
		IncludeUnpublished: cfg.Unpublished,
	}
	if cfg.CacheEnabled() && o.source == nil {
		svcCfg.Cache = fs.NewCache(abs, cfg.SystemDir)
	}
	if cfg.Schema != "" {
		path := cfg.Schema
		if !filepath.IsAbs(path) {
			path = filepath.Join(abs, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema: %w", err)
		}
		schema, err := typed.CompileSchema(data)
		if err != nil {
			return nil, err
		}
		svcCfg.Validator = schema
	}
	if cfg.Revisions {
		client := git.NewClient(abs, logger)
		if client.IsRepo(context.Background()) {
			svcCfg.Revisions = client
		} else {
			logger.Warn("revisions requested outside a git work tree", "root", abs)
		}
	}

	logger.Debug("site opened", "root", abs, "permalink", cfg.Permalink, "cache", svcCfg.Cache != nil)
	return &Site{
		Root:    abs,
		Config:  cfg,
		Service: site.NewService(src, svcCfg),
		Source:  src,
	}, nil
}

// New wires the pipeline and returns its service.
//
//	svc, err := folio.New("./blog", folio.WithPermalink("pretty"))
func New(root string, opts ...Option) (*site.Service, error) {
	s, err := Open(root, opts...)
	if err != nil {
		return nil, err
	}
	return s.Service, nil
}
