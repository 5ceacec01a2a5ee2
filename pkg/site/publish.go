package site

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/index"
)

const (
	// IndexFile is the name of the global index in the output.
	IndexFile = "index.json"
	// PostsDir holds one record per post in the output.
	PostsDir = "posts"
)

// Manifest is the global index handed to the renderer.
type Manifest struct {
	index.Snapshot
	Posts []core.Summary `json:"posts"`
}

// NewManifest returns the manifest of ix.
func NewManifest(ix *index.Index) Manifest {
	m := Manifest{Snapshot: ix.Snapshot(), Posts: make([]core.Summary, 0, ix.Len())}
	for p := range ix.All() {
		m.Posts = append(m.Posts, p.Summarize())
	}
	return m
}

// Encode renders v as the canonical output encoding: indented JSON with
// sorted map keys and a trailing newline.
func Encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Publish writes the manifest and every post record to sink, then removes
// records of posts no longer in the index. The output depends only on ix.
func (s *Service) Publish(ctx context.Context, ix *index.Index, sink core.Sink) error {
	data, err := Encode(NewManifest(ix))
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := sink.Write(ctx, IndexFile, data); err != nil {
		return err
	}

	keep := make(map[string]bool, ix.Len())
	for post := range ix.All() {
		name := post.ID + ".json"
		data, err := Encode(post)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", post.ID, err)
		}
		if err := sink.Write(ctx, PostsDir+"/"+name, data); err != nil {
			return err
		}
		keep[name] = true
	}

	if err := sink.Retain(ctx, PostsDir, keep); err != nil {
		return err
	}
	s.logger.Info("output written", "posts", ix.Len())
	return nil
}

// Generate builds the site and publishes whatever survived. Document errors
// are returned after the output is written; a publishing failure wins over
// them.
func (s *Service) Generate(ctx context.Context, sink core.Sink) (*index.Index, error) {
	ix, buildErr := s.Build(ctx)
	if ix == nil {
		return nil, buildErr
	}
	if err := s.Publish(ctx, ix, sink); err != nil {
		return ix, fmt.Errorf("failed to publish: %w", err)
	}
	return ix, buildErr
}
