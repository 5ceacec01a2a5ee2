// Package typed converts the opaque front-matter mapping into typed views.
package typed

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/folio/pkg/core"
)

// PostModel wraps a core.Post with a typed view of its metadata.
type PostModel[T any] struct {
	Post core.Post
	Data T
}

// Decode converts metadata into T through its JSON representation, so T uses
// `json` struct tags. Keys without a matching field are ignored.
func Decode[T any](meta core.Metadata) (T, error) {
	var data T

	dataBytes, err := json.Marshal(meta)
	if err != nil {
		return data, fmt.Errorf("metadata marshal failed: %w", err)
	}
	if err := json.Unmarshal(dataBytes, &data); err != nil {
		return data, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return data, nil
}

// View returns the typed model of a post.
func View[T any](post core.Post) (*PostModel[T], error) {
	data, err := Decode[T](post.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to process post %s: %w", post.ID, err)
	}
	return &PostModel[T]{Post: post, Data: data}, nil
}

// ViewAll converts every post, failing on the first post T cannot hold.
func ViewAll[T any](posts []core.Post) ([]*PostModel[T], error) {
	result := make([]*PostModel[T], 0, len(posts))
	for _, p := range posts {
		model, err := View[T](p)
		if err != nil {
			return nil, err
		}
		result = append(result, model)
	}
	return result, nil
}
