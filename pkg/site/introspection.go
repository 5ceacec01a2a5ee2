package site

import (
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/folio/pkg/index"
)

// ServiceState exposes the pipeline for observability.
type ServiceState struct {
	Builds     int        `json:"builds"`
	Posts      int        `json:"posts"`
	Errors     int        `json:"errors"`
	LastBuild  *time.Time `json:"last_build,omitempty"`
	Permalink  string     `json:"permalink"`
	Cached     bool       `json:"cached"`
	Revisioned bool       `json:"revisioned"`
	Index      any        `json:"index,omitempty"`
	Source     any        `json:"source,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := ServiceState{
		Builds:     s.builds,
		Errors:     s.lastErrs,
		LastBuild:  s.lastBuild,
		Permalink:  s.permalink,
		Cached:     s.config.Cache != nil,
		Revisioned: s.config.Revisions != nil,
	}
	if s.last != nil {
		st.Posts = s.last.Len()
		st.Index = s.last.State()
	}
	if src, ok := s.source.(introspection.Introspectable); ok {
		st.Source = src.State()
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "pipeline"
}

// Last returns the index of the most recent build, or nil.
func (s *Service) Last() *index.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
