package index

import (
	"path"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/aretw0/folio/pkg/core"
)

// Named permalink styles.
var permalinkStyles = map[string]string{
	"date":    "/:categories/:year/:month/:day/:title.html",
	"pretty":  "/:categories/:year/:month/:day/:title/",
	"ordinal": "/:categories/:year/:y_day/:title.html",
	"none":    "/:categories/:title.html",
}

// DefaultPermalink is the pattern used when none is configured.
const DefaultPermalink = "date"

// Permalink expands pattern for post. pattern is either a named style or a
// string of literal segments and :tokens. :categories and :title are URL
// slugs; :slug is the filename slug as written. A `permalink` value in the
// post's front matter takes precedence.
func Permalink(pattern string, post core.Post) string {
	if own, ok := post.Metadata["permalink"].(string); ok && strings.TrimSpace(own) != "" {
		pattern = strings.TrimSpace(own)
	}
	if style, ok := permalinkStyles[pattern]; ok {
		pattern = style
	}
	if pattern == "" {
		pattern = permalinkStyles[DefaultPermalink]
	}

	cats := make([]string, 0, len(post.Categories))
	for _, c := range post.Categories {
		cats = append(cats, urlSegment(c))
	}

	replacer := strings.NewReplacer(
		":categories", strings.Join(cats, "/"),
		":year", post.Date.Format("2006"),
		":month", post.Date.Format("01"),
		":day", post.Date.Format("02"),
		":i_month", post.Date.Format("1"),
		":i_day", post.Date.Format("2"),
		":y_day", post.Date.Format("002"),
		":title", urlSegment(post.Slug),
		":slug", post.Slug,
	)
	expanded := replacer.Replace(pattern)

	trailing := strings.HasSuffix(expanded, "/")
	cleaned := path.Clean("/" + expanded)
	if trailing && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned
}

// IsPermalinkStyle reports whether name is a named permalink style.
func IsPermalinkStyle(name string) bool {
	_, ok := permalinkStyles[name]
	return ok
}

// urlSegment turns a category or title into a path segment.
func urlSegment(s string) string {
	if normalized, err := slug.Normalize(s); err == nil && normalized != "" {
		return normalized
	}
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "-")
}
