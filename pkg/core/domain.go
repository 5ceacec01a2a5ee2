// Package core holds the domain of the publishing pipeline: the raw documents
// read from the Content Store, the posts derived from them and the error kinds
// a build reports.
package core

import "time"

// Metadata represents the flexible key-value pairs of a front-matter block.
// Keys the pipeline does not understand are kept as they were decoded.
type Metadata map[string]any

// Document is a raw entry of the Content Store.
// It carries the bytes exactly as read, before any parsing.
type Document struct {
	Path    string // relative to the content root, slash separated
	Name    string // base filename
	Raw     []byte
	ModTime time.Time
}

// Footnote is a footnote definition found in a post body.
type Footnote struct {
	Index int    `json:"index"`
	Ref   string `json:"ref"`
	Text  string `json:"text"`
}

// Post is the central entity of the domain.
// It is immutable once published: an edit of the same file yields a new
// version of the same ID, never a new entity.
type Post struct {
	ID             string     `json:"id"`
	Slug           string     `json:"slug"`
	Date           time.Time  `json:"date"`
	Title          string     `json:"title"`
	Subtitle       string     `json:"subtitle,omitempty"`
	Layout         string     `json:"layout,omitempty"`
	Image          string     `json:"image,omitempty"`
	Categories     []string   `json:"categories"`
	Series         string     `json:"series,omitempty"`
	ReadTime       bool       `json:"read_time"`
	ReadingMinutes int        `json:"reading_minutes"`
	Excerpt        string     `json:"excerpt,omitempty"`
	Footnotes      []Footnote `json:"footnotes,omitempty"`
	Body           string     `json:"body"`
	Metadata       Metadata   `json:"metadata"`
	References     []string   `json:"references"`
	Revision       string     `json:"revision,omitempty"`
	Path           string     `json:"path"`
	Permalink      string     `json:"permalink"`
}

// InCategory reports whether the post is tagged with the given category.
func (p Post) InCategory(name string) bool {
	for _, c := range p.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Summary is the lightweight view of a post used for listings.
type Summary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Date       time.Time `json:"date"`
	Categories []string  `json:"categories,omitempty"`
	Path       string    `json:"path"`
}

// Summarize returns the listing view of the post.
func (p Post) Summarize() Summary {
	return Summary{
		ID:         p.ID,
		Title:      p.Title,
		Date:       p.Date,
		Categories: append([]string(nil), p.Categories...),
		Path:       p.Path,
	}
}

// CrossReference is a directed relation between two posts, keyed by identifier.
type CrossReference struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Token string `json:"token"`
}

// EventType represents the type of change in the Content Store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the Content Store.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return string(e.Type) + " " + e.Path
}
