package index

import (
	"regexp"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

// DateLayout is the layout of the date prefix of a post filename.
const DateLayout = "2006-01-02"

var filenamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-([A-Za-z0-9][A-Za-z0-9._-]*)\.([A-Za-z0-9]+)$`)

// Name is what a post filename encodes.
type Name struct {
	ID   string // <date>-<slug>
	Date time.Time
	Slug string
	Ext  string // without the dot
}

// ParseFilename extracts the date and slug of a filename following the
// <date>-<slug>.<ext> convention. The date must be a real calendar day.
// The extension is not part of the identifier.
func ParseFilename(name string) (Name, error) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return Name{}, &core.NamingError{Name: name, Reason: "does not match <YYYY-MM-DD>-<slug>.<ext>"}
	}

	date, err := time.Parse(DateLayout, m[1])
	if err != nil {
		return Name{}, &core.NamingError{Name: name, Reason: "has an invalid date " + m[1]}
	}

	return Name{
		ID:   m[1] + "-" + m[2],
		Date: date,
		Slug: m[2],
		Ext:  m[3],
	}, nil
}
