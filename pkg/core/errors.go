package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common errors.
var (
	ErrParse      = errors.New("malformed front matter")
	ErrNaming     = errors.New("filename does not match the date-slug convention")
	ErrUnresolved = errors.New("unresolved cross-reference")
	ErrNotFound   = errors.New("post not found")
)

// ParseError reports a missing or malformed front-matter block.
type ParseError struct {
	Path   string
	Line   int // 1-based, zero when unknown
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error")
	if e.Path != "" {
		b.WriteString(" in ")
		b.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// NamingError reports a filename outside the <date>-<slug>.<ext> convention,
// or one whose identifier is already taken.
type NamingError struct {
	Path   string
	Name   string
	Reason string
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("naming error in %s: %q %s", e.Path, e.Name, e.Reason)
}

func (e *NamingError) Is(target error) bool { return target == ErrNaming }

// UnresolvedReferenceError reports a cross-reference whose target identifier
// does not exist in the Content Store at resolution time.
type UnresolvedReferenceError struct {
	Path   string
	From   string
	Token  string
	Target string
	Reason string // optional detail, e.g. when the target was itself excluded
}

func (e *UnresolvedReferenceError) Error() string {
	msg := fmt.Sprintf("unresolved reference in %s: %s points to unknown post %q", e.Path, e.Token, e.Target)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *UnresolvedReferenceError) Is(target error) bool { return target == ErrUnresolved }

// BuildErrors collects the per-document failures of a whole batch.
type BuildErrors struct {
	Errs []error
}

// Add records err. Nil errors are ignored.
func (b *BuildErrors) Add(err error) {
	if err != nil {
		b.Errs = append(b.Errs, err)
	}
}

// Len returns the number of collected errors.
func (b *BuildErrors) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Errs)
}

// Sort orders the errors by document path, then message, so reports are stable.
func (b *BuildErrors) Sort() {
	sort.SliceStable(b.Errs, func(i, j int) bool {
		pi, pj := PathOf(b.Errs[i]), PathOf(b.Errs[j])
		if pi != pj {
			return pi < pj
		}
		return b.Errs[i].Error() < b.Errs[j].Error()
	})
}

func (b *BuildErrors) Error() string {
	if len(b.Errs) == 1 {
		return b.Errs[0].Error()
	}
	lines := make([]string, 0, len(b.Errs)+1)
	lines = append(lines, fmt.Sprintf("%d documents failed:", len(b.Errs)))
	for _, err := range b.Errs {
		lines = append(lines, "  "+err.Error())
	}
	return strings.Join(lines, "\n")
}

func (b *BuildErrors) Unwrap() []error { return b.Errs }

// ErrOrNil returns b as an error when it holds at least one failure.
func (b *BuildErrors) ErrOrNil() error {
	if b.Len() == 0 {
		return nil
	}
	return b
}

// PathOf returns the document path carried by a pipeline error, if any.
func PathOf(err error) string {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Path
	}
	var ne *NamingError
	if errors.As(err, &ne) {
		return ne.Path
	}
	var ue *UnresolvedReferenceError
	if errors.As(err, &ue) {
		return ue.Path
	}
	return ""
}
