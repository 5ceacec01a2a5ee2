// Package xref finds references between posts in body text and resolves them
// against an index by identifier, independently of rendered URLs.
package xref

import (
	"path"
	"regexp"
	"strings"

	"github.com/aretw0/folio/pkg/core"
)

// Kind is the syntax a reference was written in.
type Kind string

const (
	// KindPostURL is `{% post_url 2021-05-10-fpga-part-2 %}`.
	KindPostURL Kind = "post_url"
	// KindLink is `{% link _posts/2021-05-10-fpga-part-2.md %}`.
	KindLink Kind = "link"
)

var (
	tagPattern = regexp.MustCompile(`\{%-?\s*(post_url|link)\s+([^\s%]+)\s*-?%\}`)
	rawPattern = regexp.MustCompile(`(?s)\{%-?\s*raw\s*-?%\}.*?\{%-?\s*endraw\s*-?%\}`)
)

// Reference is a reference token found in a body.
type Reference struct {
	Kind   Kind
	Token  string // the whole tag as written
	Target string // the identifier the tag names
	Offset int    // byte offset of the tag in the body
}

// Lookup is the read side of an index the resolver needs.
type Lookup interface {
	Get(id string) (core.Post, bool)
}

// Scan returns the post references of body in order of appearance. Tags
// inside {% raw %} blocks are not references, and `link` tags pointing
// outside a _posts directory address pages, not posts, so they are skipped.
func Scan(body string) []Reference {
	raw := rawPattern.FindAllStringIndex(body, -1)

	var refs []Reference
	for _, m := range tagPattern.FindAllStringSubmatchIndex(body, -1) {
		if insideAny(m[0], raw) {
			continue
		}
		kind := Kind(body[m[2]:m[3]])
		arg := body[m[4]:m[5]]

		target, ok := targetOf(kind, arg)
		if !ok {
			continue
		}
		refs = append(refs, Reference{
			Kind:   kind,
			Token:  body[m[0]:m[1]],
			Target: target,
			Offset: m[0],
		})
	}
	return refs
}

// targetOf maps a tag argument to the identifier it names: the directory
// prefix and the extension are dropped.
func targetOf(kind Kind, arg string) (string, bool) {
	arg = strings.Trim(arg, `"'`)
	if kind == KindLink && !strings.Contains("/"+arg, "/_posts/") {
		return "", false
	}
	base := path.Base(arg)
	if kind == KindLink {
		base = strings.TrimSuffix(base, path.Ext(base))
	} else {
		for _, ext := range []string{".md", ".markdown", ".html"} {
			base = strings.TrimSuffix(base, ext)
		}
	}
	return base, base != "" && base != "." && base != "/"
}

func insideAny(offset int, spans [][]int) bool {
	for _, s := range spans {
		if offset >= s[0] && offset < s[1] {
			return true
		}
	}
	return false
}

// Resolve maps a reference to its target post. It is a pure function of the
// lookup and the reference: the same inputs always resolve the same way.
func Resolve(ix Lookup, ref Reference) (core.Post, error) {
	target, ok := ix.Get(ref.Target)
	if !ok {
		return core.Post{}, &core.UnresolvedReferenceError{Token: ref.Token, Target: ref.Target}
	}
	return target, nil
}

// ResolveToken resolves a single tag or a bare identifier.
func ResolveToken(ix Lookup, token string) (core.Post, error) {
	refs := Scan(token)
	if len(refs) == 0 {
		return Resolve(ix, Reference{Kind: KindPostURL, Token: token, Target: strings.TrimSpace(token)})
	}
	return Resolve(ix, refs[0])
}

// ResolvePost resolves every reference of post. It returns the distinct
// targets in order of first appearance and one error per unresolved tag.
func ResolvePost(ix Lookup, post core.Post) ([]string, []error) {
	targets := []string{}
	seen := make(map[string]bool)
	var errs []error

	for _, ref := range Scan(post.Body) {
		target, err := Resolve(ix, ref)
		if err != nil {
			if ue, ok := err.(*core.UnresolvedReferenceError); ok {
				ue.Path = post.Path
				ue.From = post.ID
			}
			errs = append(errs, err)
			continue
		}
		if !seen[target.ID] {
			seen[target.ID] = true
			targets = append(targets, target.ID)
		}
	}
	return targets, errs
}
