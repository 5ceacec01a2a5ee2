package typed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/folio/pkg/core"
)

// Keys accepted for each front-matter field, in order of precedence.
// Themes disagree on spelling, so the common variants are all honored.
var (
	imageKeys    = []string{"cover-img", "cover_image", "image"}
	readTimeKeys = []string{"readtime", "read_time"}
)

// FrontMatter is the typed view of the keys the pipeline understands.
type FrontMatter struct {
	Title      string
	Subtitle   string
	Layout     string
	Image      string
	Categories []string
	Series     string
	ReadTime   bool
	Permalink  string
	Published  bool
}

// FrontMatterOf extracts the known fields from meta. A known key holding a
// value of the wrong shape (a mapping where a title is expected, a nested
// list of categories, ...) is reported as a *core.ParseError.
func FrontMatterOf(meta core.Metadata) (FrontMatter, error) {
	fm := FrontMatter{Published: true}
	var err error

	if fm.Title, err = scalar(meta, "title"); err != nil {
		return fm, err
	}
	if fm.Subtitle, err = scalar(meta, "subtitle"); err != nil {
		return fm, err
	}
	if fm.Layout, err = scalar(meta, "layout"); err != nil {
		return fm, err
	}
	if fm.Series, err = scalar(meta, "series"); err != nil {
		return fm, err
	}
	if fm.Permalink, err = scalar(meta, "permalink"); err != nil {
		return fm, err
	}
	if fm.Image, err = image(meta); err != nil {
		return fm, err
	}
	if fm.Categories, err = categories(meta); err != nil {
		return fm, err
	}
	for _, key := range readTimeKeys {
		if _, ok := meta[key]; !ok {
			continue
		}
		if fm.ReadTime, err = flag(meta, key); err != nil {
			return fm, err
		}
		break
	}
	if _, ok := meta["published"]; ok {
		if fm.Published, err = flag(meta, "published"); err != nil {
			return fm, err
		}
	}

	return fm, nil
}

func invalid(key, want string, val any) error {
	return &core.ParseError{Reason: fmt.Sprintf("key %q must be %s, got %T", key, want, val)}
}

func scalar(meta core.Metadata, key string) (string, error) {
	val, ok := meta[key]
	if !ok {
		return "", nil
	}
	s, ok := scalarString(val)
	if !ok {
		return "", invalid(key, "a scalar", val)
	}
	return s, nil
}

func scalarString(val any) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(v), true
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}

func flag(meta core.Metadata, key string) (bool, error) {
	switch v := meta[key].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, invalid(key, "a boolean", v)
		}
		return b, nil
	default:
		return false, invalid(key, "a boolean", v)
	}
}

// image accepts a plain path or a mapping with a "path" key (jekyll-seo style).
func image(meta core.Metadata) (string, error) {
	for _, key := range imageKeys {
		val, ok := meta[key]
		if !ok {
			continue
		}
		if m, ok := val.(map[string]any); ok {
			s, ok := scalarString(m["path"])
			if !ok {
				return "", invalid(key+".path", "a scalar", m["path"])
			}
			return s, nil
		}
		s, ok := scalarString(val)
		if !ok {
			return "", invalid(key, "a scalar or a mapping with a path", val)
		}
		return s, nil
	}
	return "", nil
}

// categories merges `categories` (list, or space-separated string) and the
// singular `category`, keeping first-seen order and dropping duplicates.
func categories(meta core.Metadata) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(c string) {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			return
		}
		seen[c] = true
		out = append(out, c)
	}

	switch v := meta["categories"].(type) {
	case nil:
	case string:
		for _, c := range strings.Fields(v) {
			add(c)
		}
	case []any:
		for _, item := range v {
			s, ok := scalarString(item)
			if !ok {
				return nil, invalid("categories", "a list of scalars", item)
			}
			add(s)
		}
	case []string:
		for _, s := range v {
			add(s)
		}
	default:
		return nil, invalid("categories", "a list or a string", v)
	}

	if val, ok := meta["category"]; ok {
		s, ok := scalarString(val)
		if !ok {
			return nil, invalid("category", "a scalar", val)
		}
		add(s)
	}

	if out == nil {
		out = []string{}
	}
	return out, nil
}
