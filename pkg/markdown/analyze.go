// Package markdown inspects post bodies on a goldmark AST: word count,
// reading time, excerpt, footnotes and heading outline.
package markdown

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/aretw0/folio/pkg/core"
)

// DefaultWordsPerMinute is the reading speed used for reading time.
const DefaultWordsPerMinute = 200

// liquidPattern matches Liquid tags and output markup, which are template
// syntax and not prose.
var liquidPattern = regexp.MustCompile(`(?s)\{%.*?%\}|\{\{.*?\}\}`)

// Heading is an entry of a post outline.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Analysis is what the analyzer learns from a body.
type Analysis struct {
	Words          int
	ReadingMinutes int
	Excerpt        string
	Footnotes      []core.Footnote
	Headings       []Heading
}

// Analyzer parses bodies with goldmark. It holds no per-call state and can be
// shared.
type Analyzer struct {
	md  goldmark.Markdown
	wpm int
}

// NewAnalyzer creates an analyzer. A non-positive wordsPerMinute selects
// DefaultWordsPerMinute.
func NewAnalyzer(wordsPerMinute int) *Analyzer {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	return &Analyzer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
		),
		wpm: wordsPerMinute,
	}
}

// Analyze inspects body. Markdown never fails to parse, so neither does this.
func (a *Analyzer) Analyze(body string) Analysis {
	src := []byte(liquidPattern.ReplaceAllString(body, " "))
	doc := a.md.Parser().Parse(text.NewReader(src))

	var res Analysis
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if p, ok := n.(*ast.Paragraph); ok {
			res.Excerpt = plainText(p, src)
			break
		}
	}

	var words strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			res.Headings = append(res.Headings, Heading{Level: node.Level, Text: plainText(node, src)})
		case *extast.Footnote:
			res.Footnotes = append(res.Footnotes, core.Footnote{
				Index: node.Index,
				Ref:   string(node.Ref),
				Text:  plainText(node, src),
			})
		case *ast.Text:
			words.Write(node.Segment.Value(src))
			words.WriteByte(' ')
		case *ast.String:
			words.Write(node.Value)
			words.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})

	sort.SliceStable(res.Footnotes, func(i, j int) bool {
		return res.Footnotes[i].Index < res.Footnotes[j].Index
	})

	res.Words = len(strings.Fields(words.String()))
	res.ReadingMinutes = readingMinutes(res.Words, a.wpm)
	return res
}

func readingMinutes(words, wpm int) int {
	if words == 0 {
		return 0
	}
	minutes := (words + wpm - 1) / wpm
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// plainText concatenates the text below n, collapsing whitespace.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
