package command

import (
	"bytes"
	"errors"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one markdown heading in a command body.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Document is the parsed, human-facing view of a command file. The spawn
// pipeline never reads it; it works on the raw text.
type Document struct {
	Meta     Meta      `json:"meta"`
	Title    string    `json:"title,omitempty"`
	Headings []Heading `json:"headings,omitempty"`
	Body     []byte    `json:"-"`
	// FrontMatterErr records a frontmatter block that was present but broken.
	FrontMatterErr error `json:"-"`
}

var markdown = goldmark.New()

// Parse builds a Document. It never fails: missing frontmatter leaves Meta
// empty, and a broken block is reported through FrontMatterErr with the
// whole input treated as body.
func Parse(content []byte) Document {
	doc := Document{Body: normalizeNewlines(content)}
	meta, body, err := ParseFrontMatter(content)
	switch {
	case err == nil:
		doc.Meta = meta
		doc.Body = body
	case errors.Is(err, ErrMissingFrontMatter):
	default:
		doc.FrontMatterErr = err
	}
	doc.Headings = outline(doc.Body)
	for _, h := range doc.Headings {
		if h.Level == 1 {
			doc.Title = h.Text
			break
		}
	}
	return doc
}

// Summary returns the description, falling back to the title.
func (d Document) Summary() string {
	if d.Meta.Description != "" {
		return d.Meta.Description
	}
	return d.Title
}

func outline(body []byte) []Heading {
	root := markdown.Parser().Parse(text.NewReader(body))
	var headings []Heading
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		headings = append(headings, Heading{
			Level: heading.Level,
			Text:  inlineText(heading, body),
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

func inlineText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := child.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
