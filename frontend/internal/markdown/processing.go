// Package markdown renders attachment comments: inline markdown, sanitised for the listing.
package markdown

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// NoDescription is shown for attachments without a comment.
const NoDescription = "No description available"

type TextProcessor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *TextProcessor {
	// Comments are one-liners in a narrow list; only inline emphasis, code and links apply.
	p := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewLinkParser(), 200),
			util.Prioritized(parser.NewAutoLinkParser(), 300),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
		parser.WithParagraphTransformers(
			util.Prioritized(parser.LinkReferenceParagraphTransformer, 100),
		),
	)

	md := goldmark.New(
		goldmark.WithParser(p),
		goldmark.WithRendererOptions(html.WithUnsafe()),
		goldmark.WithExtensions(extension.Strikethrough),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowElements("del")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &TextProcessor{md: md, policy: policy}
}

// RenderComment returns the safe HTML of an attachment comment.
func (tp *TextProcessor) RenderComment(comment string) template.HTML {
	if strings.TrimSpace(comment) == "" {
		return template.HTML(template.HTMLEscapeString(NoDescription))
	}

	rendered, err := tp.renderText(comment)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(comment))
	}
	return template.HTML(tp.policy.Sanitize(unwrapParagraph(rendered)))
}

func (tp *TextProcessor) renderText(text string) (string, error) {
	var buf bytes.Buffer
	if err := tp.md.Convert([]byte(text), &buf); err != nil {
		return text, err
	}
	return strings.TrimSpace(buf.String()), nil
}

// unwrapParagraph drops the <p> around a single-paragraph comment so it fits in a list row.
func unwrapParagraph(s string) string {
	inner, ok := strings.CutPrefix(s, "<p>")
	if !ok {
		return s
	}
	inner, ok = strings.CutSuffix(inner, "</p>")
	if !ok || strings.Contains(inner, "<p>") {
		return s
	}
	return inner
}
