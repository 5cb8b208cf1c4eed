// Package render presents research briefs as Markdown, sanitized HTML or
// styled terminal text.
package render

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/research"
)

// Markdown renders b as a Markdown document.
func Markdown(b research.FinalBrief) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Research Brief: %s\n\n", b.Topic)
	sb.WriteString("## Introduction\n\n")
	sb.WriteString(strings.TrimSpace(b.Introduction))
	sb.WriteString("\n\n## Synthesis\n\n")
	sb.WriteString(strings.TrimSpace(b.Synthesis))
	sb.WriteString("\n")

	if len(b.PotentialFollowUps) > 0 {
		sb.WriteString("\n## Potential Follow-up Questions\n\n")
		for i, q := range b.PotentialFollowUps {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
		}
	}

	if len(b.References) > 0 {
		sb.WriteString("\n## References\n\n")
		for i, ref := range b.References {
			fmt.Fprintf(&sb, "%d. [%s](%s) (relevance %.2f)\n", i+1, referenceTitle(ref), ref.URL, ref.RelevanceScore)
			for _, point := range ref.KeyPoints {
				fmt.Fprintf(&sb, "    - %s\n", point)
			}
		}
	}

	return sb.String()
}

// HTML renders b as an HTML fragment. Model output is untrusted, so the
// rendered markup is passed through a UGC sanitizer.
func HTML(b research.FinalBrief) string {
	return string(MarkdownToHTML([]byte(Markdown(b))))
}

// MarkdownToHTML converts Markdown to sanitized HTML.
func MarkdownToHTML(md []byte) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})

	return bluemonday.UGCPolicy().SanitizeBytes(markdown.Render(doc, renderer))
}

func referenceTitle(ref research.SourceSummary) string {
	if strings.TrimSpace(ref.Title) != "" {
		return ref.Title
	}
	return ref.URL
}
