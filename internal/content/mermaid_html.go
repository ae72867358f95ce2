package content

import (
	"regexp"
	"strings"
)

var (
	htmlBreakRE = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlSupRE   = regexp.MustCompile(`(?i)<sup>(.*?)</sup>`)
	htmlSubRE   = regexp.MustCompile(`(?i)<sub>(.*?)</sub>`)
	htmlTagRE   = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
)

// RemoveMermaidHTML strips HTML from inside fenced mermaid blocks, where it
// breaks the diagram renderer. <br/> becomes a space, <sup>/<sub> become
// ^/_ notation, every other tag is removed. HTML outside mermaid fences is
// never touched: prose may legitimately carry HTML for the rendering-time
// sanitizer (see RenderSafeHTML).
func RemoveMermaidHTML(md string) string {
	return rewriteMermaidBlocks(md, func(body string) (string, bool) {
		return stripMermaidHTMLBody(body), true
	})
}

func stripMermaidHTMLBody(body string) string {
	if !strings.Contains(body, "<") {
		return body
	}
	body = htmlBreakRE.ReplaceAllString(body, " ")
	body = htmlSupRE.ReplaceAllString(body, "^$1")
	body = htmlSubRE.ReplaceAllString(body, "_$1")
	body = htmlTagRE.ReplaceAllString(body, "")
	return body
}
