package content

import (
	"regexp"
	"strings"
)

// fencedBlockRE matches any fenced code block, including the delimiters.
var fencedBlockRE = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*[ \t]*\n.*?```")

// mermaidBlockRE matches a fenced mermaid block and captures its body.
var mermaidBlockRE = regexp.MustCompile("(?s)```mermaid[ \t]*\n(.*?)```")

// rewriteOutsideFences applies fn to every stretch of markdown that is not
// inside a fenced code block. Fenced blocks pass through untouched.
func rewriteOutsideFences(md string, fn func(string) string) string {
	locs := fencedBlockRE.FindAllStringIndex(md, -1)
	if len(locs) == 0 {
		return fn(md)
	}
	var b strings.Builder
	b.Grow(len(md))
	prev := 0
	for _, loc := range locs {
		b.WriteString(fn(md[prev:loc[0]]))
		b.WriteString(md[loc[0]:loc[1]])
		prev = loc[1]
	}
	b.WriteString(fn(md[prev:]))
	return b.String()
}

// rewriteMermaidBlocks applies fn to the body of every fenced mermaid block.
// When fn returns ("", false) the whole block, delimiters included, is
// removed; surrounding prose is left byte-identical.
func rewriteMermaidBlocks(md string, fn func(body string) (string, bool)) string {
	return mermaidBlockRE.ReplaceAllStringFunc(md, func(block string) string {
		m := mermaidBlockRE.FindStringSubmatch(block)
		if m == nil {
			return block
		}
		body, keep := fn(m[1])
		if !keep {
			return ""
		}
		if !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		return "```mermaid\n" + body + "```"
	})
}
