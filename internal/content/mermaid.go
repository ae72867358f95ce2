package content

import (
	"regexp"
	"strings"
)

// minMermaidChars is the smallest cleaned body worth rendering; anything
// shorter is noise the model emitted around an empty diagram.
const minMermaidChars = 20

var mermaidKeywords = []string{
	"flowchart",
	"graph",
	"sequenceDiagram",
	"classDiagram",
	"stateDiagram-v2",
	"stateDiagram",
	"erDiagram",
	"journey",
	"gantt",
	"pie",
	"mindmap",
	"timeline",
}

var mermaidUnicodeReplacer = strings.NewReplacer(
	"→", "-->",
	"⇒", "-->",
	"⟶", "-->",
	"↦", "-->",
	"↔", "---",
	"α", "alpha",
	"β", "beta",
	"γ", "gamma",
	"δ", "delta",
	"Δ", "Delta",
	"ε", "epsilon",
	"θ", "theta",
	"λ", "lambda",
	"μ", "mu",
	"π", "pi",
	"σ", "sigma",
	"φ", "phi",
	"ω", "omega",
	"Ω", "Omega",
	"⁰", "0", "¹", "1", "²", "2", "³", "3", "⁴", "4",
	"⁵", "5", "⁶", "6", "⁷", "7", "⁸", "8", "⁹", "9",
	"₀", "0", "₁", "1", "₂", "2", "₃", "3", "₄", "4",
	"₅", "5", "₆", "6", "₇", "7", "₈", "8", "₉", "9",
)

var mermaidMathSymbolRE = regexp.MustCompile(`[∑∫√≈≠≤≥±×÷∞∂∇·]`)

var (
	mermaidArrowRE = regexp.MustCompile(`-{1,3}>|={2,3}>|-\.+->`)
	// A node definition: identifier followed by a [label] or {label} opener.
	mermaidNodeRE     = regexp.MustCompile(`(?m)(?:^|\s)([A-Za-z][A-Za-z0-9_]*)\s*[\[{]`)
	mermaidSubgraphRE = regexp.MustCompile(`(?m)^[ \t]*subgraph\b[^\n]*\n?`)
	mermaidEndRE      = regexp.MustCompile(`(?m)^[ \t]*end[ \t]*\n?`)
	mermaidIllegalRE  = regexp.MustCompile(`[<>"'&()]`)
	mermaidLabelRE    = regexp.MustCompile(`\[[^\]\n]*\]|\{[^}\n]*\}|\|[^|\n]*\|`)
)

// ValidateAndFixMermaid repairs every fenced mermaid block in the markdown,
// or deletes the block entirely when it cannot be made renderable. After this
// pass every remaining block starts with a recognized diagram keyword,
// contains no subgraph wrapper, no raw HTML, and has enough arrows to be a
// connected diagram (arrows >= max(1, nodes-1)). A block is never left
// partially valid. Idempotent.
func ValidateAndFixMermaid(md string) string {
	return rewriteMermaidBlocks(md, func(body string) (string, bool) {
		cleaned := cleanMermaidBody(body)
		if len(strings.TrimSpace(cleaned)) < minMermaidChars {
			return "", false
		}
		nodes := countMermaidNodes(cleaned)
		arrows := len(mermaidArrowRE.FindAllString(cleaned, -1))
		min := nodes - 1
		if min < 1 {
			min = 1
		}
		if arrows < min {
			return "", false
		}
		return cleaned, true
	})
}

func cleanMermaidBody(body string) string {
	body = stripMermaidHTMLBody(body)
	body = mermaidUnicodeReplacer.Replace(body)
	body = mermaidMathSymbolRE.ReplaceAllString(body, "")
	body = stripIllegalLabelChars(body)

	// Subgraph wrappers hang some renderers: unwrap to the contained
	// statements, never pass one through.
	body = mermaidSubgraphRE.ReplaceAllString(body, "")
	body = mermaidEndRE.ReplaceAllString(body, "")

	body = strings.TrimLeft(body, "\n")
	if !hasMermaidKeyword(body) {
		body = "flowchart TD\n" + body
	}
	return body
}

func hasMermaidKeyword(body string) bool {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, kw := range mermaidKeywords {
			if strings.HasPrefix(line, kw) {
				return true
			}
		}
		return false
	}
	return false
}

// stripIllegalLabelChars removes characters mermaid chokes on inside node
// and edge labels: [..], {..} and |..| spans.
func stripIllegalLabelChars(body string) string {
	return mermaidLabelRE.ReplaceAllStringFunc(body, func(label string) string {
		open, close := label[:1], label[len(label)-1:]
		inner := mermaidIllegalRE.ReplaceAllString(label[1:len(label)-1], "")
		return open + inner + close
	})
}

func countMermaidNodes(body string) int {
	seen := map[string]bool{}
	for _, m := range mermaidNodeRE.FindAllStringSubmatch(body, -1) {
		id := m[1]
		switch id {
		case "flowchart", "graph", "subgraph", "end":
			continue
		}
		seen[id] = true
	}
	return len(seen)
}
