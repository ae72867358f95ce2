package content

import (
	"regexp"
	"strings"
)

// maxLaTeXPasses caps the repair loop. Each pass is cheap and the cascade
// converges almost always on the first pass; the cap guards against a rule
// pair oscillating on pathological input.
const maxLaTeXPasses = 5

var (
	cdotTypoRE = regexp.MustCompile(`\\cdotpt\b`)

	// $$ $formula$ $$  ->  $$ formula $$
	nestedInlineInDisplayRE = regexp.MustCompile(`\$\$\s*\$([^$]+)\$\s*\$\$`)
	// $ $$formula$$ $  ->  $ formula $
	nestedDisplayInInlineRE = regexp.MustCompile(`\$\s*\$\$([^$]+)\$\$\s*\$`)

	displaySpanRE = regexp.MustCompile(`(?s)\$\$(.*?)\$\$`)
	inlineSpanRE  = regexp.MustCompile(`\$([^$\n]+)\$`)

	// Closing delimiter glued to a following capitalized word or command:
	// "...é $m$Portanto" -> "...é $m$ Portanto".
	glueWordRE    = regexp.MustCompile(`([^\s$\\])\$([A-ZÀ-ÖØ-Þ][a-zà-öø-ÿ])`)
	glueCommandRE = regexp.MustCompile(`([^\s$\\])\$(\\[a-zA-Z])`)

	// Orphaned LaTeX command with brace arguments sitting in plain prose,
	// e.g. "a aceleração \dot{v} do corpo".
	orphanCommandRE = regexp.MustCompile(`\\[a-zA-Z]+\{[^{}]*\}(?:\{[^{}]*\})*`)

	// Two or more consecutive lowercase words: the operational definition of
	// "this is prose, the formula ended before it".
	proseBreakRE = regexp.MustCompile(`\s(?:[a-zà-öø-ÿ]+\s+){1,}[a-zà-öø-ÿ]+[\s,.;:]`)
)

// SanitizeLaTeX repairs malformed math delimiters in AI-generated markdown.
// It is a best-effort regex cascade, not a LaTeX parser: correctness is
// operational (balanced delimiters, no known-bad patterns left), and the
// function is idempotent. Fenced code blocks pass through untouched.
func SanitizeLaTeX(md string) string {
	return rewriteOutsideFences(md, func(text string) string {
		prev := text
		for i := 0; i < maxLaTeXPasses; i++ {
			next := latexPass(prev)
			if next == prev {
				break
			}
			prev = next
		}
		return dropUnbalancedDisplay(prev)
	})
}

func latexPass(text string) string {
	text = cdotTypoRE.ReplaceAllString(text, `\cdot`)
	text = nestedDisplayInInlineRE.ReplaceAllString(text, `$ $1 $`)
	text = nestedInlineInDisplayRE.ReplaceAllString(text, `$$$$ $1 $$$$`)
	text = canonicalizeDisplaySpans(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = repairInlineLine(line)
	}
	text = strings.Join(lines, "\n")

	text = glueWordRE.ReplaceAllString(text, `$1$$ $2`)
	text = glueCommandRE.ReplaceAllString(text, `$1$$ $2`)
	return text
}

// canonicalizeDisplaySpans rewrites every $$...$$ span to the form
// "$$ body $$": edge whitespace collapsed to one space, stray single $
// inside the span removed (inline math embedded in display math).
func canonicalizeDisplaySpans(text string) string {
	if strings.Count(text, "$$") < 2 {
		return text
	}
	return displaySpanRE.ReplaceAllStringFunc(text, func(span string) string {
		inner := span[2 : len(span)-2]
		inner = strings.ReplaceAll(inner, "$", "")
		inner = strings.Trim(inner, " \t\n")
		if inner == "" {
			return "$$"
		}
		return "$$ " + inner + " $$"
	})
}

// repairInlineLine fixes single-$ delimiters on one line: mis-paired spans
// whose content drifts into prose are split at the prose boundary, an
// unterminated trailing formula is closed at end of line, and span content
// loses stray edge whitespace. Display spans on the line are masked out
// first so their $$ pairs are not re-interpreted as two inline delimiters.
func repairInlineLine(line string) string {
	if !strings.Contains(line, "$") {
		return line
	}
	masked, spans := maskDisplaySpans(line)

	for pass := 0; pass < maxLaTeXPasses; pass++ {
		positions := singleDollarPositions(masked)
		if len(positions) == 0 {
			break
		}
		changed := false

		// Odd count: the last $ opens a formula that never closes. Close it
		// at end of line (before trailing whitespace), or drop it when there
		// is nothing after it to delimit.
		if len(positions)%2 == 1 {
			last := positions[len(positions)-1]
			run := masked[last+1:]
			if strings.TrimSpace(run) == "" {
				masked = masked[:last] + run
			} else {
				trimmed := strings.TrimRight(masked, " \t")
				masked = trimmed + "$" + masked[len(trimmed):]
			}
			changed = true
		} else {
			// Even count: check each paired span for a prose break. A span
			// like "$Q = mc\Delta T e a massa é $" is two formulas whose
			// delimiters paired across prose; close the first before the
			// prose begins.
			for j := 0; j+1 < len(positions); j += 2 {
				open, close := positions[j], positions[j+1]
				inner := masked[open+1 : close]
				if at := proseBreakIndex(inner); at >= 0 {
					masked = masked[:open+1] + inner[:at] + "$" + inner[at:] + masked[close:]
					changed = true
					break
				}
				if t := strings.Trim(inner, " \t"); t != inner && t != "" {
					masked = masked[:open+1] + t + masked[close:]
					changed = true
					break
				}
			}
		}
		if !changed {
			break
		}
	}

	masked = wrapOrphanCommands(masked)
	return unmaskDisplaySpans(masked, spans)
}

// proseBreakIndex returns the index in span content where formula text gives
// way to prose (a run of lowercase words at brace depth zero), or -1.
func proseBreakIndex(inner string) int {
	loc := proseBreakRE.FindStringIndex(inner)
	if loc == nil {
		return -1
	}
	depth := 0
	for i, r := range inner {
		if i >= loc[0] {
			break
		}
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	if depth != 0 {
		return -1
	}
	return loc[0]
}

// wrapOrphanCommands wraps LaTeX commands appearing outside any math span in
// $...$ so the renderer does not print them raw.
func wrapOrphanCommands(line string) string {
	if !strings.Contains(line, "\\") {
		return line
	}
	return mapOutsideInlineMath(line, func(seg string) string {
		return orphanCommandRE.ReplaceAllString(seg, `$$$0$$`)
	})
}

// mapOutsideInlineMath applies fn to the parts of a line not covered by a
// $...$ span and not inside backtick code spans.
func mapOutsideInlineMath(line string, fn func(string) string) string {
	covered := make([]bool, len(line))
	for _, loc := range inlineSpanRE.FindAllStringIndex(line, -1) {
		for i := loc[0]; i < loc[1]; i++ {
			covered[i] = true
		}
	}
	inCode := false
	for i := 0; i < len(line); i++ {
		if line[i] == '`' {
			inCode = !inCode
			covered[i] = true
			continue
		}
		if inCode {
			covered[i] = true
		}
	}
	var b strings.Builder
	b.Grow(len(line))
	start := -1
	flush := func(end int) {
		if start >= 0 {
			b.WriteString(fn(line[start:end]))
			start = -1
		}
	}
	for i := 0; i < len(line); i++ {
		if covered[i] {
			flush(i)
			b.WriteByte(line[i])
		} else if start < 0 {
			start = i
		}
	}
	flush(len(line))
	return b.String()
}

func singleDollarPositions(s string) []int {
	var out []int
	for i := 0; i < len(s); i++ {
		if s[i] != '$' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '$' {
			i++
			continue
		}
		out = append(out, i)
	}
	return out
}

const displayMaskRune = '\x00'

// maskDisplaySpans replaces $$...$$ spans with NUL padding of equal length so
// inline-repair never sees their dollars; unmaskDisplaySpans restores them.
func maskDisplaySpans(line string) (string, []string) {
	locs := displaySpanRE.FindAllStringIndex(line, -1)
	if len(locs) == 0 {
		return line, nil
	}
	spans := make([]string, 0, len(locs))
	b := []byte(line)
	for _, loc := range locs {
		spans = append(spans, line[loc[0]:loc[1]])
		for i := loc[0]; i < loc[1]; i++ {
			b[i] = displayMaskRune
		}
	}
	return string(b), spans
}

func unmaskDisplaySpans(line string, spans []string) string {
	if len(spans) == 0 {
		return line
	}
	var b strings.Builder
	b.Grow(len(line))
	spanIdx := 0
	i := 0
	for i < len(line) {
		if line[i] == displayMaskRune {
			j := i
			for j < len(line) && line[j] == displayMaskRune {
				j++
			}
			if spanIdx < len(spans) {
				b.WriteString(spans[spanIdx])
				spanIdx++
			}
			i = j
			continue
		}
		b.WriteByte(line[i])
		i++
	}
	return b.String()
}

// dropUnbalancedDisplay removes the last $$ when the total count is odd,
// preferring a missing display formula over broken markup downstream.
func dropUnbalancedDisplay(text string) string {
	if strings.Count(text, "$$")%2 == 0 {
		return text
	}
	idx := strings.LastIndex(text, "$$")
	if idx < 0 {
		return text
	}
	return text[:idx] + text[idx+2:]
}
