package content

// SanitizeGeneratedMarkdown runs the full repair pipeline over AI-generated
// didactic content before it is stored: structured-JSON output is first
// converted to markdown when detected, then the LaTeX, mermaid-HTML and
// mermaid-validity passes run in order. Every pass is pure and idempotent,
// so re-sanitizing stored content is a no-op.
func SanitizeGeneratedMarkdown(raw string) string {
	md := raw
	if converted, ok := ConvertEducationalJSONToMarkdown(raw); ok {
		md = converted
	}
	md = SanitizeLaTeX(md)
	md = RemoveMermaidHTML(md)
	md = ValidateAndFixMermaid(md)
	return md
}
