package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ConvertEducationalJSONToMarkdown detects whether raw model output is a
// structured educational-material JSON document rather than markdown prose,
// and if so converts its typed blocks to markdown. The detector fires when
// the input parses as a JSON object carrying a "body" array, either at the
// top level or under "educational_material". Returns the input unchanged
// (ok=false) when the detector does not fire.
func ConvertEducationalJSONToMarkdown(raw string) (string, bool) {
	trimmed := strings.TrimSpace(SanitizeModelJSON(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return raw, false
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return raw, false
	}
	root := doc
	if em, ok := doc["educational_material"].(map[string]any); ok {
		root = em
	}
	body, ok := root["body"].([]any)
	if !ok {
		return raw, false
	}

	var b strings.Builder
	if title := stringField(root, "title"); title != "" {
		b.WriteString("# " + title + "\n\n")
	}
	for _, item := range body {
		block, ok := item.(map[string]any)
		if !ok {
			continue
		}
		writeBlock(&b, block)
	}
	return strings.TrimRight(b.String(), "\n") + "\n", true
}

func writeBlock(b *strings.Builder, block map[string]any) {
	blockType := strings.ToLower(strings.TrimSpace(stringField(block, "type")))
	switch blockType {
	case "heading":
		level := intField(block, "level", 2)
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		b.WriteString(strings.Repeat("#", level) + " " + blockText(block) + "\n\n")
	case "paragraph", "text":
		b.WriteString(blockText(block) + "\n\n")
	case "formula", "equation":
		latex := firstStringField(block, "latex", "formula", "content", "text")
		if latex != "" {
			b.WriteString("$$ " + strings.TrimSpace(latex) + " $$\n\n")
		}
	case "diagram", "mermaid":
		code := firstStringField(block, "code", "definition", "content", "text")
		if strings.TrimSpace(code) != "" {
			b.WriteString("```mermaid\n" + strings.TrimRight(code, "\n") + "\n```\n\n")
		}
	case "code":
		lang := stringField(block, "language")
		code := firstStringField(block, "code", "content", "text")
		b.WriteString("```" + lang + "\n" + strings.TrimRight(code, "\n") + "\n```\n\n")
	case "list":
		ordered := boolField(block, "ordered")
		items, _ := block["items"].([]any)
		for i, item := range items {
			if ordered {
				fmt.Fprintf(b, "%d. %s\n", i+1, itemText(item))
			} else {
				b.WriteString("- " + itemText(item) + "\n")
			}
		}
		b.WriteString("\n")
	case "callout", "note", "tip":
		title := stringField(block, "title")
		text := blockText(block)
		if title != "" {
			b.WriteString("> **" + title + "**\n")
		}
		for _, line := range strings.Split(text, "\n") {
			b.WriteString("> " + line + "\n")
		}
		b.WriteString("\n")
	case "references":
		b.WriteString("## Referências\n\n")
		items, _ := block["items"].([]any)
		for _, item := range items {
			b.WriteString("- " + itemText(item) + "\n")
		}
		b.WriteString("\n")
	default:
		// Unknown block types degrade to their raw text when present and
		// are dropped silently otherwise.
		if text := blockText(block); text != "" {
			b.WriteString(text + "\n\n")
		}
	}
}

func blockText(block map[string]any) string {
	return firstStringField(block, "text", "content", "md")
}

func itemText(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]any:
		return blockText(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func firstStringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringField(m, key); s != "" {
			return s
		}
	}
	return ""
}

func intField(m map[string]any, key string, def int) int {
	if f, ok := m[key].(float64); ok {
		return int(f)
	}
	return def
}

func boolField(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}
