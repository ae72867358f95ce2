package content

import "strings"

// SanitizeModelJSON strips the decoration LLMs wrap around JSON output:
// ```json fences, stray backtick fences and C0 control characters. The
// result is what gets handed to json.Unmarshal; raw model text is never
// persisted.
func SanitizeModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	// C0 control characters inside string values are invalid JSON; the
	// escaped forms (\n, \t) the model should have produced are two-byte
	// sequences and survive untouched.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
